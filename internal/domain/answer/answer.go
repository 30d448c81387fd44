package answer

import "github.com/kailas-cloud/transcriptqa/internal/domain/search/result"

// Answer is the generated reply to a question plus the retrieved chunks it was conditioned on.
type Answer struct {
	question string
	text     string
	sources  []result.Result
}

// New creates an Answer.
func New(question, text string, sources []result.Result) Answer {
	return Answer{question: question, text: text, sources: sources}
}

// Question returns the question that was asked.
func (a *Answer) Question() string { return a.question }

// Text returns the generated answer text.
func (a *Answer) Text() string { return a.text }

// Sources returns the retrieved chunks used as context.
func (a *Answer) Sources() []result.Result { return a.sources }
