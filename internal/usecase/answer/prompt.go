package answer

import (
	"fmt"
	"strings"
	"text/template"
)

// DefaultPromptTemplate is the instruction sent to the chat model.
const DefaultPromptTemplate = `You're an expert in answering coding questions. The user is taking a course with many classes.
Use the transcripts content below to answer the user's question.
If the answer is not in the transcripts, answer that you don't know, don't make up an answer.

If possible, include JavaScript or TypeScript code snippets in your answer.

Transcripts:
{{.Context}}

Question:
{{.Question}}`

// PromptData is the input of the prompt template.
type PromptData struct {
	Context  string
	Question string
}

func parsePrompt(text string) (*template.Template, error) {
	if text == "" {
		text = DefaultPromptTemplate
	}
	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	return tmpl, nil
}

func renderPrompt(tmpl *template.Template, data PromptData) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return b.String(), nil
}
