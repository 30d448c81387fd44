package answer

import (
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/transcriptqa/internal/domain"
	domanswer "github.com/kailas-cloud/transcriptqa/internal/domain/answer"
	logpkg "github.com/kailas-cloud/transcriptqa/internal/logger"
)

// Defaults of the answer flow.
const (
	DefaultK           = 3
	DefaultTemperature = 0.3
)

// Config tunes the answer flow. A zero K or an empty template takes the default;
// Temperature is used as given.
type Config struct {
	K              int
	Temperature    float32
	PromptTemplate string
}

// Service answers questions from retrieved transcript chunks.
type Service struct {
	retriever   Retriever
	chat        domain.ChatModel
	k           int
	temperature float32
	prompt      *template.Template
	logger      *zap.Logger
}

// New creates an answer service. It fails only on an unparsable prompt template.
func New(retriever Retriever, chat domain.ChatModel, cfg Config, logger *zap.Logger) (*Service, error) {
	tmpl, err := parsePrompt(cfg.PromptTemplate)
	if err != nil {
		return nil, err
	}
	if cfg.K < 1 {
		cfg.K = DefaultK
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		retriever:   retriever,
		chat:        chat,
		k:           cfg.K,
		temperature: cfg.Temperature,
		prompt:      tmpl,
		logger:      logger,
	}, nil
}

// Ask retrieves context for question, asks the chat model once and returns its reply
// together with the retrieved sources.
func (s *Service) Ask(ctx context.Context, question string) (domanswer.Answer, error) {
	start := time.Now()

	sources, err := s.retriever.Search(ctx, question, s.k)
	if err != nil {
		return domanswer.Answer{}, fmt.Errorf("retrieve context: %w", err)
	}

	texts := make([]string, len(sources))
	for i := range sources {
		texts[i] = sources[i].Content()
	}

	prompt, err := renderPrompt(s.prompt, PromptData{
		Context:  strings.Join(texts, "\n\n"),
		Question: question,
	})
	if err != nil {
		return domanswer.Answer{}, err
	}

	reply, err := s.chat.Complete(ctx, prompt, s.temperature)
	if err != nil {
		return domanswer.Answer{}, fmt.Errorf("complete: %w", err)
	}
	domain.UsageFromContext(ctx).AddChatTokens(reply.TotalTokens)

	logpkg.From(ctx, s.logger).Debug("question answered",
		zap.Int("sources", len(sources)),
		zap.String("model", reply.Model),
		zap.Int("total_tokens", reply.TotalTokens),
		zap.Duration("duration", time.Since(start)),
	)

	return domanswer.New(question, reply.Text, sources), nil
}
