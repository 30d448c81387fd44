package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/transcriptqa/internal/config"
	dbRedis "github.com/kailas-cloud/transcriptqa/internal/db/redis"
	"github.com/kailas-cloud/transcriptqa/internal/domain"
	logpkg "github.com/kailas-cloud/transcriptqa/internal/logger"
	"github.com/kailas-cloud/transcriptqa/internal/metrics"
	"github.com/kailas-cloud/transcriptqa/internal/repository/vector"
	openaiTransport "github.com/kailas-cloud/transcriptqa/internal/transport/openai"
	answeruc "github.com/kailas-cloud/transcriptqa/internal/usecase/answer"
	retrievaluc "github.com/kailas-cloud/transcriptqa/internal/usecase/retrieval"
	"github.com/kailas-cloud/transcriptqa/internal/version"
)

var errMissingAPIKey = errors.New("embedding.api_key is required (set OPENAI_API_KEY)")

// app is the composition root shared by the subcommands: one config, one logger,
// one Redis client and the vector repository addressing the configured index.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	store  *dbRedis.Store
	repo   *vector.Repo
}

func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logpkg.New(opts.env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	logger.Debug("Starting transcriptqa",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", opts.env),
		zap.String("index", cfg.Index.Name),
		zap.String("key_prefix", cfg.Index.KeyPrefix),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		URL:      cfg.Database.URL,
		Password: cfg.Database.Password,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("create redis store: %w", err)
	}

	timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		_ = logger.Sync()
		return nil, fmt.Errorf("redis not ready: %w", err)
	}
	logger.Debug("Connected to redis")

	metrics.Register()

	repo := vector.New(store, vector.Config{
		IndexName:          cfg.Index.Name,
		KeyPrefix:          cfg.Index.KeyPrefix,
		HNSWM:              cfg.Index.HNSWM,
		HNSWEFConstruction: cfg.Index.HNSWEFConstruct,
	})

	return &app{cfg: cfg, logger: logger, store: store, repo: repo}, nil
}

// commandContext attaches a logger tagged with the subcommand name to the command's context.
func (a *app) commandContext(cmd *cobra.Command) context.Context {
	return logpkg.ContextWithLogger(cmd.Context(), a.logger.With(zap.String("command", cmd.Name())))
}

func (a *app) Close() {
	a.store.Close()
	_ = a.logger.Sync()
}

// embedder builds the embedding decorator chain. The returned provider is the
// undecorated transport, used for health checks.
func (a *app) embedder(ctx context.Context) (domain.Embedder, *openaiTransport.Embedder, error) {
	if a.cfg.Embedding.APIKey == "" {
		return nil, nil, errMissingAPIKey
	}
	budget := newBudgetChecker(ctx, a.cfg.Embedding, a.store, a.logger)
	e, base := buildEmbedder(a.cfg.Embedding, a.store, budget, a.logger)
	return e, base, nil
}

func (a *app) chat() *openaiTransport.Chat {
	return openaiTransport.NewChat(&openaiTransport.ChatConfig{
		APIKey:   a.cfg.Chat.APIKey,
		BaseURL:  a.cfg.Chat.BaseURL,
		Model:    a.cfg.Chat.Model,
		Provider: a.cfg.Chat.Provider,
		Logger:   a.logger,
	})
}

func (a *app) retrieval(embedder domain.Embedder) *retrievaluc.Service {
	return retrievaluc.New(a.repo, embedder)
}

func (a *app) answer(retriever answeruc.Retriever, chat domain.ChatModel) (*answeruc.Service, error) {
	return answeruc.New(retriever, chat, answeruc.Config{
		K:              a.cfg.Retrieval.AnswerK,
		Temperature:    *a.cfg.Chat.Temperature,
		PromptTemplate: a.cfg.Chat.PromptTemplate,
	}, a.logger)
}
