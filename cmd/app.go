// Package cmd provides the CLI commands for the Kindred application.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/adalundhe/kindred/agents/guardian"
	"github.com/adalundhe/kindred/agents/matchmaker"
	"github.com/adalundhe/kindred/agents/pimentor"
	"github.com/adalundhe/kindred/agents/scribe"
	"github.com/adalundhe/kindred/agents/vent"
	"github.com/adalundhe/kindred/core/config"
	"github.com/adalundhe/kindred/core/embedding"
	"github.com/adalundhe/kindred/core/intent"
	"github.com/adalundhe/kindred/core/llm"
	"github.com/adalundhe/kindred/core/orchestrator"
	"github.com/adalundhe/kindred/core/session"
	"github.com/adalundhe/kindred/core/vectorstore"
)

// app wires the full agent stack from configuration. Sessions are
// optional: commands that never touch conversation state leave them
// unopened.
type app struct {
	manager      *config.Manager
	cfg          *config.Config
	logger       *slog.Logger
	store        *vectorstore.Store
	sessions     *session.Store
	orchestrator *orchestrator.Orchestrator
}

func newApp(ctx context.Context, withSessions bool) (*app, error) {
	manager := config.NewManager(configPath)
	if err := manager.Load(); err != nil {
		return nil, err
	}
	cfg := manager.Get()

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	store, err := buildVectorStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	client, err := buildLLMClient(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var sessions *session.Store
	if withSessions {
		sessions, err = session.Open(cfg.Session.DatabasePath, logger)
		if err != nil {
			return nil, fmt.Errorf("cmd: open session store: %w", err)
		}
	}

	guard := guardian.New(guardian.Config{LLM: client, Logger: logger})

	orch := orchestrator.New(orchestrator.Config{
		Vent:       vent.New(vent.Config{LLM: client, Logger: logger}),
		Matchmaker: matchmaker.New(matchmaker.Config{Store: store, Logger: logger}),
		Scribe:     scribe.New(scribe.Config{LLM: client, Guardian: guard, Logger: logger}),
		Guardian:   guard,
		Mentor:     pimentor.New(pimentor.Config{LLM: client, Logger: logger}),
		Classifier: intent.NewClassifier(intent.Config{Generator: client, Logger: logger}),
		Store:      store,
		Sessions:   sessions,

		CaptureUserData: cfg.VectorStore.EnableRealUserData,
		Logger:          logger,
	})

	return &app{
		manager:      manager,
		cfg:          cfg,
		logger:       logger,
		store:        store,
		sessions:     sessions,
		orchestrator: orch,
	}, nil
}

func (a *app) Close() {
	if a.sessions != nil {
		if err := a.sessions.Close(); err != nil {
			a.logger.Warn("closing session store", "error", err)
		}
	}
	if err := a.store.Save(); err != nil {
		a.logger.Warn("saving vector store", "error", err)
	}
	a.manager.Close()
}

func buildVectorStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*vectorstore.Store, error) {
	embedder, err := embedding.NewGoogleEmbedder(ctx, embedding.GoogleConfig{
		APIKey: cfg.LLM.GoogleAPIKey,
		Model:  cfg.Embedding.Model,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("cmd: build embedder: %w", err)
	}

	cached, err := embedding.NewCachingEmbedder(embedder, cfg.Embedding.CacheSize, logger)
	if err != nil {
		return nil, fmt.Errorf("cmd: build embedding cache: %w", err)
	}

	return vectorstore.NewStore(vectorstore.Config{
		Embedder:          cached,
		PersistencePath:   cfg.VectorStore.PersistencePath,
		TopK:              cfg.VectorStore.TopK,
		Threshold:         cfg.VectorStore.SimilarityThreshold,
		MinStruggleLength: cfg.VectorStore.MinStruggleLength,
		DedupThreshold:    cfg.VectorStore.DedupThreshold,
		AutoSaveInterval:  cfg.VectorStore.AutoSaveInterval,
		CaptureUserData:   cfg.VectorStore.EnableRealUserData,
		Logger:            logger,
	}), nil
}

// buildLLMClient assembles the provider chain. Gemini leads when its
// key is present; OpenAI and Anthropic follow as fallbacks.
func buildLLMClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*llm.Client, error) {
	var providers []llm.Provider

	if cfg.LLM.GoogleAPIKey != "" {
		google, err := llm.NewGoogleProvider(ctx, llm.GoogleConfig{
			APIKey:      cfg.LLM.GoogleAPIKey,
			FlashModels: cfg.LLM.FlashModels,
			ProModels:   cfg.LLM.ProModels,
			Logger:      logger,
		})
		if err != nil {
			return nil, fmt.Errorf("cmd: build gemini provider: %w", err)
		}
		providers = append(providers, google)
	}

	if cfg.LLM.OpenAIAPIKey != "" {
		openai, err := llm.NewOpenAIProvider(llm.OpenAIConfig{
			APIKey: cfg.LLM.OpenAIAPIKey,
			Model:  cfg.LLM.OpenAIModel,
		})
		if err != nil {
			return nil, fmt.Errorf("cmd: build openai provider: %w", err)
		}
		providers = append(providers, openai)
	}

	if cfg.LLM.AnthropicAPIKey != "" {
		claude, err := llm.NewAnthropicProvider(llm.AnthropicConfig{
			APIKey: cfg.LLM.AnthropicAPIKey,
			Model:  cfg.LLM.AnthropicModel,
		})
		if err != nil {
			return nil, fmt.Errorf("cmd: build anthropic provider: %w", err)
		}
		providers = append(providers, claude)
	}

	if len(providers) == 0 {
		logger.Warn("no LLM API keys configured, generation will fail")
	}

	retry := llm.DefaultRetryPolicy()
	if cfg.LLM.MaxRetries > 0 {
		retry.MaxAttempts = cfg.LLM.MaxRetries
	}

	return llm.NewClient(llm.Config{
		Providers: providers,
		Retry:     retry,
		Logger:    logger,
	}), nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Log.Level)}

	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
