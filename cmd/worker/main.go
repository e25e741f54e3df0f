package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"github.com/vendorwatch/vendorwatch/internal/ai"
	"github.com/vendorwatch/vendorwatch/internal/config"
	"github.com/vendorwatch/vendorwatch/internal/database"
	"github.com/vendorwatch/vendorwatch/internal/queue"
	"github.com/vendorwatch/vendorwatch/internal/queue/workers"
	"github.com/vendorwatch/vendorwatch/internal/store/pg"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	analyzer := newAnalyzer(cfg.AI)
	slog.Info("using analyzer", "provider", analyzer.Name())

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
		},
	)

	mux := asynq.NewServeMux()
	analysisWorker := workers.NewAnalysisWorker(pg.NewSupplierStore(db), analyzer)
	mux.HandleFunc(queue.TypeSupplierAnalyze, analysisWorker.ProcessTask)

	slog.Info("starting worker", "concurrency", 10)
	if err := srv.Run(mux); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}

// newAnalyzer picks the provider from config. The mock is the default so a
// development stack works without any API keys.
func newAnalyzer(cfg config.AIConfig) ai.Analyzer {
	switch cfg.Provider {
	case "anthropic":
		return ai.NewAnthropicAnalyzer(cfg.AnthropicKey, cfg.Model)
	case "openai":
		return ai.NewOpenAIAnalyzer(cfg.OpenAIKey, cfg.Model)
	default:
		return ai.NewMockAnalyzer()
	}
}
