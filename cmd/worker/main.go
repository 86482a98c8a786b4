package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"github.com/jdmurray/portfolio-backend/internal/chatbot"
	"github.com/jdmurray/portfolio-backend/internal/config"
	"github.com/jdmurray/portfolio-backend/internal/database"
	"github.com/jdmurray/portfolio-backend/internal/embedding"
	"github.com/jdmurray/portfolio-backend/internal/eval"
	"github.com/jdmurray/portfolio-backend/internal/llm"
	"github.com/jdmurray/portfolio-backend/internal/prompt"
	"github.com/jdmurray/portfolio-backend/internal/queue"
	"github.com/jdmurray/portfolio-backend/internal/queue/workers"
	"github.com/jdmurray/portfolio-backend/internal/storage"
	"github.com/jdmurray/portfolio-backend/internal/training"
	"github.com/jdmurray/portfolio-backend/internal/vectorstore"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateWorker(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store, err := storage.NewLocalStorage(cfg.Storage.UploadDir, cfg.Storage.PublicBaseURL)
	if err != nil {
		slog.Error("failed to init storage", "error", err)
		os.Exit(1)
	}

	gateway := llm.NewGateway(cfg.LLM)
	embedSvc := embedding.NewService(gateway, cfg.LLM.EmbeddingModel)
	vs := vectorstore.NewPgVectorStore(db)
	trainingSvc := training.NewService(db, store, embedSvc, vs)

	judge := eval.NewJudge(gateway, prompt.NewRegistry(), cfg.LLM.JudgeModel)
	chatStore := chatbot.NewPgStore(db)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	registry := queue.NewHandlersRegistry()

	documentWorker := workers.NewDocumentWorker(trainingSvc)
	evaluationWorker := workers.NewEvaluationWorker(chatStore, judge)

	registry.Register(queue.TypeDocumentIngest, asynq.HandlerFunc(documentWorker.ProcessTask))
	registry.Register(queue.TypeEvaluationRun, asynq.HandlerFunc(evaluationWorker.ProcessTask))

	slog.Info("starting worker", "concurrency", 10)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
