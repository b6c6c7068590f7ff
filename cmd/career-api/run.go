package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/careerkit/career-assistant/internal/ai"
	"github.com/careerkit/career-assistant/internal/analyzer"
	apiserver "github.com/careerkit/career-assistant/internal/api_server"
	"github.com/careerkit/career-assistant/internal/config"
	"github.com/careerkit/career-assistant/internal/crawler"
	"github.com/careerkit/career-assistant/internal/notify"
	"github.com/careerkit/career-assistant/internal/pipeline"
	"github.com/careerkit/career-assistant/internal/review"
	"github.com/careerkit/career-assistant/internal/scheduler"
	"github.com/careerkit/career-assistant/internal/store"
	"github.com/careerkit/career-assistant/pkg/log"
	"github.com/careerkit/career-assistant/pkg/migrations"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the career assistant api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			zap.S().Fatalf("reading configuration: %v", err)
		}

		logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
		if err != nil {
			logLvl = zap.NewAtomicLevelAt(zap.InfoLevel)
		}

		logger := log.InitLog(logLvl)
		defer func() { _ = logger.Sync() }()

		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Info("Starting career assistant API service")
		defer zap.S().Info("Career assistant API service stopped")

		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalf("initializing data store: %v", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		if err := migrations.MigrateStore(db, cfg.Database.Type, cfg.Service.MigrationFolder); err != nil {
			zap.S().Fatalf("running initial migration: %v", err)
		}

		pl, err := assemblePipeline(cfg, s)
		if err != nil {
			zap.S().Fatalf("assembling pipeline: %v", err)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.Address)
			if err != nil {
				zap.S().Fatalf("creating listener: %s", err)
			}

			server := apiserver.New(cfg, s, pl, listener)
			if err := server.Run(ctx); err != nil {
				zap.S().Fatalf("Error running server: %s", err)
			}
		}()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.MetricsAddress)
			if err != nil {
				zap.S().Fatalf("creating metrics listener: %s", err)
			}

			metricsServer := apiserver.NewMetricServer(cfg.Service.MetricsAddress, listener)
			if err := metricsServer.Run(ctx); err != nil {
				zap.S().Fatalf("Error running metrics server: %s", err)
			}
		}()

		if cfg.Scheduler.Enabled {
			go scheduler.New(
				pl,
				newNotifier(cfg),
				cfg.Scheduler.WatchURLs,
				time.Duration(cfg.Scheduler.IntervalMinutes)*time.Minute,
			).Run(ctx)
		}

		<-ctx.Done()
		return nil
	},
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}

func assemblePipeline(cfg *config.Config, s store.Store) (*pipeline.Pipeline, error) {
	timeout := time.Duration(cfg.AI.TimeoutSeconds) * time.Second

	high, err := ai.NewAnthropicClient(ai.AnthropicOptions{
		BaseURL:   cfg.AI.BaseURL,
		APIKey:    cfg.AI.APIKey,
		Model:     cfg.AI.HighTierModel,
		MaxTokens: cfg.AI.MaxTokens,
		Timeout:   timeout,
		Tier:      ai.TierHighFidelity,
	})
	if err != nil {
		return nil, err
	}

	fast, err := ai.NewAnthropicClient(ai.AnthropicOptions{
		BaseURL:   cfg.AI.BaseURL,
		APIKey:    cfg.AI.APIKey,
		Model:     cfg.AI.FastTierModel,
		MaxTokens: cfg.AI.MaxTokens,
		Timeout:   timeout,
		Tier:      ai.TierFast,
	})
	if err != nil {
		return nil, err
	}

	router := ai.NewRouter(high, fast)

	return pipeline.New(
		s,
		crawler.NewHTTPCrawler(cfg.Crawler.UserAgent, time.Duration(cfg.Crawler.TimeoutSeconds)*time.Second),
		analyzer.Classify,
		analyzer.NewCompanyAnalyzer(high, zap.S().Named("analyzer")),
		review.NewAgent(router),
		router,
	), nil
}

func newNotifier(cfg *config.Config) notify.Notifier {
	if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == 0 {
		zap.S().Info("telegram not configured, notifications disabled")
		return notify.NoopNotifier{}
	}
	notifier, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		zap.S().Warnw("telegram setup failed, notifications disabled", "error", err)
		return notify.NoopNotifier{}
	}
	return notifier
}
