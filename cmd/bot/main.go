package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/Spok95/quote-bot/internal/bot"
	"github.com/Spok95/quote-bot/internal/config"
	"github.com/Spok95/quote-bot/internal/dialog"
	"github.com/Spok95/quote-bot/internal/domain/materials"
	"github.com/Spok95/quote-bot/internal/extract"
	"github.com/Spok95/quote-bot/internal/infra/db"
	httpx "github.com/Spok95/quote-bot/internal/infra/http"
	"github.com/Spok95/quote-bot/internal/infra/llm"
	"github.com/Spok95/quote-bot/internal/infra/logger"
	"github.com/Spok95/quote-bot/internal/infra/metrics"
	"github.com/Spok95/quote-bot/internal/intent"
	"github.com/Spok95/quote-bot/migrations"
)

func runMigrations(dsn string) error {
	goose.SetBaseFS(migrations.FS)
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, ".")
}

func loadTable(path string) (*materials.Table, error) {
	t := materials.DefaultTable()
	if path == "" {
		return t, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	extra, err := materials.ReadSectionSheet(f)
	if err != nil {
		return nil, err
	}
	return t.Extend(extra)
}

// loadRates layers config families, the rate workbook and stored rates over the defaults.
func loadRates(ctx context.Context, cfg config.Config, repo *materials.RateRepo) (materials.RateTable, error) {
	rt := materials.DefaultRates().WithRates(cfg.Rates.Families)
	if cfg.Rates.Sheet != "" {
		f, err := os.Open(cfg.Rates.Sheet)
		if err != nil {
			return rt, err
		}
		rules, err := materials.ReadRateRules(f)
		_ = f.Close()
		if err != nil {
			return rt, err
		}
		rt = rt.WithRules(rules)
	}
	if repo != nil {
		stored, err := repo.List(ctx)
		if err != nil {
			return rt, err
		}
		rt = rt.WithRates(stored)
	}
	return rt, nil
}

func newFallback(ctx context.Context, cfg config.Config, m *metrics.Metrics, log *slog.Logger) (*llm.Service, error) {
	if cfg.LLM.APIKey == "" {
		return nil, nil
	}
	g, err := llm.NewGemini(ctx, llm.GeminiConfig{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	return llm.New(g,
		llm.WithRateLimit(cfg.LLM.RatePerSecond, cfg.LLM.Burst),
		llm.WithObserver(m),
		llm.WithLogger(log),
	), nil
}

func main() {
	cfgPath := flag.String("config", "config/example.yaml", "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		store    dialog.Store = dialog.NewMemoryRepo()
		rateRepo *materials.RateRepo
	)
	switch cfg.Assistant.Store {
	case "memory":
	case "redis":
		rdb, err := dialog.OpenRedis(ctx, cfg.Redis.URL)
		if err != nil {
			log.Error("redis connect failed", "err", err)
			return
		}
		defer func() { _ = rdb.Close() }()
		store = dialog.NewRedisRepo(rdb, cfg.Assistant.SessionTTL)
		log.Info("redis connected")
	default:
		if err := runMigrations(cfg.Postgres.DSN); err != nil {
			log.Error("migrations failed", "err", err)
			return
		}
		log.Info("migrations applied")

		pool, err := db.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			log.Error("db connect failed", "err", err)
			return
		}
		defer pool.Close()
		log.Info("db connected")

		store = dialog.NewRepo(pool)
		rateRepo = materials.NewRateRepo(pool)
	}

	table, err := loadTable(cfg.Materials.SectionsSheet)
	if err != nil {
		log.Error("section sheet failed", "path", cfg.Materials.SectionsSheet, "err", err)
		return
	}
	rates, err := loadRates(ctx, cfg, rateRepo)
	if err != nil {
		log.Error("rates failed", "err", err)
		return
	}
	log.Info("catalogue loaded", "sections", table.Len(), "rate_families", len(rates.Rates()))

	m := metrics.New(prometheus.DefaultRegisterer)

	fallback, err := newFallback(ctx, cfg, m, log)
	if err != nil {
		log.Error("llm client failed", "err", err)
		return
	}

	exOpts := []extract.Option{
		extract.WithRates(rates),
		extract.WithLogger(log),
		extract.WithFallbackMinLength(cfg.Assistant.ExtractFallbackMin),
	}
	clOpts := []intent.Option{
		intent.WithLogger(log),
		intent.WithFallbackMinLength(cfg.Assistant.IntentFallbackMinLen),
	}
	if fallback != nil {
		exOpts = append(exOpts, extract.WithFallback(fallback, cfg.LLM.Timeout))
		clOpts = append(clOpts, intent.WithFallback(fallback, cfg.LLM.Timeout))
		log.Info("llm fallback enabled", "model", cfg.LLM.Model)
	}

	ex, err := extract.New(table, exOpts...)
	if err != nil {
		log.Error("extractor failed", "err", err)
		return
	}
	orc, err := dialog.New(ex, intent.New(clOpts...),
		dialog.WithLogger(log),
		dialog.WithRecorder(m),
		dialog.WithHistoryDepth(cfg.Assistant.HistoryDepth),
	)
	if err != nil {
		log.Error("orchestrator failed", "err", err)
		return
	}
	mgr := dialog.NewManager(orc, store, log)

	var tg *bot.Bot
	if cfg.Telegram.Token != "" {
		api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			log.Error("telegram init failed", "err", err)
			return
		}
		var rs bot.RateStore
		if rateRepo != nil {
			rs = rateRepo
		}
		tg = bot.New(api, log, mgr, rates, rs, cfg.Telegram.AdminChatID)
		log.Info("telegram bot authorized", "username", api.Self.UserName)
	}

	g, gctx := errgroup.WithContext(ctx)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, mgr, log)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	if tg != nil {
		g.Go(func() error {
			if err := tg.Run(gctx, cfg.Telegram.Timeout); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("service stopped with error", "err", err)
		return
	}
	log.Info("graceful shutdown complete")
}
