package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/google/subcommands"
	"github.com/ricmaia/carteira/config"
	"github.com/ricmaia/carteira/data"
	"github.com/ricmaia/carteira/data/cache"
	"github.com/ricmaia/carteira/internal/externalApi/yahooApi"
	"github.com/ricmaia/carteira/internal/reportGenerator/xlsxGenerator"
	"github.com/ricmaia/carteira/internal/scraper"
	"github.com/ricmaia/carteira/internal/service/portfolioService"
	"github.com/ricmaia/carteira/utils"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	yahooApiClient := yahooApi.New(cfg)

	var historyCache portfolioService.Cache
	if cfg.Cache.Enabled {
		redisClient := data.NewRedisClient(cfg)
		defer redisClient.Close()
		historyCache = cache.NewRedisCache(redisClient, cfg)
	}

	reportGenerator := xlsxGenerator.New()

	srv := portfolioService.New(yahooApiClient, historyCache, reportGenerator)

	scraperClient := scraper.New(cfg)

	commander := subcommands.NewCommander(flag.CommandLine, os.Args[0])
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	commander.Register(&historyCmd{srv: srv}, "analysis")
	commander.Register(&summaryCmd{srv: srv}, "analysis")
	commander.Register(&correlationsCmd{srv: srv}, "analysis")
	commander.Register(&chartCmd{srv: srv}, "charts")
	commander.Register(&dividendsCmd{srv: srv}, "charts")
	commander.Register(&reportCmd{srv: srv}, "reports")
	commander.Register(&rankingCmd{scraper: scraperClient}, "reports")

	flag.Parse()

	ctx := utils.CtxWithRqID(context.Background())
	os.Exit(int(commander.Execute(ctx)))
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
