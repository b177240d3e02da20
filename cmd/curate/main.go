// Command curate builds the ranked, levelled and enriched vocabulary dataset
// from local linguistic resources, writes it to SQLite (or PostgreSQL) and
// verifies the result.
//
// Flags:
//
//	-curator-config  path to curator YAML config file
//	-count           number of words to select
//	-output          SQLite output path
//	-sink            sqlite or postgres
//	-enrich-api      enable remote dictionary enrichment
//	-api-batch       enrich only the top N ranks remotely (0 = all)
//	-report-only     only verify an existing dataset
//	-version         print the build version and exit
//
// Exit codes: 0 = success, 1 = error or failed verification checks.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/vocab-curator/internal/adapter/postgres"
	pgvocab "github.com/heartmarshall/vocab-curator/internal/adapter/postgres/vocab"
	"github.com/heartmarshall/vocab-curator/internal/adapter/provider/freedict"
	"github.com/heartmarshall/vocab-curator/internal/adapter/sqlite/vocab"
	"github.com/heartmarshall/vocab-curator/internal/app"
	"github.com/heartmarshall/vocab-curator/internal/app/curator"
	"github.com/heartmarshall/vocab-curator/internal/app/verify"
	"github.com/heartmarshall/vocab-curator/internal/audio"
	"github.com/heartmarshall/vocab-curator/internal/config"
	"github.com/heartmarshall/vocab-curator/internal/enricher"
)

// Compile-time interface assertions.
var (
	_ curator.Sink      = (*vocab.Store)(nil)
	_ curator.Sink      = (*pgvocab.Repo)(nil)
	_ curator.Lookup    = (*enricher.Remote)(nil)
	_ enricher.Fetcher  = (*freedict.Provider)(nil)
	_ verify.AudioIndex = audio.Index{}
)

func main() {
	configFlag := flag.String("curator-config", "", "path to curator YAML config file")
	countFlag := flag.Int("count", 0, "number of words to select")
	outputFlag := flag.String("output", "", "SQLite output path")
	sinkFlag := flag.String("sink", "", "dataset sink: sqlite or postgres")
	enrichFlag := flag.Bool("enrich-api", false, "enable remote dictionary enrichment")
	apiBatchFlag := flag.Int("api-batch", 0, "enrich only the top N ranks remotely (0 = all)")
	reportOnlyFlag := flag.Bool("report-only", false, "only verify an existing dataset")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Println(app.BuildVersion())
		return
	}

	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)

	cfg, err := curator.LoadConfig(*configFlag)
	if err != nil {
		logger.Error("load curator config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// CLI flags override config, but only when given.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "count":
			cfg.Count = *countFlag
		case "output":
			cfg.OutputPath = *outputFlag
		case "sink":
			cfg.Sink = *sinkFlag
		case "enrich-api":
			cfg.EnrichAPI = *enrichFlag
		case "api-batch":
			cfg.APIBatch = *apiBatchFlag
		case "report-only":
			cfg.ReportOnly = *reportOnlyFlag
		}
	})

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid curator config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("starting curator",
		slog.String("version", app.BuildVersion()),
		slog.String("sink", cfg.Sink),
		slog.Int("count", cfg.Count),
		slog.Bool("enrich_api", cfg.EnrichAPI),
		slog.Bool("report_only", cfg.ReportOnly),
	)

	os.Exit(withSignals(context.Background(), func(ctx context.Context) int {
		return run(ctx, logger, appCfg, *cfg)
	}))
}

// withSignals runs fn under a context cancelled on SIGINT or SIGTERM and
// restores default signal handling before returning fn's exit code.
func withSignals(parent context.Context, fn func(context.Context) int) int {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return fn(ctx)
}

func run(ctx context.Context, logger *slog.Logger, appCfg *config.Config, cfg curator.Config) int {
	sink, cleanup, err := openSink(ctx, logger, appCfg, cfg)
	if err != nil {
		logger.Error("open dataset sink", slog.String("error", err.Error()))
		return 1
	}
	defer cleanup()

	var remote curator.Lookup
	if cfg.EnrichAPI && !cfg.ReportOnly {
		cache, err := enricher.NewFileCache(cfg.APICacheDir)
		if err != nil {
			logger.Error("open enrichment cache", slog.String("error", err.Error()))
			return 1
		}
		fetcher := freedict.NewProvider(cfg.ProviderConfig(), logger)
		remote = enricher.NewRemote(fetcher, cache, cfg.RateLimitBackoff, logger)
	}

	pipeline := curator.NewPipeline(logger, cfg, sink, remote, audio.NewIndex(cfg.AudioDir))
	res, err := pipeline.Run(ctx)
	if err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		return 1
	}

	verify.PrintReport(os.Stdout, *res.Report)

	if !res.Passed() {
		logger.Warn("verification failed")
		return 1
	}

	logger.Info("curation completed successfully",
		slog.String("run_id", res.RunID.String()),
		slog.Int("words", res.Written),
		slog.Int("examples", res.Examples),
	)
	return 0
}

// openSink returns the configured sink and a cleanup func releasing it.
func openSink(ctx context.Context, logger *slog.Logger, appCfg *config.Config, cfg curator.Config) (curator.Sink, func(), error) {
	switch cfg.Sink {
	case curator.SinkPostgres:
		if err := appCfg.Database.RequireDSN(); err != nil {
			return nil, nil, err
		}
		pool, err := postgres.NewPool(ctx, appCfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if !cfg.ReportOnly {
			n, err := postgres.Migrate(ctx, pool)
			if err != nil {
				pool.Close()
				return nil, nil, err
			}
			logger.Info("migrations applied", slog.Int("count", n))
		}
		repo := pgvocab.New(pool, postgres.NewTxManager(pool), cfg.BatchSize)
		return repo, pool.Close, nil

	default:
		var (
			store *vocab.Store
			err   error
		)
		if cfg.ReportOnly {
			store, err = vocab.Open(ctx, cfg.OutputPath, logger)
		} else {
			store, err = vocab.Create(ctx, cfg.OutputPath, cfg.BatchSize, logger)
		}
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("close dataset", slog.String("error", err.Error()))
			}
		}, nil
	}
}
