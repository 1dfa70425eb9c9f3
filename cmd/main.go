package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/okian/handball-elo/internal/adapters/http/api"
	"github.com/okian/handball-elo/internal/adapters/loader"
	"github.com/okian/handball-elo/internal/adapters/mq/queue"
	"github.com/okian/handball-elo/internal/adapters/repository"
	service "github.com/okian/handball-elo/internal/app"
	"github.com/okian/handball-elo/internal/config"
	"github.com/okian/handball-elo/internal/domain/model"
	"github.com/okian/handball-elo/internal/domain/scoring"
	"github.com/okian/handball-elo/internal/domain/types"
	"github.com/okian/handball-elo/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Exit codes.
const (
	exitOK       = 0
	exitFailure  = 1
	exitSequence = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run loads every league, rates it and writes the report. Logs go to
// stderr so the report can be piped from stdout.
func run(ctx context.Context, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "failed to load config:", err)
		return exitFailure
	}
	if err := logger.Init(logger.WithWriter(stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
		fmt.Fprintln(stderr, "failed to initialize logging:", err)
		return exitFailure
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	leagues, err := loader.New(cfg.DataDir,
		loader.WithClubCodes(cfg.ClubCodes),
		loader.WithLeagues(cfg.Leagues...),
	).Leagues(ctx)
	if err != nil {
		log.Error(ctx, "failed to load leagues", logger.String("data_dir", cfg.DataDir), logger.Error(err))
		return exitFailure
	}

	svc := service.New(serviceOptions(cfg)...)

	if cfg.MetricsAddr != "" {
		srv := startHTTP(ctx, cfg.MetricsAddr, svc)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error(ctx, "server shutdown failed", logger.Error(err))
			}
		}()
	}

	jobs := make([]queue.Job, 0, len(leagues))
	for _, l := range leagues {
		jobs = append(jobs, queue.NewJob(l.Name, l.Seasons))
	}

	report, runErr := svc.Run(ctx, jobs...)
	if err := writeReport(cfg.Output, stdout, report); err != nil {
		log.Error(ctx, "failed to write report", logger.String("output", cfg.Output), logger.Error(err))
		return exitFailure
	}

	switch {
	case errors.Is(runErr, service.ErrSequence):
		log.Error(ctx, "rating aborted on out-of-order input", logger.Error(runErr))
		return exitSequence
	case runErr != nil:
		log.Error(ctx, "rating failed", logger.Error(runErr))
		return exitFailure
	}
	log.Info(ctx, "rating complete", logger.Int("leagues", len(report.Leagues)))
	return exitOK
}

func serviceOptions(cfg *config.Config) []service.ServiceOption {
	return []service.ServiceOption{
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithServiceLogger(logger.Get().Named("service")),
		service.WithEngineOptions(engineOptions(cfg)...),
	}
}

func engineOptions(cfg *config.Config) []service.Option {
	return []service.Option{
		service.WithStoreOptions(
			repository.WithBounds(cfg.MinRating, cfg.MaxRating),
			repository.WithDefault(model.KindPlayer, cfg.PlayerRating),
			repository.WithDefault(model.KindGoalkeeper, cfg.GoalkeeperRating),
			repository.WithDefault(model.KindTeam, cfg.TeamRating),
		),
		service.WithScoringOptions(
			scoring.WithKFactors(cfg.KPlayer, cfg.KGoalkeeper, cfg.KTeam),
			scoring.WithHomeAdvantage(cfg.HomeAdvantage),
			scoring.WithMaxEventDelta(cfg.MaxEventDelta),
			scoring.WithActionWeights(cfg.ActionWeights),
			scoring.WithPositionMultipliers(cfg.PositionMultipliers),
		),
		service.WithPolicy(cfg.Policy()),
		service.WithCarryOverWeights(cfg.PriorWeight, cfg.AggregateWeight),
		service.WithAggregateFactor(cfg.AggregateFactor),
		service.WithAliases(model.NewAliases(cfg.Aliases)),
		service.WithMinAppearances(cfg.MinAppearances),
		service.WithReportSize(cfg.ReportSize),
	}
}

func startHTTP(ctx context.Context, addr string, p api.Progress) *http.Server {
	mux := http.NewServeMux()
	api.NewServer(p).Register(mux)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		logger.Get().Info(ctx, "starting HTTP server", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Get().Error(ctx, "HTTP server failed", logger.Error(err))
		}
	}()
	return srv
}

// writeReport encodes report as indented JSON to path, or to stdout when
// path is empty or "-".
func writeReport(path string, stdout io.Writer, report types.Report) error {
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if path == "" || path == "-" {
		_, err = stdout.Write(b)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
