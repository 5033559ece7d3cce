package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"

	"github.com/honeycarbs/hh-vacancies/internal/config"
	"github.com/honeycarbs/hh-vacancies/internal/domain/analytics"
	"github.com/honeycarbs/hh-vacancies/internal/domain/ingest"
	hhprovider "github.com/honeycarbs/hh-vacancies/internal/domain/ingest/providers/hh"
	"github.com/honeycarbs/hh-vacancies/internal/shell"
	storage "github.com/honeycarbs/hh-vacancies/internal/storage/postgres"
	"github.com/honeycarbs/hh-vacancies/pkg/hh"
	"github.com/honeycarbs/hh-vacancies/pkg/logging"
	pkgpostgres "github.com/honeycarbs/hh-vacancies/pkg/postgres"
)

type app struct {
	cfg    config.Config
	logger *logging.Logger
	opts   options

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// database bundles the repositories over one pool
type database struct {
	*storage.EmployerRepository
	*storage.VacancyRepository
	queries *storage.QueryRepository
}

var _ ingest.Repository = (*database)(nil)

func (a *app) connect(dbName string) (*pkgpostgres.Client, error) {
	client, err := pkgpostgres.NewClient(pkgpostgres.Config{
		DSN:      a.cfg.Postgres.DSN(dbName),
		MaxConns: a.cfg.Postgres.MaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", dbName, err)
	}
	return client, nil
}

func (a *app) setup(ctx context.Context) error {
	log := a.logger.Named("setup")

	if !a.opts.skipProvision {
		admin, err := a.connect(a.cfg.Postgres.AdminDatabase)
		if err != nil {
			return err
		}
		err = storage.NewSchemaManager(admin.DB(), log).Provision(ctx, a.cfg.Postgres.Database)
		admin.Close()
		if err != nil {
			return err
		}
	}

	client, err := a.connect(a.cfg.Postgres.Database)
	if err != nil {
		return err
	}
	defer client.Close()

	return storage.NewSchemaManager(client.DB(), log).CreateTables(ctx)
}

func (a *app) withDatabase(ctx context.Context, fn func(ctx context.Context, d *database) error) error {
	client, err := a.connect(a.cfg.Postgres.Database)
	if err != nil {
		return err
	}
	defer client.Close()

	db := client.DB()
	log := a.logger.Named("storage")
	return fn(ctx, &database{
		EmployerRepository: storage.NewEmployerRepository(db, log),
		VacancyRepository:  storage.NewVacancyRepository(db, log),
		queries:            storage.NewQueryRepository(db, log),
	})
}

func (a *app) ingest(ctx context.Context, d *database) error {
	client, err := hh.NewClient(hh.Config{
		BaseURL:    a.cfg.HH.BaseURL,
		UserAgent:  a.cfg.HH.UserAgent,
		HTTPClient: &http.Client{Timeout: a.cfg.HH.Timeout},
		PerPage:    a.cfg.HH.PerPage,
		Limiter:    newLimiter(a.cfg.HH.RPS),
	})
	if err != nil {
		return err
	}

	provider, err := hhprovider.NewProvider(client,
		hhprovider.WithConcurrency(a.cfg.HH.Concurrency),
		hhprovider.WithMaxPages(a.cfg.HH.MaxPages),
		hhprovider.WithLogger(a.logger.Named("hh")),
	)
	if err != nil {
		return err
	}

	opts := []ingest.Option{
		ingest.WithSource(provider),
		ingest.WithRepository(d),
		ingest.WithLogger(a.logger.Named("ingest")),
		ingest.WithContinueOnVacancyError(a.opts.continueOnError),
	}
	if !a.opts.noProgress {
		opts = append(opts, ingest.WithProgress(newProgressBar(a.stderr)))
	}

	svc, err := ingest.NewService(opts...)
	if err != nil {
		return err
	}

	report, err := svc.Run(ctx, a.cfg.HH.EmployerIDs)
	fmt.Fprintf(a.stdout, "Employers: %s stored, %s failed. Vacancies: %s stored, %s skipped, %s failed (%s)\n",
		humanize.Comma(int64(report.EmployersInserted)),
		humanize.Comma(int64(report.EmployersFailed)),
		humanize.Comma(int64(report.VacanciesInserted)),
		humanize.Comma(int64(report.VacanciesSkipped)),
		humanize.Comma(int64(report.VacanciesFailed)),
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond),
	)
	return err
}

func (a *app) shell(ctx context.Context, d *database) error {
	svc := analytics.NewService(d.queries, a.logger.Named("analytics"))
	return shell.New(svc, a.stdin, a.stdout, a.logger.Named("shell")).Run(ctx)
}

// newLimiter returns nil, meaning no throttling, for a non-positive rate
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}
