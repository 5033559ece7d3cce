package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/honeycarbs/hh-vacancies/internal/domain"
	"github.com/honeycarbs/hh-vacancies/pkg/logging"
)

type Service interface {
	Run(ctx context.Context, ids []domain.EmployerID) (Report, error)
}

// Report summarizes one ingestion run
type Report struct {
	RunID      uuid.UUID
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time

	EmployersFetched  int
	EmployersInserted int
	EmployersFailed   int

	VacanciesFetched  int
	VacanciesInserted int
	VacanciesSkipped  int // employer not stored
	VacanciesFailed   int
}

// Option configures Service
type Option func(*config)

type config struct {
	source          Source
	repo            Repository
	logger          *logging.Logger
	progress        Progress
	clock           func() time.Time
	continueOnError bool
}

// WithSource sets the upstream data source
func WithSource(source Source) Option {
	return func(c *config) {
		c.source = source
	}
}

// WithRepository sets the repository
func WithRepository(repo Repository) Option {
	return func(c *config) {
		c.repo = repo
	}
}

// WithLogger sets the logger
func WithLogger(logger *logging.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithProgress reports vacancy persistence progress
func WithProgress(p Progress) Option {
	return func(c *config) {
		c.progress = p
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithContinueOnVacancyError keeps the run going when a vacancy insert fails.
// By default such a failure aborts the run and is returned to the caller.
func WithContinueOnVacancyError(enabled bool) Option {
	return func(c *config) {
		c.continueOnError = enabled
	}
}

// NewService builds Service from options
func NewService(opts ...Option) (Service, error) {
	cfg := &config{
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.repo == nil {
		return nil, fmt.Errorf("ingest.Service: repository is required")
	}
	if cfg.source == nil {
		return nil, fmt.Errorf("ingest.Service: source is required")
	}
	if cfg.logger == nil {
		cfg.logger = logging.Nop()
	}

	return &service{
		source:          cfg.source,
		repo:            cfg.repo,
		logger:          cfg.logger,
		progress:        cfg.progress,
		clock:           cfg.clock,
		continueOnError: cfg.continueOnError,
	}, nil
}

type service struct {
	source          Source
	repo            Repository
	logger          *logging.Logger
	progress        Progress
	clock           func() time.Time
	continueOnError bool
}

// Run fetches employers, stores them, then fetches and stores their vacancies
func (s *service) Run(ctx context.Context, ids []domain.EmployerID) (Report, error) {
	report := Report{
		RunID:     uuid.New(),
		Source:    s.source.Name(),
		StartedAt: s.clock(),
	}
	log := s.logger.With("run_id", report.RunID.String(), "source", report.Source)

	if len(ids) == 0 {
		return report, fmt.Errorf("ingest: no employer ids given")
	}

	log.Info("ingestion started", "employers", len(ids))

	employers, err := s.source.FetchEmployers(ctx, ids)
	if err != nil {
		return s.finish(report), fmt.Errorf("ingest: fetch employers: %w", err)
	}
	report.EmployersFetched = len(employers)

	for _, emp := range employers {
		if err := ctx.Err(); err != nil {
			return s.finish(report), err
		}

		if err := s.repo.InsertEmployer(ctx, emp); err != nil {
			report.EmployersFailed++
			if errors.Is(err, domain.ErrIntegrity) {
				log.Warn("employer already stored", "employer_id", emp.ID, "err", err)
			} else {
				log.Error("failed to store employer", "employer_id", emp.ID, "err", err)
			}
			continue
		}
		report.EmployersInserted++
	}

	vacancies, err := s.source.FetchVacancies(ctx, ids)
	if err != nil {
		return s.finish(report), fmt.Errorf("ingest: fetch vacancies: %w", err)
	}
	report.VacanciesFetched = len(vacancies)

	if s.progress != nil {
		s.progress.Start(len(vacancies))
		defer s.progress.Finish()
	}

	for _, vac := range vacancies {
		if err := ctx.Err(); err != nil {
			return s.finish(report), err
		}

		err := s.repo.InsertVacancy(ctx, vac)
		if s.progress != nil {
			s.progress.Increment()
		}

		switch {
		case err == nil:
			report.VacanciesInserted++
		case errors.Is(err, domain.ErrUnknownEmployer):
			report.VacanciesSkipped++
			log.Warn("employer not found, vacancy skipped", "employer_id", vac.EmployerID, "title", vac.Title)
		default:
			report.VacanciesFailed++
			log.Error("failed to store vacancy", "employer_id", vac.EmployerID, "title", vac.Title, "err", err)
			if !s.continueOnError {
				return s.finish(report), fmt.Errorf("ingest: store vacancy %q: %w", vac.Title, err)
			}
		}
	}

	report = s.finish(report)
	log.Info("ingestion finished",
		"employers_inserted", report.EmployersInserted,
		"employers_failed", report.EmployersFailed,
		"vacancies_inserted", report.VacanciesInserted,
		"vacancies_skipped", report.VacanciesSkipped,
		"vacancies_failed", report.VacanciesFailed,
		"elapsed", report.FinishedAt.Sub(report.StartedAt),
	)

	return report, nil
}

func (s *service) finish(r Report) Report {
	r.FinishedAt = s.clock()
	return r
}
