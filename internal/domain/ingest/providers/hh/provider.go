package hh

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/honeycarbs/hh-vacancies/internal/domain"
	"github.com/honeycarbs/hh-vacancies/internal/domain/ingest"
	"github.com/honeycarbs/hh-vacancies/pkg/hh"
	"github.com/honeycarbs/hh-vacancies/pkg/logging"
)

const defaultMaxPages = 20

// apiClient describes the subset of the hh client used by the provider.
type apiClient interface {
	Employer(ctx context.Context, id int64) (hh.Employer, error)
	VacanciesPage(ctx context.Context, employerID int64, page int) (hh.VacancyPage, error)
}

// Provider implements ingest.Source using the hh.ru API
type Provider struct {
	client      apiClient
	logger      *logging.Logger
	concurrency int
	maxPages    int
}

// Option configures Provider
type Option func(*Provider)

// WithConcurrency bounds parallel requests across employers; 1 keeps them sequential
func WithConcurrency(n int) Option {
	return func(p *Provider) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithMaxPages caps vacancy pages fetched per employer; 1 disables pagination
func WithMaxPages(n int) Option {
	return func(p *Provider) {
		if n > 0 {
			p.maxPages = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *logging.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProvider builds an hh provider
func NewProvider(client apiClient, opts ...Option) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("hh provider: client is required")
	}

	p := &Provider{
		client:      client,
		logger:      logging.Nop(),
		concurrency: 1,
		maxPages:    defaultMaxPages,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return "hh"
}

// FetchEmployers issues one request per id and keeps the input order
func (p *Provider) FetchEmployers(ctx context.Context, ids []domain.EmployerID) ([]domain.EmployerRecord, error) {
	results := make([]*domain.EmployerRecord, len(ids))

	err := p.forEach(ctx, ids, func(ctx context.Context, i int, id domain.EmployerID) {
		emp, err := p.client.Employer(ctx, id)
		if err != nil {
			p.logger.Warn("employer request failed", "employer_id", id, "err", fmt.Errorf("%w: %w", domain.ErrTransientRequest, err))
			return
		}

		rec, ok := mapEmployer(emp, id)
		if !ok {
			p.logger.Warn("empty employer response", "employer_id", id)
			return
		}
		results[i] = &rec
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.EmployerRecord, 0, len(ids))
	for _, rec := range results {
		if rec != nil {
			out = append(out, *rec)
		}
	}
	return out, nil
}

// FetchVacancies flattens vacancies of every employer, employer-major
func (p *Provider) FetchVacancies(ctx context.Context, ids []domain.EmployerID) ([]domain.VacancyRecord, error) {
	results := make([][]domain.VacancyRecord, len(ids))

	err := p.forEach(ctx, ids, func(ctx context.Context, i int, id domain.EmployerID) {
		results[i] = p.fetchEmployerVacancies(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}

	out := make([]domain.VacancyRecord, 0, total)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

func (p *Provider) fetchEmployerVacancies(ctx context.Context, id domain.EmployerID) []domain.VacancyRecord {
	var out []domain.VacancyRecord

	for page := 0; page < p.maxPages; page++ {
		resp, err := p.client.VacanciesPage(ctx, id, page)
		if err != nil {
			p.logger.Warn("vacancies request failed",
				"employer_id", id,
				"page", page,
				"err", fmt.Errorf("%w: %w", domain.ErrTransientRequest, err),
			)
			return out
		}

		for _, item := range resp.Items {
			out = append(out, mapVacancy(item))
		}

		if page+1 >= resp.Pages {
			return out
		}
		if page+1 == p.maxPages {
			p.logger.Warn("vacancy listing truncated",
				"employer_id", id,
				"fetched_pages", p.maxPages,
				"total_pages", resp.Pages,
				"found", resp.Found,
			)
		}
	}

	return out
}

// forEach runs fn for each id with at most p.concurrency calls in flight.
// fn never fails; only cancellation of ctx is reported.
func (p *Provider) forEach(ctx context.Context, ids []domain.EmployerID, fn func(ctx context.Context, i int, id domain.EmployerID)) error {
	var g errgroup.Group
	g.SetLimit(p.concurrency)

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(ctx, i, id)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func mapEmployer(emp hh.Employer, requested domain.EmployerID) (domain.EmployerRecord, bool) {
	if emp.ID == "" && emp.Name == "" {
		return domain.EmployerRecord{}, false
	}

	id := requested
	if parsed, err := strconv.ParseInt(emp.ID, 10, 64); err == nil {
		id = parsed
	}

	return domain.EmployerRecord{
		ID:            id,
		Name:          emp.Name,
		URL:           emp.URL(),
		OpenVacancies: emp.OpenVacancies,
	}, true
}

func mapVacancy(v hh.Vacancy) domain.VacancyRecord {
	var employerID domain.EmployerID
	if parsed, err := strconv.ParseInt(v.Employer.ID, 10, 64); err == nil {
		employerID = parsed
	}

	from, to := v.Bounds()

	return domain.VacancyRecord{
		Title:       v.Name,
		Company:     v.Employer.Name,
		EmployerID:  employerID,
		SalaryFrom:  from,
		SalaryTo:    to,
		Description: description(v),
	}
}

func description(v hh.Vacancy) string {
	if d := hh.PlainText(v.Description); d != "" {
		return d
	}

	parts := make([]string, 0, 2)
	for _, s := range []string{v.Snippet.Requirement, v.Snippet.Responsibility} {
		if t := hh.PlainText(s); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

var _ ingest.Source = (*Provider)(nil)
