package ingest

import (
	"context"

	"github.com/honeycarbs/hh-vacancies/internal/domain"
)

// Source represents an external employer/vacancy data source such as hh.ru.
// Per-employer failures are logged and skipped by the implementation; an error is
// returned only when the whole fetch cannot continue (e.g. context cancelled).
type Source interface {
	Name() string

	// FetchEmployers returns records in the order of ids, omitting failed lookups
	FetchEmployers(ctx context.Context, ids []domain.EmployerID) ([]domain.EmployerRecord, error)

	// FetchVacancies returns all vacancies employer-major, then in API order
	FetchVacancies(ctx context.Context, ids []domain.EmployerID) ([]domain.VacancyRecord, error)
}

// Progress receives persistence progress, e.g. a terminal progress bar
type Progress interface {
	Start(total int)
	Increment()
	Finish()
}
