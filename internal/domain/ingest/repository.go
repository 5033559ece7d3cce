package ingest

import (
	"context"

	"github.com/honeycarbs/hh-vacancies/internal/domain"
)

// Repository persists ingested records
type Repository interface {
	// InsertEmployer fails with domain.ErrIntegrity when the id is already stored
	InsertEmployer(ctx context.Context, rec domain.EmployerRecord) error

	// InsertVacancy fails with domain.ErrValidation before touching the store when the
	// record is incomplete or its employer is unknown
	InsertVacancy(ctx context.Context, rec domain.VacancyRecord) error
}
