package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/honeycarbs/hh-vacancies/internal/domain"
	"github.com/honeycarbs/hh-vacancies/internal/repository"
	"github.com/honeycarbs/hh-vacancies/pkg/logging"
	pkgpostgres "github.com/honeycarbs/hh-vacancies/pkg/postgres"
)

const insertVacancyQuery = `
	INSERT INTO vacancies (title, company, salary, description, employer_id)
	VALUES ($1, $2, $3, $4, $5)`

var _ repository.VacancyRepository = (*VacancyRepository)(nil)

// VacancyRepository implements repository.VacancyRepository with PostgreSQL
type VacancyRepository struct {
	db     pkgpostgres.DB
	logger *logging.Logger
}

// NewVacancyRepository creates a VacancyRepository
func NewVacancyRepository(db pkgpostgres.DB, logger *logging.Logger) *VacancyRepository {
	if logger == nil {
		logger = logging.Nop()
	}
	return &VacancyRepository{db: db, logger: logger}
}

// InsertVacancy validates the record, checks that its employer is stored, derives the
// salary and inserts it. Validation failures never reach the database; store failures
// are rolled back and returned.
func (r *VacancyRepository) InsertVacancy(ctx context.Context, rec domain.VacancyRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	exists, err := employerExists(ctx, r.db, rec.EmployerID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %d", domain.ErrUnknownEmployer, rec.EmployerID)
	}

	salary := nullable(rec.Salary())

	err = pkgpostgres.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertVacancyQuery, rec.Title, rec.Company, salary, rec.Description, rec.EmployerID)
		return err
	})
	if err != nil {
		err = classify("vacancies", err)
		r.logger.Error("vacancy insert failed", "employer_id", rec.EmployerID, "title", rec.Title, "err", err)
		return fmt.Errorf("insert vacancy: %w", err)
	}

	r.logger.Debug("vacancy inserted", "employer_id", rec.EmployerID, "title", rec.Title, "salary", salary)
	return nil
}
