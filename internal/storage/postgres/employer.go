package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/honeycarbs/hh-vacancies/internal/domain"
	"github.com/honeycarbs/hh-vacancies/internal/repository"
	"github.com/honeycarbs/hh-vacancies/pkg/logging"
	pkgpostgres "github.com/honeycarbs/hh-vacancies/pkg/postgres"
)

const (
	insertEmployerQuery = `INSERT INTO employer (id, name, url, open_vacancies) VALUES ($1, $2, $3, $4)`
	employerExistsQuery = `SELECT EXISTS(SELECT 1 FROM employer WHERE id = $1)`
)

// Ensure EmployerRepository implements repository.EmployerRepository
var _ repository.EmployerRepository = (*EmployerRepository)(nil)

// EmployerRepository implements repository.EmployerRepository with PostgreSQL
type EmployerRepository struct {
	db     pkgpostgres.DB
	logger *logging.Logger
}

// NewEmployerRepository creates an EmployerRepository
func NewEmployerRepository(db pkgpostgres.DB, logger *logging.Logger) *EmployerRepository {
	if logger == nil {
		logger = logging.Nop()
	}
	return &EmployerRepository{db: db, logger: logger}
}

// InsertEmployer stores one employer in its own transaction. A duplicate id is rolled
// back and reported as *domain.IntegrityError.
func (r *EmployerRepository) InsertEmployer(ctx context.Context, rec domain.EmployerRecord) error {
	err := pkgpostgres.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertEmployerQuery, rec.ID, rec.Name, rec.URL, nullable(rec.OpenVacancies))
		return err
	})
	if err != nil {
		err = classify("employer", err)
		if errors.Is(err, domain.ErrIntegrity) {
			r.logger.Error("employer integrity violation", "employer_id", rec.ID, "err", err)
		} else {
			r.logger.Error("employer insert failed", "employer_id", rec.ID, "err", err)
		}
		return fmt.Errorf("insert employer %d: %w", rec.ID, err)
	}

	r.logger.Info("employer inserted", "employer_id", rec.ID, "name", rec.Name)
	return nil
}

// EmployerExists reports whether an employer with the id is stored
func (r *EmployerRepository) EmployerExists(ctx context.Context, id domain.EmployerID) (bool, error) {
	return employerExists(ctx, r.db, id)
}

func employerExists(ctx context.Context, db pkgpostgres.DB, id domain.EmployerID) (bool, error) {
	var exists bool
	if err := db.QueryRow(ctx, employerExistsQuery, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check employer %d: %w", id, err)
	}
	return exists, nil
}

// classify turns constraint violations into *domain.IntegrityError
func classify(table string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return &domain.IntegrityError{Table: table, Err: err}
	}
	return err
}

// nullable maps a nil pointer to SQL NULL
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
