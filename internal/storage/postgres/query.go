package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/honeycarbs/hh-vacancies/internal/domain"
	"github.com/honeycarbs/hh-vacancies/internal/repository"
	"github.com/honeycarbs/hh-vacancies/pkg/logging"
	pkgpostgres "github.com/honeycarbs/hh-vacancies/pkg/postgres"
)

const (
	companiesWithCountsQuery = `
		SELECT COALESCE(e.name, ''), COUNT(v.id) AS vacancies_count
		FROM employer e
		LEFT JOIN vacancies v ON e.id = v.employer_id
		GROUP BY e.id, e.name
		ORDER BY vacancies_count DESC, e.name`

	allVacanciesQuery = `SELECT id, COALESCE(title, ''), COALESCE(employer_id, 0) FROM vacancies ORDER BY id`

	averageSalaryQuery = `SELECT AVG(salary)::float8 FROM vacancies`

	aboveSalaryQuery = `
		SELECT COALESCE(title, ''), salary FROM vacancies
		WHERE salary > $1
		ORDER BY salary DESC, id`

	// '%%' is the pattern of an empty keyword; it must also match NULL titles
	keywordQuery = `
		SELECT id, COALESCE(title, ''), salary FROM vacancies
		WHERE title ILIKE $1 OR $1 = '%%'
		ORDER BY id`
)

var _ repository.QueryRepository = (*QueryRepository)(nil)

// QueryRepository implements the read-only analytical queries
type QueryRepository struct {
	db     pkgpostgres.DB
	logger *logging.Logger
}

// NewQueryRepository creates a QueryRepository
func NewQueryRepository(db pkgpostgres.DB, logger *logging.Logger) *QueryRepository {
	if logger == nil {
		logger = logging.Nop()
	}
	return &QueryRepository{db: db, logger: logger}
}

// CompaniesWithVacancyCounts lists every employer with its vacancy count, zero included
func (r *QueryRepository) CompaniesWithVacancyCounts(ctx context.Context) ([]domain.CompanyVacancyCount, error) {
	rows, err := r.db.Query(ctx, companiesWithCountsQuery)
	if err != nil {
		return nil, fmt.Errorf("companies with vacancy counts: %w", err)
	}
	defer rows.Close()

	out := make([]domain.CompanyVacancyCount, 0)
	for rows.Next() {
		var c domain.CompanyVacancyCount
		if err := rows.Scan(&c.Company, &c.Vacancies); err != nil {
			return nil, fmt.Errorf("companies with vacancy counts: scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("companies with vacancy counts: %w", err)
	}

	r.logger.Debug("companies with vacancy counts", "rows", len(out))
	return out, nil
}

// AllVacancies returns id, title and employer reference of every vacancy
func (r *QueryRepository) AllVacancies(ctx context.Context) ([]domain.VacancyRef, error) {
	rows, err := r.db.Query(ctx, allVacanciesQuery)
	if err != nil {
		return nil, fmt.Errorf("all vacancies: %w", err)
	}
	defer rows.Close()

	out := make([]domain.VacancyRef, 0)
	for rows.Next() {
		var v domain.VacancyRef
		if err := rows.Scan(&v.ID, &v.Title, &v.EmployerID); err != nil {
			return nil, fmt.Errorf("all vacancies: scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("all vacancies: %w", err)
	}

	r.logger.Debug("all vacancies", "rows", len(out))
	return out, nil
}

// AverageSalary returns the mean of non-null salaries, nil when there are none
func (r *QueryRepository) AverageSalary(ctx context.Context) (*float64, error) {
	var avg pgtype.Float8
	if err := r.db.QueryRow(ctx, averageSalaryQuery).Scan(&avg); err != nil {
		return nil, fmt.Errorf("average salary: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

// VacanciesAboveSalary returns vacancies whose salary is strictly greater than threshold
func (r *QueryRepository) VacanciesAboveSalary(ctx context.Context, threshold int64) ([]domain.SalaryVacancy, error) {
	rows, err := r.db.Query(ctx, aboveSalaryQuery, threshold)
	if err != nil {
		return nil, fmt.Errorf("vacancies above salary: %w", err)
	}
	defer rows.Close()

	out := make([]domain.SalaryVacancy, 0)
	for rows.Next() {
		var v domain.SalaryVacancy
		if err := rows.Scan(&v.Title, &v.Salary); err != nil {
			return nil, fmt.Errorf("vacancies above salary: scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vacancies above salary: %w", err)
	}
	return out, nil
}

// VacanciesMatchingKeyword finds vacancies whose title contains keyword, ignoring case.
// An empty keyword matches every vacancy.
func (r *QueryRepository) VacanciesMatchingKeyword(ctx context.Context, keyword string) ([]domain.KeywordVacancy, error) {
	rows, err := r.db.Query(ctx, keywordQuery, containsPattern(keyword))
	if err != nil {
		return nil, fmt.Errorf("vacancies matching keyword: %w", err)
	}
	defer rows.Close()

	out := make([]domain.KeywordVacancy, 0)
	for rows.Next() {
		var (
			v      domain.KeywordVacancy
			salary pgtype.Int8
		)
		if err := rows.Scan(&v.ID, &v.Title, &salary); err != nil {
			return nil, fmt.Errorf("vacancies matching keyword: scan: %w", err)
		}
		if salary.Valid {
			s := salary.Int64
			v.Salary = &s
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vacancies matching keyword: %w", err)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching keyword literally
func containsPattern(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}
