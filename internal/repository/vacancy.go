package repository

import (
	"context"

	"github.com/honeycarbs/hh-vacancies/internal/domain"
)

// EmployerRepository defines employer storage operations
type EmployerRepository interface {
	InsertEmployer(ctx context.Context, rec domain.EmployerRecord) error
	EmployerExists(ctx context.Context, id domain.EmployerID) (bool, error)
}

// VacancyRepository defines vacancy storage operations
type VacancyRepository interface {
	InsertVacancy(ctx context.Context, rec domain.VacancyRecord) error
}

// QueryRepository defines the fixed analytical read queries
type QueryRepository interface {
	CompaniesWithVacancyCounts(ctx context.Context) ([]domain.CompanyVacancyCount, error)
	AllVacancies(ctx context.Context) ([]domain.VacancyRef, error)
	AverageSalary(ctx context.Context) (*float64, error)
	VacanciesAboveSalary(ctx context.Context, threshold int64) ([]domain.SalaryVacancy, error)
	VacanciesMatchingKeyword(ctx context.Context, keyword string) ([]domain.KeywordVacancy, error)
}
