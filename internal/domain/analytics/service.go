package analytics

import (
	"context"
	"fmt"
	"math"

	"github.com/honeycarbs/hh-vacancies/internal/domain"
	"github.com/honeycarbs/hh-vacancies/internal/repository"
	"github.com/honeycarbs/hh-vacancies/pkg/logging"
)

// Service answers the fixed analytical questions over stored vacancies
type Service struct {
	repo   repository.QueryRepository
	logger *logging.Logger
}

// NewService creates an analytics service
func NewService(repo repository.QueryRepository, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CompaniesWithVacancyCounts(ctx context.Context) ([]domain.CompanyVacancyCount, error) {
	return s.repo.CompaniesWithVacancyCounts(ctx)
}

func (s *Service) AllVacancies(ctx context.Context) ([]domain.VacancyRef, error) {
	return s.repo.AllVacancies(ctx)
}

// AverageSalary returns nil when no vacancy has a salary
func (s *Service) AverageSalary(ctx context.Context) (*float64, error) {
	return s.repo.AverageSalary(ctx)
}

func (s *Service) VacanciesAboveSalary(ctx context.Context, threshold int64) ([]domain.SalaryVacancy, error) {
	return s.repo.VacanciesAboveSalary(ctx, threshold)
}

// VacanciesAboveAverage returns vacancies paid strictly more than the average salary.
// Salaries are integers, so comparing against the floor of the average is exact.
func (s *Service) VacanciesAboveAverage(ctx context.Context) ([]domain.SalaryVacancy, *float64, error) {
	avg, err := s.repo.AverageSalary(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("vacancies above average: %w", err)
	}
	if avg == nil {
		s.logger.Debug("no salaries stored, nothing above average")
		return []domain.SalaryVacancy{}, nil, nil
	}

	out, err := s.repo.VacanciesAboveSalary(ctx, int64(math.Floor(*avg)))
	if err != nil {
		return nil, nil, fmt.Errorf("vacancies above average: %w", err)
	}
	return out, avg, nil
}

// VacanciesMatchingKeyword matches titles case-insensitively; an empty keyword matches all
func (s *Service) VacanciesMatchingKeyword(ctx context.Context, keyword string) ([]domain.KeywordVacancy, error) {
	return s.repo.VacanciesMatchingKeyword(ctx, keyword)
}
