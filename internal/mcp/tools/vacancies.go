package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/hh-vacancies/internal/domain"
	"github.com/honeycarbs/hh-vacancies/pkg/logging"
)

// QueryService answers the analytical questions over stored vacancies
type QueryService interface {
	CompaniesWithVacancyCounts(ctx context.Context) ([]domain.CompanyVacancyCount, error)
	AllVacancies(ctx context.Context) ([]domain.VacancyRef, error)
	AverageSalary(ctx context.Context) (*float64, error)
	VacanciesAboveSalary(ctx context.Context, threshold int64) ([]domain.SalaryVacancy, error)
	VacanciesAboveAverage(ctx context.Context) ([]domain.SalaryVacancy, *float64, error)
	VacanciesMatchingKeyword(ctx context.Context, keyword string) ([]domain.KeywordVacancy, error)
}

// NoParams is the input of tools that take no arguments
type NoParams struct{}

// CompaniesResult is the structured response of companies_vacancy_counts
type CompaniesResult struct {
	Companies []domain.CompanyVacancyCount `json:"companies" jsonschema:"Every stored employer with its vacancy count"`
}

// VacanciesResult is the structured response of list_vacancies
type VacanciesResult struct {
	Vacancies []domain.VacancyRef `json:"vacancies" jsonschema:"Every stored vacancy"`
}

// AverageSalaryResult is the structured response of average_salary
type AverageSalaryResult struct {
	Average *float64 `json:"average" jsonschema:"Mean salary, null when no vacancy has one"`
}

// AboveSalaryParams defines the arguments for vacancies_above_salary
type AboveSalaryParams struct {
	Threshold *int64 `json:"threshold,omitempty" jsonschema:"Salary threshold; defaults to the average salary"`
}

// AboveSalaryResult is the structured response of vacancies_above_salary
type AboveSalaryResult struct {
	Threshold *float64               `json:"threshold"`
	Vacancies []domain.SalaryVacancy `json:"vacancies"`
}

// SearchParams defines the arguments for search_vacancies
type SearchParams struct {
	Keyword string `json:"keyword" jsonschema:"Case-insensitive title fragment; empty matches everything"`
}

// SearchResult is the structured response of search_vacancies
type SearchResult struct {
	Keyword   string                  `json:"keyword"`
	Vacancies []domain.KeywordVacancy `json:"vacancies"`
}

type vacancyTools struct {
	service QueryService
	logger  *logging.Logger
}

// WithQueryTools registers the read-only vacancy query tools
func WithQueryTools(service QueryService) Option {
	return func(reg *registry) {
		t := vacancyTools{service: service, logger: reg.logger.Named("tools")}

		addTool(reg, &sdkmcp.Tool{
			Name:        "companies_vacancy_counts",
			Description: "List every stored employer with the number of its vacancies",
		}, t.companies)
		addTool(reg, &sdkmcp.Tool{
			Name:        "list_vacancies",
			Description: "List every stored vacancy with its id, title and employer id",
		}, t.vacancies)
		addTool(reg, &sdkmcp.Tool{
			Name:        "average_salary",
			Description: "Average salary across vacancies that have one",
		}, t.average)
		addTool(reg, &sdkmcp.Tool{
			Name:        "vacancies_above_salary",
			Description: "Vacancies paid strictly more than a threshold (the average salary when omitted)",
		}, t.aboveSalary)
		addTool(reg, &sdkmcp.Tool{
			Name:        "search_vacancies",
			Description: "Vacancies whose title contains a keyword, ignoring case",
		}, t.search)
	}
}

func (t vacancyTools) companies(ctx context.Context, _ *sdkmcp.CallToolRequest, _ NoParams) (*sdkmcp.CallToolResult, any, error) {
	rows, err := t.service.CompaniesWithVacancyCounts(ctx)
	if err != nil {
		t.logger.Error("companies_vacancy_counts failed", "err", err)
		return nil, nil, fmt.Errorf("companies vacancy counts: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[companies_vacancy_counts] %d employer(s)", len(rows))
	for _, r := range rows {
		fmt.Fprintf(&b, "\n- %s: %s", r.Company, humanize.Comma(r.Vacancies))
	}
	return textResult(b.String()), CompaniesResult{Companies: rows}, nil
}

func (t vacancyTools) vacancies(ctx context.Context, _ *sdkmcp.CallToolRequest, _ NoParams) (*sdkmcp.CallToolResult, any, error) {
	rows, err := t.service.AllVacancies(ctx)
	if err != nil {
		t.logger.Error("list_vacancies failed", "err", err)
		return nil, nil, fmt.Errorf("list vacancies: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[list_vacancies] %d vacancy(ies)", len(rows))
	for _, r := range rows {
		fmt.Fprintf(&b, "\n- #%d %s (employer %d)", r.ID, r.Title, r.EmployerID)
	}
	return textResult(b.String()), VacanciesResult{Vacancies: rows}, nil
}

func (t vacancyTools) average(ctx context.Context, _ *sdkmcp.CallToolRequest, _ NoParams) (*sdkmcp.CallToolResult, any, error) {
	avg, err := t.service.AverageSalary(ctx)
	if err != nil {
		t.logger.Error("average_salary failed", "err", err)
		return nil, nil, fmt.Errorf("average salary: %w", err)
	}
	return textResult("[average_salary] " + formatAverage(avg)), AverageSalaryResult{Average: avg}, nil
}

func (t vacancyTools) aboveSalary(ctx context.Context, _ *sdkmcp.CallToolRequest, params AboveSalaryParams) (*sdkmcp.CallToolResult, any, error) {
	var (
		rows      []domain.SalaryVacancy
		threshold *float64
		err       error
	)

	if params.Threshold != nil {
		rows, err = t.service.VacanciesAboveSalary(ctx, *params.Threshold)
		v := float64(*params.Threshold)
		threshold = &v
	} else {
		rows, threshold, err = t.service.VacanciesAboveAverage(ctx)
	}
	if err != nil {
		t.logger.Error("vacancies_above_salary failed", "err", err)
		return nil, nil, fmt.Errorf("vacancies above salary: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[vacancies_above_salary] %d vacancy(ies) above %s", len(rows), formatAverage(threshold))
	for _, r := range rows {
		fmt.Fprintf(&b, "\n- %s: %s", r.Title, humanize.Comma(r.Salary))
	}
	return textResult(b.String()), AboveSalaryResult{Threshold: threshold, Vacancies: rows}, nil
}

func (t vacancyTools) search(ctx context.Context, _ *sdkmcp.CallToolRequest, params SearchParams) (*sdkmcp.CallToolResult, any, error) {
	rows, err := t.service.VacanciesMatchingKeyword(ctx, params.Keyword)
	if err != nil {
		t.logger.Error("search_vacancies failed", "keyword", params.Keyword, "err", err)
		return nil, nil, fmt.Errorf("search vacancies: %w", err)
	}

	t.logger.Debug("search_vacancies", "keyword", params.Keyword, "matches", len(rows))

	var b strings.Builder
	fmt.Fprintf(&b, "[search_vacancies] %d match(es) for %q", len(rows), params.Keyword)
	for _, r := range rows {
		salary := "n/a"
		if r.Salary != nil {
			salary = humanize.Comma(*r.Salary)
		}
		fmt.Fprintf(&b, "\n- #%d %s (%s)", r.ID, r.Title, salary)
	}
	return textResult(b.String()), SearchResult{Keyword: params.Keyword, Vacancies: rows}, nil
}

func formatAverage(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return humanize.CommafWithDigits(*v, 2)
}
