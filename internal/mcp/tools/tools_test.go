package tools

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/hh-vacancies/internal/domain"
	"github.com/honeycarbs/hh-vacancies/pkg/logging"
)

type fakeQueries struct {
	err        error
	thresholds []int64
	keywords   []string
}

func (f *fakeQueries) CompaniesWithVacancyCounts(context.Context) ([]domain.CompanyVacancyCount, error) {
	return []domain.CompanyVacancyCount{{Company: "Acme", Vacancies: 2}, {Company: "Globex", Vacancies: 0}}, f.err
}

func (f *fakeQueries) AllVacancies(context.Context) ([]domain.VacancyRef, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.VacancyRef{{ID: 1, Title: "Go Engineer", EmployerID: 1}, {ID: 2, Title: "Analyst", EmployerID: 1}}, nil
}

func (f *fakeQueries) AverageSalary(context.Context) (*float64, error) {
	avg := 3000.0
	return &avg, f.err
}

func (f *fakeQueries) VacanciesAboveSalary(_ context.Context, threshold int64) ([]domain.SalaryVacancy, error) {
	f.thresholds = append(f.thresholds, threshold)
	return []domain.SalaryVacancy{{Title: "Go Engineer", Salary: 5000}}, f.err
}

func (f *fakeQueries) VacanciesAboveAverage(context.Context) ([]domain.SalaryVacancy, *float64, error) {
	avg := 3000.0
	return []domain.SalaryVacancy{{Title: "Go Engineer", Salary: 5000}}, &avg, f.err
}

func (f *fakeQueries) VacanciesMatchingKeyword(_ context.Context, keyword string) ([]domain.KeywordVacancy, error) {
	f.keywords = append(f.keywords, keyword)
	salary := int64(3000)
	return []domain.KeywordVacancy{{ID: 1, Title: "Go Engineer", Salary: &salary}, {ID: 3, Title: "Go Intern"}}, f.err
}

type fakeSheets struct {
	tables []SheetTable
	err    error
}

func (f *fakeSheets) WriteTable(_ context.Context, table SheetTable) (int, error) {
	f.tables = append(f.tables, table)
	return len(table.Rows), f.err
}

func text(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	txt, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return txt.Text
}

func TestRegisterNamesEveryTool(t *testing.T) {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "test", Version: "0.0.0"}, nil)
	names := Register(server, nil, WithQueryTools(&fakeQueries{}), nil, WithSheetsExport(&fakeQueries{}, &fakeSheets{}))

	assert.Equal(t, []string{
		"companies_vacancy_counts",
		"list_vacancies",
		"average_salary",
		"vacancies_above_salary",
		"search_vacancies",
		"sheets_export",
	}, names)
}

func TestQueryTools(t *testing.T) {
	ctx := context.Background()
	q := &fakeQueries{}
	tools := vacancyTools{service: q, logger: logging.Nop()}

	t.Run("Companies", func(t *testing.T) {
		res, out, err := tools.companies(ctx, nil, NoParams{})
		require.NoError(t, err)
		assert.Contains(t, text(t, res), "Globex: 0")
		assert.Len(t, out.(CompaniesResult).Companies, 2)
	})

	t.Run("AboveExplicitThreshold", func(t *testing.T) {
		threshold := int64(2999)
		res, out, err := tools.aboveSalary(ctx, nil, AboveSalaryParams{Threshold: &threshold})
		require.NoError(t, err)
		assert.Equal(t, []int64{2999}, q.thresholds)
		assert.Contains(t, text(t, res), "5,000")
		assert.InDelta(t, 2999, *out.(AboveSalaryResult).Threshold, 0.0001)
	})

	t.Run("AboveDefaultsToAverage", func(t *testing.T) {
		q.thresholds = nil
		_, out, err := tools.aboveSalary(ctx, nil, AboveSalaryParams{})
		require.NoError(t, err)
		assert.Empty(t, q.thresholds)
		assert.InDelta(t, 3000, *out.(AboveSalaryResult).Threshold, 0.0001)
	})

	t.Run("Search", func(t *testing.T) {
		res, _, err := tools.search(ctx, nil, SearchParams{Keyword: "GO"})
		require.NoError(t, err)
		assert.Equal(t, []string{"GO"}, q.keywords)
		assert.Contains(t, text(t, res), "Go Intern (n/a)")
	})

	t.Run("ErrorsPropagate", func(t *testing.T) {
		failing := vacancyTools{service: &fakeQueries{err: errors.New("pool closed")}, logger: logging.Nop()}
		_, _, err := failing.vacancies(ctx, nil, NoParams{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pool closed")
	})
}

func TestSheetsExport(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	newTool := func(sheets SheetsClient) sheetsExportTool {
		return sheetsExportTool{queries: &fakeQueries{}, sheets: sheets, logger: logging.Nop(), now: func() time.Time { return fixed }}
	}

	t.Run("VacanciesByDefault", func(t *testing.T) {
		sheets := &fakeSheets{}
		var params SheetsExportParams
		params.Sheet.SpreadsheetID = "abc"

		res, out, err := newTool(sheets).handle(ctx, nil, params)
		require.NoError(t, err)
		require.Len(t, sheets.tables, 1)

		table := sheets.tables[0]
		assert.Equal(t, "abc", table.SpreadsheetID)
		assert.Equal(t, "vacancies", table.Tab)
		assert.Equal(t, []string{"id", "title", "employer_id"}, table.Header)
		assert.Equal(t, []string{"1", "Go Engineer", "1"}, table.Rows[0])
		assert.False(t, table.Append)

		result := out.(SheetsExportResult)
		assert.Equal(t, 2, result.WrittenRows)
		assert.Equal(t, "replace", result.Mode)
		assert.Equal(t, fixed, result.CompletedAt)
		assert.Contains(t, text(t, res), "wrote 2 vacancies row(s)")
	})

	t.Run("CompaniesAppend", func(t *testing.T) {
		sheets := &fakeSheets{}
		params := SheetsExportParams{Dataset: "companies", Append: true}
		params.Sheet.SpreadsheetID = "abc"
		params.Sheet.Tab = "Stats"

		_, out, err := newTool(sheets).handle(ctx, nil, params)
		require.NoError(t, err)
		assert.Equal(t, "Stats", sheets.tables[0].Tab)
		assert.Equal(t, []string{"Globex", "0"}, sheets.tables[0].Rows[1])
		assert.Equal(t, "append", out.(SheetsExportResult).Mode)
	})

	t.Run("Rejections", func(t *testing.T) {
		var params SheetsExportParams
		_, _, err := newTool(&fakeSheets{}).handle(ctx, nil, params)
		assert.ErrorContains(t, err, "spreadsheet_id")

		params.Sheet.SpreadsheetID = "abc"
		_, _, err = newTool(nil).handle(ctx, nil, params)
		assert.ErrorContains(t, err, "not configured")

		params.Dataset = "employers"
		_, _, err = newTool(&fakeSheets{}).handle(ctx, nil, params)
		assert.ErrorContains(t, err, "unknown dataset")
	})
}

func TestToolsOverSession(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	q := &fakeQueries{}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "hh-vacancies", Version: "test"}, nil)
	Register(server, nil, WithQueryTools(q))

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	_, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer func() { _ = session.Close() }()

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "search_vacancies",
		Arguments: map[string]any{"keyword": "python"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), `2 match(es) for "python"`)
	assert.Equal(t, []string{"python"}, q.keywords)
}
