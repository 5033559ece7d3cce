package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/hh-vacancies/internal/domain"
)

func TestMain(m *testing.M) {
	pterm.DisableColor()
	os.Exit(m.Run())
}

type fakeQueries struct {
	keywords []string
	err      error
}

func (f *fakeQueries) CompaniesWithVacancyCounts(context.Context) ([]domain.CompanyVacancyCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.CompanyVacancyCount{{Company: "Acme", Vacancies: 1200}, {Company: "Globex", Vacancies: 0}}, nil
}

func (f *fakeQueries) AllVacancies(context.Context) ([]domain.VacancyRef, error) {
	return []domain.VacancyRef{{ID: 7, Title: "Go Engineer", EmployerID: 1}}, nil
}

func (f *fakeQueries) AverageSalary(context.Context) (*float64, error) {
	avg := 3000.0
	return &avg, nil
}

func (f *fakeQueries) VacanciesAboveAverage(context.Context) ([]domain.SalaryVacancy, *float64, error) {
	avg := 3000.0
	return []domain.SalaryVacancy{{Title: "Lead", Salary: 150000}}, &avg, nil
}

func (f *fakeQueries) VacanciesMatchingKeyword(_ context.Context, keyword string) ([]domain.KeywordVacancy, error) {
	f.keywords = append(f.keywords, keyword)
	return []domain.KeywordVacancy{{ID: 7, Title: "Go Engineer"}}, nil
}

func run(t *testing.T, q Queries, input string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	err := New(q, strings.NewReader(input), &out, nil).Run(context.Background())
	return out.String(), err
}

func TestMenuChoices(t *testing.T) {
	q := &fakeQueries{}
	out, err := run(t, q, "1\n2\n3\n4\n5\ngo\nВыход\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "Globex")
	assert.Contains(t, out, "Go Engineer")
	assert.Contains(t, out, "Средняя зарплата по вакансиям: 3,000")
	assert.Contains(t, out, "150,000")
	assert.Equal(t, []string{"go"}, q.keywords)
}

func TestExitWords(t *testing.T) {
	for _, word := range []string{"0", "q", "exit", "Выход", "выход"} {
		out, err := run(t, &fakeQueries{}, word+"\n1\n")
		require.NoError(t, err, word)
		assert.NotContains(t, out, "Acme", word)
	}
}

func TestUnknownChoiceReprompts(t *testing.T) {
	out, err := run(t, &fakeQueries{}, "42\n0\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Введён неверный запрос")
	assert.Equal(t, 2, strings.Count(out, "Выберите запрос"))
}

func TestEndOfInputExits(t *testing.T) {
	_, err := run(t, &fakeQueries{}, "3")
	require.NoError(t, err)
}

func TestEmptyKeywordIsPassedThrough(t *testing.T) {
	q := &fakeQueries{}
	_, err := run(t, q, "5\n\n0\n")
	require.NoError(t, err)
	assert.Equal(t, []string{""}, q.keywords)
}

func TestQueryErrorEndsLoop(t *testing.T) {
	boom := errors.New("connection refused")
	out, err := run(t, &fakeQueries{err: boom}, "1\n2\n")
	require.ErrorIs(t, err, boom)
	assert.NotContains(t, out, "Go Engineer")
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(&fakeQueries{}, strings.NewReader("1\n"), &bytes.Buffer{}, nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
