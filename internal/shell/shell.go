package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"github.com/honeycarbs/hh-vacancies/internal/domain"
	"github.com/honeycarbs/hh-vacancies/pkg/logging"
)

const menu = `Выберите запрос или введите "Выход":
1 Список всех компаний и количество вакансий у каждой компании
2 Список всех вакансий
3 Средняя зарплата по вакансиям
4 Список всех вакансий, у которых зарплата выше средней по всем вакансиям
5 Список всех вакансий, в названии которых содержится запрашиваемое слово
`

// Queries is the read surface the shell renders
type Queries interface {
	CompaniesWithVacancyCounts(ctx context.Context) ([]domain.CompanyVacancyCount, error)
	AllVacancies(ctx context.Context) ([]domain.VacancyRef, error)
	AverageSalary(ctx context.Context) (*float64, error)
	VacanciesAboveAverage(ctx context.Context) ([]domain.SalaryVacancy, *float64, error)
	VacanciesMatchingKeyword(ctx context.Context, keyword string) ([]domain.KeywordVacancy, error)
}

// Shell is the numbered console menu over the stored vacancies
type Shell struct {
	queries Queries
	in      *bufio.Reader
	out     io.Writer
	logger  *logging.Logger
}

// New creates a Shell reading choices from in and printing to out
func New(queries Queries, in io.Reader, out io.Writer, logger *logging.Logger) *Shell {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Shell{
		queries: queries,
		in:      bufio.NewReader(in),
		out:     out,
		logger:  logger,
	}
}

// Run loops until the user exits, input ends or a query fails.
// A query failure is returned to the caller.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(s.out, menu)
		choice, err := s.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read choice: %w", err)
		}

		if isExit(choice) {
			return nil
		}

		if err := s.dispatch(ctx, choice); err != nil {
			s.logger.Error("query failed", "choice", choice, "err", err)
			return err
		}
	}
}

func (s *Shell) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return s.companies(ctx)
	case "2":
		return s.vacancies(ctx)
	case "3":
		return s.average(ctx)
	case "4":
		return s.aboveAverage(ctx)
	case "5":
		fmt.Fprint(s.out, "Введите слово: ")
		keyword, err := s.readLine()
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read keyword: %w", err)
		}
		return s.keyword(ctx, keyword)
	default:
		fmt.Fprintln(s.out, "Введён неверный запрос")
		return nil
	}
}

func (s *Shell) companies(ctx context.Context) error {
	rows, err := s.queries.CompaniesWithVacancyCounts(ctx)
	if err != nil {
		return err
	}

	data := pterm.TableData{{"Компания", "Вакансий"}}
	for _, r := range rows {
		data = append(data, []string{r.Company, humanize.Comma(r.Vacancies)})
	}
	return s.table("Компании и количество вакансий", data)
}

func (s *Shell) vacancies(ctx context.Context) error {
	rows, err := s.queries.AllVacancies(ctx)
	if err != nil {
		return err
	}

	data := pterm.TableData{{"ID", "Вакансия", "Работодатель"}}
	for _, r := range rows {
		data = append(data, []string{strconv.FormatInt(r.ID, 10), r.Title, strconv.FormatInt(r.EmployerID, 10)})
	}
	return s.table("Все вакансии", data)
}

func (s *Shell) average(ctx context.Context) error {
	avg, err := s.queries.AverageSalary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Средняя зарплата по вакансиям: %s\n", formatAverage(avg))
	return nil
}

func (s *Shell) aboveAverage(ctx context.Context) error {
	rows, avg, err := s.queries.VacanciesAboveAverage(ctx)
	if err != nil {
		return err
	}

	data := pterm.TableData{{"Вакансия", "Зарплата"}}
	for _, r := range rows {
		data = append(data, []string{r.Title, humanize.Comma(r.Salary)})
	}
	return s.table("Зарплата выше средней ("+formatAverage(avg)+")", data)
}

func (s *Shell) keyword(ctx context.Context, keyword string) error {
	rows, err := s.queries.VacanciesMatchingKeyword(ctx, keyword)
	if err != nil {
		return err
	}

	data := pterm.TableData{{"ID", "Вакансия", "Зарплата"}}
	for _, r := range rows {
		data = append(data, []string{strconv.FormatInt(r.ID, 10), r.Title, formatSalary(r.Salary)})
	}
	return s.table(fmt.Sprintf("Вакансии со словом %q", keyword), data)
}

func (s *Shell) table(title string, data pterm.TableData) error {
	fmt.Fprintln(s.out, title)
	if len(data) == 1 {
		fmt.Fprintln(s.out, "Нет данных")
		return nil
	}

	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	fmt.Fprintln(s.out, rendered)
	return nil
}

func (s *Shell) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && line != "" && errors.Is(err, io.EOF) {
		return line, nil
	}
	return line, err
}

func isExit(choice string) bool {
	switch strings.ToLower(choice) {
	case "0", "q", "exit", "выход":
		return true
	}
	return false
}

func formatAverage(avg *float64) string {
	if avg == nil {
		return "нет данных"
	}
	return humanize.CommafWithDigits(*avg, 2)
}

func formatSalary(salary *int64) string {
	if salary == nil {
		return "-"
	}
	return humanize.Comma(*salary)
}
