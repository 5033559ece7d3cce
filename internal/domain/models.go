package domain

import (
	"strconv"
	"strings"
)

// EmployerID is the stable hh.ru employer identifier
type EmployerID = int64

// DefaultDescription replaces a missing vacancy description
const DefaultDescription = "Описание отсутствует"

// EmployerRecord is the normalized employer entry
type EmployerRecord struct {
	ID            EmployerID
	Name          string
	URL           string
	OpenVacancies *int // nil when the API did not report it
}

// VacancyRecord is the normalized job posting. Empty strings mean the field was absent.
type VacancyRecord struct {
	Title       string
	Company     string
	EmployerID  EmployerID
	SalaryFrom  string
	SalaryTo    string
	Description string
}

// Validate checks required fields and fills the description placeholder.
func (v *VacancyRecord) Validate() error {
	var missing []string
	if strings.TrimSpace(v.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(v.Company) == "" {
		missing = append(missing, "company")
	}
	if v.EmployerID == 0 {
		missing = append(missing, "employer_id")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}

	if strings.TrimSpace(v.Description) == "" {
		v.Description = DefaultDescription
	}
	return nil
}

// Salary returns the derived salary of the vacancy
func (v VacancyRecord) Salary() *int64 {
	return DeriveSalary(v.SalaryFrom, v.SalaryTo)
}

// DeriveSalary sums both salary bounds when they are present and made of decimal digits.
// Anything else yields nil.
func DeriveSalary(from, to string) *int64 {
	lo, ok := parseBound(from)
	if !ok {
		return nil
	}
	hi, ok := parseBound(to)
	if !ok {
		return nil
	}
	sum := lo + hi
	return &sum
}

func parseBound(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CompanyVacancyCount is one row of the per-company vacancy count report
type CompanyVacancyCount struct {
	Company   string `json:"company"`
	Vacancies int64  `json:"vacancies"`
}

// VacancyRef is the minimal projection of a stored vacancy
type VacancyRef struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	EmployerID EmployerID `json:"employer_id"`
}

// SalaryVacancy pairs a vacancy title with its stored salary
type SalaryVacancy struct {
	Title  string `json:"title"`
	Salary int64  `json:"salary"`
}

// KeywordVacancy is a keyword search hit
type KeywordVacancy struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Salary *int64 `json:"salary,omitempty"`
}
