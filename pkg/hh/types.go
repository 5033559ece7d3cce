package hh

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/honeycarbs/hh-vacancies/internal/domain"
)

// Config defines hh.ru API client settings
type Config struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	PerPage    int
	Limiter    *rate.Limiter // optional request throttle
}

// Client queries the hh.ru public API
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	perPage    int
	limiter    *rate.Limiter
}

// Employer is the subset of GET /employers/{id} used for ingestion
type Employer struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AlternateURL  string `json:"alternate_url"`
	SiteURL       string `json:"site_url"`
	OpenVacancies *int   `json:"open_vacancies"`
	Site          *struct {
		AlternateURL string `json:"alternate_url"`
	} `json:"site"`
}

// URL returns the canonical employer link, preferring site.alternate_url
func (e Employer) URL() string {
	if e.Site != nil && e.Site.AlternateURL != "" {
		return e.Site.AlternateURL
	}
	return e.AlternateURL
}

// VacancyPage is one page of GET /vacancies
type VacancyPage struct {
	Items   []Vacancy `json:"items"`
	Found   int       `json:"found"`
	Pages   int       `json:"pages"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
}

// Vacancy is a single vacancy item
type Vacancy struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	AlternateURL string          `json:"alternate_url"`
	Employer     EmployerSummary `json:"employer"`
	Salary       *Salary         `json:"salary"`
	From         Amount          `json:"from"`
	To           Amount          `json:"to"`
	Description  string          `json:"description"`
	Snippet      struct {
		Requirement    string `json:"requirement"`
		Responsibility string `json:"responsibility"`
	} `json:"snippet"`
}

// EmployerSummary is the employer reference embedded in a vacancy
type EmployerSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Salary is the posted salary range
type Salary struct {
	From     Amount `json:"from"`
	To       Amount `json:"to"`
	Currency string `json:"currency"`
}

// Amount keeps the raw text of a JSON number or string; null decodes to "".
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("hh: decode amount: %w", err)
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("hh: decode amount: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

// Bounds returns the salary bounds, falling back to top-level from/to
func (v Vacancy) Bounds() (from, to string) {
	if v.Salary != nil {
		from, to = string(v.Salary.From), string(v.Salary.To)
	}
	if from == "" {
		from = string(v.From)
	}
	if to == "" {
		to = string(v.To)
	}
	return from, to
}

// StatusError is returned for any non-200 response. It matches domain.ErrTransientRequest.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("hh: API error (%d) for %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("hh: API error (%d) for %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *StatusError) Unwrap() error {
	return domain.ErrTransientRequest
}
