package hh

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultBaseURL   = "https://api.hh.ru"
	defaultUserAgent = "hh-vacancies/0.1"
	defaultPerPage   = 100
	maxPerPage       = 100
)

// NewClient instantiates an hh.ru API client
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("hh: parse base url: %w", err)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		perPage:    perPage,
		limiter:    cfg.Limiter,
	}, nil
}

// Employer fetches GET /employers/{id}
func (c *Client) Employer(ctx context.Context, id int64) (Employer, error) {
	if c == nil {
		return Employer{}, fmt.Errorf("hh: client is nil")
	}

	u, err := c.buildURL([]string{"employers", strconv.FormatInt(id, 10)}, nil)
	if err != nil {
		return Employer{}, err
	}

	var emp Employer
	if err := c.get(ctx, u, &emp); err != nil {
		return Employer{}, err
	}
	return emp, nil
}

// VacanciesPage fetches one page of GET /vacancies?employer_id={id}
func (c *Client) VacanciesPage(ctx context.Context, employerID int64, page int) (VacancyPage, error) {
	if c == nil {
		return VacancyPage{}, fmt.Errorf("hh: client is nil")
	}

	values := url.Values{}
	values.Set("employer_id", strconv.FormatInt(employerID, 10))
	values.Set("page", strconv.Itoa(page))
	values.Set("per_page", strconv.Itoa(c.perPage))

	u, err := c.buildURL([]string{"vacancies"}, values)
	if err != nil {
		return VacancyPage{}, err
	}

	var payload VacancyPage
	if err := c.get(ctx, u, &payload); err != nil {
		return VacancyPage{}, err
	}
	return payload, nil
}

func (c *Client) get(ctx context.Context, u string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("hh: rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("hh: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("hh: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{
			StatusCode: resp.StatusCode,
			URL:        u,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("hh: decode response: %w", err)
	}
	return nil
}

func (c *Client) buildURL(segments []string, values url.Values) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("hh: parse base url: %w", err)
	}

	u.Path = path.Join(append([]string{"/", u.Path}, segments...)...)
	if values != nil {
		u.RawQuery = values.Encode()
	}
	return u.String(), nil
}

// PlainText strips HTML markup such as <highlighttext> from API text fields
func PlainText(html string) string {
	if !strings.ContainsAny(html, "<&") {
		return strings.Join(strings.Fields(html), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
