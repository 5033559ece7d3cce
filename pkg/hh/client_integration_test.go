package hh

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestEmployerIntegration(t *testing.T) {
	if os.Getenv("HH_INTEGRATION") == "" {
		t.Skip("HH_INTEGRATION must be set to run this test against api.hh.ru")
	}

	client, err := NewClient(Config{
		BaseURL:   os.Getenv("HH_BASE_URL"),
		UserAgent: os.Getenv("HH_USER_AGENT"),
		PerPage:   5,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	emp, err := client.Employer(ctx, 1740)
	if err != nil {
		t.Fatalf("Employer: %v", err)
	}
	t.Logf("Employer %s: %s (%s)", emp.ID, emp.Name, emp.URL())

	page, err := client.VacanciesPage(ctx, 1740, 0)
	if err != nil {
		t.Fatalf("VacanciesPage: %v", err)
	}

	for i, v := range page.Items {
		from, to := v.Bounds()
		t.Logf("Result %d: %s @ %s (%s-%s)", i+1, v.Name, v.Employer.Name, from, to)
	}
	t.Logf("hh returned %d of %d vacancies across %d pages", len(page.Items), page.Found, page.Pages)
}
