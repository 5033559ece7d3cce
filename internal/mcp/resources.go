package mcp

import (
	"github.com/honeycarbs/hh-vacancies/internal/mcp/tools"
	pkgpostgres "github.com/honeycarbs/hh-vacancies/pkg/postgres"
)

// Resources holds everything the MCP tools depend on
type Resources struct {
	Analytics    tools.QueryService
	SheetsClient tools.SheetsClient
	Postgres     *pkgpostgres.Client
}

func newResources(analytics tools.QueryService, sheets tools.SheetsClient, pg *pkgpostgres.Client) *Resources {
	return &Resources{
		Analytics:    analytics,
		SheetsClient: sheets,
		Postgres:     pg,
	}
}
