//go:build wireinject
// +build wireinject

package mcp

import (
	"context"

	"github.com/google/wire"

	"github.com/honeycarbs/hh-vacancies/internal/config"
	"github.com/honeycarbs/hh-vacancies/internal/domain/analytics"
	"github.com/honeycarbs/hh-vacancies/internal/mcp/tools"
	"github.com/honeycarbs/hh-vacancies/internal/repository"
	storage "github.com/honeycarbs/hh-vacancies/internal/storage/postgres"
	"github.com/honeycarbs/hh-vacancies/pkg/logging"
)

// InitializeResources creates Resources with all resources wired up.
// The returned cleanup closes the database pool.
func InitializeResources(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Resources, func(), error) {
	wire.Build(
		// Infrastructure - PostgreSQL
		providePostgresConfig,
		providePostgresClient,
		provideDB,

		// Repositories
		storage.NewQueryRepository,
		wire.Bind(new(repository.QueryRepository), new(*storage.QueryRepository)),

		// Services
		analytics.NewService,
		wire.Bind(new(tools.QueryService), new(*analytics.Service)),

		// Infrastructure - Google Sheets
		provideSheetsClient,

		newResources,
	)

	return nil, nil, nil
}
