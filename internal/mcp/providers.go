package mcp

import (
	"context"
	"fmt"

	"github.com/honeycarbs/hh-vacancies/internal/config"
	"github.com/honeycarbs/hh-vacancies/internal/mcp/tools"
	"github.com/honeycarbs/hh-vacancies/pkg/logging"
	pkgpostgres "github.com/honeycarbs/hh-vacancies/pkg/postgres"
	sheetsclient "github.com/honeycarbs/hh-vacancies/pkg/sheets"
)

// providePostgresConfig extracts the pool config for the vacancies database
func providePostgresConfig(cfg config.Config) pkgpostgres.Config {
	return pkgpostgres.Config{
		DSN:      cfg.Postgres.DSN(cfg.Postgres.Database),
		MaxConns: cfg.Postgres.MaxConns,
	}
}

func providePostgresClient(cfg pkgpostgres.Config, logger *logging.Logger) (*pkgpostgres.Client, func(), error) {
	client, err := pkgpostgres.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("PostgreSQL pool ready", "max_conns", cfg.MaxConns)

	return client, client.Close, nil
}

func provideDB(client *pkgpostgres.Client) pkgpostgres.DB {
	return client.DB()
}

// provideSheetsClient returns nil when no credentials are configured
func provideSheetsClient(ctx context.Context, cfg config.Config, logger *logging.Logger) (tools.SheetsClient, error) {
	if cfg.Sheets.CredentialsPath == "" {
		return nil, nil
	}

	client, err := sheetsclient.NewClient(ctx, sheetsclient.Config{CredentialsPath: cfg.Sheets.CredentialsPath})
	if err != nil {
		return nil, fmt.Errorf("google sheets: %w", err)
	}
	logger.Info("Google Sheets client initialized")

	return &sheetsClientAdapter{client: client}, nil
}
