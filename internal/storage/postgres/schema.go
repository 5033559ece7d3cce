package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/honeycarbs/hh-vacancies/pkg/logging"
	pkgpostgres "github.com/honeycarbs/hh-vacancies/pkg/postgres"
)

const (
	createEmployerTable = `
		CREATE TABLE IF NOT EXISTS employer (
			id             BIGINT PRIMARY KEY,
			name           VARCHAR(255),
			url            VARCHAR(255),
			open_vacancies INTEGER
		)`

	createVacanciesTable = `
		CREATE TABLE IF NOT EXISTS vacancies (
			id          SERIAL PRIMARY KEY,
			title       VARCHAR(255),
			company     VARCHAR(255),
			salary      BIGINT,
			description TEXT,
			employer_id BIGINT REFERENCES employer(id)
		)`
)

// SchemaManager provisions the database and its tables
type SchemaManager struct {
	db     pkgpostgres.DB
	logger *logging.Logger
}

// NewSchemaManager creates a SchemaManager. Provision must run against a maintenance
// database (e.g. "postgres"); CreateTables against the provisioned one.
func NewSchemaManager(db pkgpostgres.DB, logger *logging.Logger) *SchemaManager {
	if logger == nil {
		logger = logging.Nop()
	}
	return &SchemaManager{db: db, logger: logger}
}

// Provision drops the named database if it exists and creates it again.
// It is destructive and meant for first-time setup only.
func (m *SchemaManager) Provision(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("provision: database name is required")
	}
	ident := pgx.Identifier{name}.Sanitize()

	if _, err := m.db.Exec(ctx, "DROP DATABASE IF EXISTS "+ident); err != nil {
		return fmt.Errorf("provision: drop database %s: %w", ident, err)
	}
	if _, err := m.db.Exec(ctx, "CREATE DATABASE "+ident); err != nil {
		return fmt.Errorf("provision: create database %s: %w", ident, err)
	}

	m.logger.Info("database provisioned", "database", name)
	return nil
}

// CreateTables creates the employer and vacancies tables if absent
func (m *SchemaManager) CreateTables(ctx context.Context) error {
	err := pkgpostgres.WithTx(ctx, m.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, createEmployerTable); err != nil {
			return fmt.Errorf("create employer table: %w", err)
		}
		if _, err := tx.Exec(ctx, createVacanciesTable); err != nil {
			return fmt.Errorf("create vacancies table: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	m.logger.Info("tables ready", "tables", []string{"employer", "vacancies"})
	return nil
}
