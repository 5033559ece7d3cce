package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains runtime settings for the ingestion CLI and the MCP server
type Config struct {
	LogLevel string         `yaml:"log_level"`
	Host     string         `yaml:"host"` // default 0.0.0.0
	Port     string         `yaml:"port"` // default PORT env or 8080
	Postgres PostgresConfig `yaml:"postgres"`
	HH       HHConfig       `yaml:"hh"`
	Sheets   struct {
		CredentialsPath string `yaml:"credentials_path"`
	} `yaml:"sheets"`
}

// PostgresConfig describes how to reach the relational store
type PostgresConfig struct {
	Host          string `yaml:"host"`
	Port          string `yaml:"port"`
	User          string `yaml:"user"`
	Password      string `yaml:"password"`
	Database      string `yaml:"database"`
	AdminDatabase string `yaml:"admin_database"` // used to drop/create Database
	SSLMode       string `yaml:"sslmode"`
	MaxConns      int32  `yaml:"max_conns"`
}

// HHConfig holds job-board API settings
type HHConfig struct {
	BaseURL     string        `yaml:"base_url"`
	UserAgent   string        `yaml:"user_agent"`
	EmployerIDs []int64       `yaml:"employer_ids"`
	PerPage     int           `yaml:"per_page"`
	MaxPages    int           `yaml:"max_pages"`
	Concurrency int           `yaml:"concurrency"`
	RPS         float64       `yaml:"rps"` // 0 disables throttling
	Timeout     time.Duration `yaml:"timeout"`
}

// DefaultEmployerIDs are well known hh.ru employers ingested when nothing else is configured
var DefaultEmployerIDs = []int64{1740, 3529, 78638, 15478, 2180, 87021, 3776, 4181, 39305, 1122462}

// DSN returns a pgx connection string for the given database
func (p PostgresConfig) DSN(database string) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(p.Host, p.Port),
		Path:   "/" + database,
	}
	if p.Password != "" {
		u.User = url.UserPassword(p.User, p.Password)
	} else {
		u.User = url.User(p.User)
	}

	q := url.Values{}
	if p.SSLMode != "" {
		q.Set("sslmode", p.SSLMode)
	}
	if p.MaxConns > 0 {
		q.Set("pool_max_conns", strconv.Itoa(int(p.MaxConns)))
	}
	u.RawQuery = q.Encode()

	return u.String()
}

func defaults() Config {
	return Config{
		LogLevel: "info",
		Host:     "0.0.0.0",
		Port:     "8080",
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          "5432",
			Database:      "hh_vacancies",
			AdminDatabase: "postgres",
			SSLMode:       "disable",
			MaxConns:      4,
		},
		HH: HHConfig{
			BaseURL:     "https://api.hh.ru",
			UserAgent:   "hh-vacancies/0.1 (api@example.com)",
			EmployerIDs: DefaultEmployerIDs,
			PerPage:     100,
			MaxPages:    20,
			Concurrency: 1,
		},
	}
}

// Load populates config from an optional YAML file and environment variables.
// Environment variables win over the file.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("HHDB_CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	var missingVars []string

	if cfg.Postgres.User == "" {
		missingVars = append(missingVars, "POSTGRES_USER")
	}

	if cfg.Postgres.Database == "" {
		missingVars = append(missingVars, "POSTGRES_DB")
	}

	if len(missingVars) > 0 {
		return cfg, fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	if len(cfg.HH.EmployerIDs) == 0 {
		return cfg, fmt.Errorf("config: at least one employer id is required")
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.Host, "MCP_HOST")
	setString(&cfg.Port, "PORT")

	setString(&cfg.Postgres.Host, "POSTGRES_HOST")
	setString(&cfg.Postgres.Port, "POSTGRES_PORT")
	setString(&cfg.Postgres.User, "POSTGRES_USER")
	setString(&cfg.Postgres.Password, "POSTGRES_PASSWORD")
	setString(&cfg.Postgres.Database, "POSTGRES_DB")
	setString(&cfg.Postgres.AdminDatabase, "POSTGRES_ADMIN_DB")
	setString(&cfg.Postgres.SSLMode, "POSTGRES_SSLMODE")

	setString(&cfg.HH.BaseURL, "HH_BASE_URL")
	setString(&cfg.HH.UserAgent, "HH_USER_AGENT")
	setString(&cfg.Sheets.CredentialsPath, "GOOGLE_SHEETS_CREDENTIALS_PATH")

	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return fmt.Errorf("config: POSTGRES_MAX_CONNS: %w", err)
		}
		cfg.Postgres.MaxConns = int32(n)
	}

	if v := os.Getenv("HH_EMPLOYER_IDS"); v != "" {
		ids, err := ParseEmployerIDs(v)
		if err != nil {
			return err
		}
		cfg.HH.EmployerIDs = ids
	}

	for key, dst := range map[string]*int{
		"HH_PER_PAGE":    &cfg.HH.PerPage,
		"HH_MAX_PAGES":   &cfg.HH.MaxPages,
		"HH_CONCURRENCY": &cfg.HH.Concurrency,
	} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = n
	}

	if v := os.Getenv("HH_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: HH_RPS: %w", err)
		}
		cfg.HH.RPS = f
	}

	if v := os.Getenv("HH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: HH_TIMEOUT: %w", err)
		}
		cfg.HH.Timeout = d
	}

	return nil
}

// ParseEmployerIDs parses a comma separated id list such as "1740, 3529"
func ParseEmployerIDs(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("config: invalid employer id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
