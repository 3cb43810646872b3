package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	// Registers the "postgres" database/sql driver used by sqlx and goose.
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	retry "github.com/sethvargo/go-retry"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// DatabaseConfig describes the keychain database. Postgres deployments
// fill out the whole struct; sqlite only needs the driver and runs in
// memory unless SIGNER_DATABASE_NAME points at a file.
type DatabaseConfig struct {
	URL      string `env:"SIGNER_DATABASE_URL" env-default:""`
	Name     string `env:"SIGNER_DATABASE_NAME" env-default:""`
	Schema   string `env:"SIGNER_DATABASE_SCHEMA" env-default:""`
	Driver   string `env:"SIGNER_DATABASE_DRIVER" env-default:"postgres"`
	Username string `env:"SIGNER_DATABASE_USERNAME" env-default:"postgres"`
	Password string `env:"SIGNER_DATABASE_PASSWORD" env-default:"your-super-secret-and-long-postgres-password"`
	Host     string `env:"SIGNER_DATABASE_HOST" env-default:"localhost"`
	Port     string `env:"SIGNER_DATABASE_PORT" env-default:"5432"`
	Retries  int    `env:"SIGNER_DATABASE_RETRIES" env-default:"5"`
}

// ParseConnectionString maps a database URL onto a DatabaseConfig.
// "file:" URLs select sqlite; postgres and postgresql URLs select
// postgres, with search_path and retries read from the query string.
func ParseConnectionString(connStr string) (DatabaseConfig, error) {
	if path, ok := strings.CutPrefix(connStr, "file:"); ok {
		path, _, _ = strings.Cut(path, "?")
		return DatabaseConfig{
			Name:    path,
			Driver:  "sqlite",
			Retries: 1,
		}, nil
	}

	parsed, err := url.Parse(connStr)
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("invalid connection string: %w", err)
	}
	if parsed.Scheme != "postgres" && parsed.Scheme != "postgresql" {
		return DatabaseConfig{}, fmt.Errorf("unsupported scheme: %s", parsed.Scheme)
	}

	cnf := DatabaseConfig{
		Name:    strings.TrimPrefix(parsed.Path, "/"),
		Schema:  parsed.Query().Get("search_path"),
		Driver:  "postgres",
		Host:    parsed.Hostname(),
		Port:    parsed.Port(),
		Retries: 5,
	}
	if parsed.User != nil {
		cnf.Username = parsed.User.Username()
		cnf.Password, _ = parsed.User.Password()
	}
	if cnf.Port == "" {
		cnf.Port = "5432"
	}
	if raw := parsed.Query().Get("retries"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			cnf.Retries = n
		}
	}

	return cnf, nil
}

// ConnectToDB opens the keychain database, creating the schema and
// applying pending migrations first.
func ConnectToDB(cnf DatabaseConfig) (*gorm.DB, error) {
	switch cnf.Driver {
	case "postgres":
		return openPostgres(cnf)
	case "sqlite", "":
		return openSqlite(cnf)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cnf.Driver)
	}
}

// openPostgres prepares the schema, applies migrations and opens the
// connection pool. The whole sequence is retried so the signer can come
// up while the database is still starting.
func openPostgres(cnf DatabaseConfig) (*gorm.DB, error) {
	attempts := cnf.Retries
	if attempts < 1 {
		attempts = 1
	}
	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewConstant(2*time.Second))

	var db *gorm.DB
	err := retry.Do(context.Background(), backoff, func(context.Context) error {
		if err := preparePostgres(cnf); err != nil {
			log.Printf("postgres not ready: %v", err)
			return retry.RetryableError(err)
		}

		gormConfig := &gorm.Config{}
		if cnf.Schema != "" {
			gormConfig.NamingStrategy = schema.NamingStrategy{TablePrefix: cnf.Schema + "."}
		}
		opened, err := gorm.Open(postgres.Open(postgresDSN(cnf)), gormConfig)
		if err != nil {
			log.Printf("postgres not ready: %v", err)
			return retry.RetryableError(err)
		}

		db = opened
		return nil
	})
	return db, err
}

// openSqlite opens the sqlite database, in memory unless a file name is
// configured. File-backed databases run the versioned migrations;
// in-memory ones are auto-migrated because goose would migrate a
// different database than the connection gorm holds.
func openSqlite(cnf DatabaseConfig) (*gorm.DB, error) {
	dsn := "file::memory:?cache=shared"
	if cnf.Name != "" {
		dsn = fmt.Sprintf("file:%s?cache=shared", cnf.Name)
		if err := applyMigrations("sqlite3", dsn, "config/migrations/sqlite"); err != nil {
			return nil, fmt.Errorf("apply sqlite migrations: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if cnf.Name == "" {
		if err := db.AutoMigrate(&SigningKeyModel{}); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// preparePostgres creates the configured schema when missing and brings
// the migrations up to date.
func preparePostgres(cnf DatabaseConfig) error {
	if err := ensureSchema(cnf); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	if err := applyMigrations("postgres", postgresDSN(cnf), "config/migrations/postgres"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// ensureSchema creates the configured schema if it does not exist yet,
// connecting without a search_path so the statement runs against the
// default schema.
func ensureSchema(cnf DatabaseConfig) error {
	if cnf.Schema == "" {
		return nil
	}

	bare := cnf
	bare.Schema = ""
	db, err := sqlx.Connect("postgres", postgresDSN(bare))
	if err != nil {
		return err
	}
	defer db.Close()

	var exists bool
	query := "SELECT EXISTS (SELECT 1 FROM information_schema.schemata WHERE schema_name = $1)"
	if err := db.Get(&exists, query, cnf.Schema); err != nil {
		return fmt.Errorf("check schema %q: %w", cnf.Schema, err)
	}
	if exists {
		return nil
	}

	if _, err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", cnf.Schema)); err != nil {
		return fmt.Errorf("create schema %q: %w", cnf.Schema, err)
	}
	log.Printf("created schema %s", cnf.Schema)
	return nil
}

// applyMigrations runs the embedded goose migrations for one driver.
func applyMigrations(driver, dsn, dir string) error {
	db, err := goose.OpenDBWithDriver(driver, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(embedMigrations)
	if err := goose.Up(db, dir); err != nil {
		return err
	}
	log.Println("database migrations applied")
	return nil
}

// postgresDSN renders the keyword/value form accepted by lib/pq and
// pgx. search_path rides along as a runtime parameter so every pooled
// connection lands in the configured schema.
func postgresDSN(cnf DatabaseConfig) string {
	dsn := fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		cnf.Username, cnf.Password, cnf.Host, cnf.Port, cnf.Name,
	)
	if cnf.Schema != "" {
		dsn += " search_path=" + cnf.Schema
	}
	return dsn
}
