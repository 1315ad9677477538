package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

//go:embed migrations/*.sql
var migrations embed.FS

// InitDB opens the database and applies any pending migrations.
// A local SQLite file (or ":memory:") is used unless primaryURL points at a Turso database.
// The returned teardown closes the connection.
func InitDB(dbPath, primaryURL, authToken string) (*sql.DB, func(), error) {
	db, err := open(dbPath, primaryURL, authToken)
	if err != nil {
		return nil, nil, err
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("Database initialized successfully")
	teardown := func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}
	return db, teardown, nil
}

func open(dbPath, primaryURL, authToken string) (*sql.DB, error) {
	if primaryURL == "" {
		log.Info("Initializing local SQLite database", "path", dbPath)
		db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
		if err != nil {
			return nil, fmt.Errorf("failed to open local database: %w", err)
		}
		// Writes are single-writer and every ":memory:" connection is a separate database.
		db.SetMaxOpenConns(1)
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to local database: %w", err)
		}
		return db, nil
	}

	log.Info("Initializing Turso database", "url", primaryURL)
	db, err := sql.Open("libsql", primaryURL+"?authToken="+authToken)
	if err != nil {
		return nil, fmt.Errorf("failed to open db %s: %w", primaryURL, err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}
