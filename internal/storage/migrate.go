package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed migrations/*.sql migrations_postgres/*.sql
var migrationFiles embed.FS

func MigrateUp(db *sql.DB) error {
	return applyMigrations(db, "migrations", ".up.sql")
}

func MigrateDown(db *sql.DB) error {
	return applyMigrations(db, "migrations", ".down.sql")
}

func MigratePostgresUp(db *sql.DB) error {
	return applyMigrations(db, "migrations_postgres", ".up.sql")
}

func MigratePostgresDown(db *sql.DB) error {
	return applyMigrations(db, "migrations_postgres", ".down.sql")
}

func applyMigrations(db *sql.DB, dir, suffix string) error {
	entries, err := fs.Glob(migrationFiles, dir+"/*"+suffix)
	if err != nil {
		return fmt.Errorf("glob migrations: %w", err)
	}
	sort.Strings(entries)
	if suffix == ".down.sql" {
		sort.Sort(sort.Reverse(sort.StringSlice(entries)))
	}
	for _, name := range entries {
		sqlBytes, readErr := migrationFiles.ReadFile(name)
		if readErr != nil {
			return fmt.Errorf("read migration %s: %w", name, readErr)
		}
		if _, execErr := db.Exec(string(sqlBytes)); execErr != nil {
			return fmt.Errorf("apply migration %s: %w", name, execErr)
		}
	}
	return nil
}
