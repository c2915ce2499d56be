package db

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/Vinay0726/Eventra/utils"
)

// Open connects to the identity store and applies the schema.
func Open(dsn string) (*sql.DB, error) {
	sqldb, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := sqldb.Ping(); err != nil {
		return nil, err
	}
	sqldb.SetMaxOpenConns(20)
	sqldb.SetMaxIdleConns(10)

	if err := createTables(sqldb); err != nil {
		return nil, err
	}
	return sqldb, nil
}

func createTables(sqldb *sql.DB) error {
	// One table per role keeps the typed-principal boundary honest: a user
	// id can never become an admin id through a missing WHERE clause.
	for _, table := range []string{"users", "organizers", "admins"} {
		stmt := `
	CREATE TABLE IF NOT EXISTS ` + table + ` (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		mobile TEXT NOT NULL DEFAULT '',
		password TEXT NOT NULL
	);`
		if _, err := sqldb.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

const defaultAdminEmail = "admin@eventra.com"

// EnsureDefaultAdmin seeds the bootstrap admin account. Idempotent: keyed on
// the fixed email, a rerun is a no-op. Called explicitly from main, never as
// an import side effect.
func EnsureDefaultAdmin(ctx context.Context, sqldb *sql.DB, password string) error {
	if password == "" {
		password = "admin123"
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = sqldb.ExecContext(ctx, `
	INSERT INTO admins(name, email, mobile, password)
	VALUES ('Super Admin', $1, '9999999999', $2)
	ON CONFLICT (email) DO NOTHING;`, defaultAdminEmail, hashed)
	return err
}
