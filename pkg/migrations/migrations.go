package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

func wrapOpenDB(err error) error {
	return fmt.Errorf("open db: %w", err)
}

// OpenDB opens a local sqlite database, creating its parent directory.
func OpenDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(path), 0700)
		if err != nil {
			return nil, wrapOpenDB(err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapOpenDB(err)
	}

	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	if path != ":memory:" {
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			return nil, wrapOpenDB(err)
		}
	}

	return db, nil
}

// OpenRemoteDB opens a libsql database served over the network.
func OpenRemoteDB(dbUrl, authToken string) (*sql.DB, error) {
	values := url.Values{}
	if authToken != "" {
		values.Add("authToken", authToken)
	}
	target := dbUrl
	if len(values) > 0 {
		target += "?" + values.Encode()
	}
	db, err := sql.Open("libsql", target)
	if err != nil {
		return nil, wrapOpenDB(err)
	}
	return db, nil
}

// Apply runs an idempotent schema (every statement guarded by IF NOT EXISTS)
// against db.
func Apply(ctx context.Context, db *sql.DB, schema string) error {
	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
