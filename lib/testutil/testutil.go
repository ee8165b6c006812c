package testutil

import (
	"context"
	"database/sql"
	"testing"

	"queracli/pkg/migrations"
)

// OpenInMemoryDB opens an in-memory sqlite database with `schema` applied,
// it is closed when the test ends.
func OpenInMemoryDB(t testing.TB, schema string) *sql.DB {
	database, err := migrations.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })

	err = migrations.Apply(context.Background(), database, schema)
	if err != nil {
		t.Fatal(err)
	}
	return database
}
