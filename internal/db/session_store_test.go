package db

import (
	"context"
	"testing"
	"time"

	"queracli/internal/components/chrono"
	"queracli/internal/components/telemetry"
	"queracli/lib/testutil"

	"github.com/stretchr/testify/require"
)

var testTime = chrono.FixedTime{Time: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}

func TestSessionStore(t *testing.T) {
	database := testutil.OpenInMemoryDB(t, Schema)
	store := NewSessionStore(database, "default", testTime, &telemetry.Recorder{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	{
		token, err := store.ReadSession(ctx)
		require.NoError(t, err)
		require.Equal(t, "", token)
	}
	{
		require.NoError(t, store.WriteSession(ctx, "first"))
		require.NoError(t, store.WriteSession(ctx, "second"))

		token, err := store.ReadSession(ctx)
		require.NoError(t, err)
		require.Equal(t, "second", token)

		var rows int
		err = database.QueryRowContext(ctx, "select count(*) from session").Scan(&rows)
		require.NoError(t, err)
		require.Equal(t, 1, rows)

		var createdAt int64
		err = database.QueryRowContext(ctx, "select created_at from session").Scan(&createdAt)
		require.NoError(t, err)
		require.Equal(t, testTime.Time.Unix(), createdAt)
	}
	{
		require.NoError(t, store.ClearSession(ctx))
		require.NoError(t, store.ClearSession(ctx))

		token, err := store.ReadSession(ctx)
		require.NoError(t, err)
		require.Equal(t, "", token)
	}
}

func TestSessionStoreProfiles(t *testing.T) {
	database := testutil.OpenInMemoryDB(t, Schema)
	ctx := context.Background()

	alice := NewSessionStore(database, "alice", testTime, &telemetry.Recorder{})
	bob := NewSessionStore(database, "bob", testTime, &telemetry.Recorder{})

	require.NoError(t, alice.WriteSession(ctx, "alice-token"))
	require.NoError(t, bob.WriteSession(ctx, "bob-token"))
	require.NoError(t, alice.ClearSession(ctx))

	token, err := bob.ReadSession(ctx)
	require.NoError(t, err)
	require.Equal(t, "bob-token", token)

	token, err = alice.ReadSession(ctx)
	require.NoError(t, err)
	require.Equal(t, "", token)
}

func TestWriteEmptySession(t *testing.T) {
	database := testutil.OpenInMemoryDB(t, Schema)
	store := NewSessionStore(database, "default", testTime, &telemetry.Recorder{})

	err := store.WriteSession(context.Background(), "")
	require.Error(t, err)
}

func TestSchemaIdempotent(t *testing.T) {
	database := testutil.OpenInMemoryDB(t, Schema)
	_, err := database.Exec(Schema)
	require.NoError(t, err)
}
