package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"queracli/internal/components/assert"
	"queracli/internal/components/chrono"
	"queracli/internal/components/telemetry"

	"github.com/google/uuid"
)

const (
	report_session_store_read  = "session-store.read"
	report_session_store_write = "session-store.write"
	report_session_store_clear = "session-store.clear"
)

// SessionStore persists the session token of a single profile, there is at
// most one row per profile and every mutation happens in one transaction.
type SessionStore struct {
	db      *sql.DB
	qry     *Queries
	profile string
	time    chrono.TimeAPI
	tel     telemetry.API
}

func NewSessionStore(database *sql.DB, profile string, time chrono.TimeAPI, tel telemetry.API) SessionStore {
	assert.NotNil(database)
	assert.NotEmptyStr(profile)
	assert.NotNil(time)
	assert.NotNil(tel)

	return SessionStore{
		db:      database,
		qry:     New(database),
		profile: profile,
		time:    time,
		tel:     telemetry.NewScopedAPI("session_store", tel),
	}
}

// ReadSession returns the stored token, or an empty string when there is none.
func (s SessionStore) ReadSession(ctx context.Context) (string, error) {
	token, err := s.qry.GetSession(ctx, s.profile)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		s.tel.ReportBroken(report_session_store_read, err, s.profile)
		return "", fmt.Errorf("read session: %w", err)
	}
	return token, nil
}

// WriteSession replaces the stored token with `token`.
func (s SessionStore) WriteSession(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("write session: empty token")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.tel.ReportBroken(report_session_store_write, fmt.Errorf("begin tx: %w", err))
		return fmt.Errorf("write session: %w", err)
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	err = txqry.DeleteSession(ctx, s.profile)
	if err != nil {
		s.tel.ReportBroken(report_session_store_write, fmt.Errorf("delete previous: %w", err))
		return fmt.Errorf("write session: %w", err)
	}
	err = txqry.CreateSession(ctx, CreateSessionParams{
		Id:        uuid.NewString(),
		Profile:   s.profile,
		SessionId: token,
		CreatedAt: s.time.Now().Unix(),
	})
	if err != nil {
		s.tel.ReportBroken(report_session_store_write, fmt.Errorf("insert: %w", err))
		return fmt.Errorf("write session: %w", err)
	}

	return tx.Commit()
}

// ClearSession removes the stored token, clearing an absent session is not an error.
func (s SessionStore) ClearSession(ctx context.Context) error {
	err := s.qry.DeleteSession(ctx, s.profile)
	if err != nil {
		s.tel.ReportBroken(report_session_store_clear, err, s.profile)
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
