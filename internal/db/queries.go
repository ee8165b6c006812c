package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const getSession = `select session_id from session where profile = ?`

func (q *Queries) GetSession(ctx context.Context, profile string) (string, error) {
	row := q.db.QueryRowContext(ctx, getSession, profile)
	var sessionId string
	err := row.Scan(&sessionId)
	return sessionId, err
}

const deleteSession = `delete from session where profile = ?`

func (q *Queries) DeleteSession(ctx context.Context, profile string) error {
	_, err := q.db.ExecContext(ctx, deleteSession, profile)
	return err
}

const createSession = `insert into session (id, profile, session_id, created_at) values (?, ?, ?, ?)`

type CreateSessionParams struct {
	Id        string
	Profile   string
	SessionId string
	CreatedAt int64
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) error {
	_, err := q.db.ExecContext(ctx, createSession,
		arg.Id,
		arg.Profile,
		arg.SessionId,
		arg.CreatedAt,
	)
	return err
}
