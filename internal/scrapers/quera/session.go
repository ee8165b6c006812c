package quera

import (
	"context"
	"errors"
	"fmt"

	"queracli/internal/components/assert"
)

// SessionStore persists the session token between invocations. ReadSession
// returns an empty string when nothing is stored.
type SessionStore interface {
	ReadSession(ctx context.Context) (string, error)
	WriteSession(ctx context.Context, token string) error
	ClearSession(ctx context.Context) error
}

// Account runs the scraper flows with the session kept in a store.
type Account struct {
	scraper *Scraper
	store   SessionStore
}

func NewAccount(scraper *Scraper, store SessionStore) Account {
	assert.NotNil(scraper)
	assert.NotNil(store)
	return Account{
		scraper: scraper,
		store:   store,
	}
}

func (a Account) session(ctx context.Context) (Session, error) {
	token, err := a.store.ReadSession(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}
	return Session{Token: token}, nil
}

// expired forgets a stored session the platform no longer accepts.
func (a Account) expired(ctx context.Context, err error) error {
	if !errors.Is(err, ErrAuthenticationRequired) {
		return err
	}
	clearErr := a.store.ClearSession(ctx)
	if clearErr != nil {
		return errors.Join(err, fmt.Errorf("clear session: %w", clearErr))
	}
	return err
}

// Login signs in unless the stored session is still valid, the bool reports
// whether it already was.
func (a Account) Login(ctx context.Context, username, password string) (bool, error) {
	sess, err := a.session(ctx)
	if err != nil {
		return false, err
	}
	next, err := a.scraper.Login(ctx, sess, username, password)
	if err != nil {
		// rejected credentials mean the stored session was already found invalid
		if errors.Is(err, ErrAuthentication) && !sess.Empty() {
			clearErr := a.store.ClearSession(ctx)
			if clearErr != nil {
				return false, errors.Join(err, fmt.Errorf("clear session: %w", clearErr))
			}
		}
		return false, err
	}
	if next.Token == sess.Token {
		return true, nil
	}
	err = a.store.WriteSession(ctx, next.Token)
	if err != nil {
		return false, fmt.Errorf("write session: %w", err)
	}
	return false, nil
}

// Logout ends the stored session, the bool is false when there was no
// valid session to end. The stored session is cleared either way.
func (a Account) Logout(ctx context.Context) (bool, error) {
	sess, err := a.session(ctx)
	if err != nil {
		return false, err
	}
	loggedOut, err := a.scraper.Logout(ctx, sess)
	if err != nil {
		return false, err
	}
	err = a.store.ClearSession(ctx)
	if err != nil {
		return false, fmt.Errorf("clear session: %w", err)
	}
	return loggedOut, nil
}

func (a Account) Submit(ctx context.Context, req SubmitRequest) (SubmitResponse, error) {
	sess, err := a.session(ctx)
	if err != nil {
		return SubmitResponse{}, err
	}
	res, err := a.scraper.Submit(ctx, sess, req)
	if err != nil {
		return SubmitResponse{}, a.expired(ctx, err)
	}
	return res, nil
}

func (a Account) LatestResult(ctx context.Context, problemId string) (SubmissionResult, bool, error) {
	sess, err := a.session(ctx)
	if err != nil {
		return SubmissionResult{}, false, err
	}
	res, found, err := a.scraper.FetchLatestResult(ctx, sess, problemId)
	if err != nil {
		return SubmissionResult{}, false, a.expired(ctx, err)
	}
	return res, found, nil
}

// LoadSource reads a solution from a path or url, see Scraper.LoadSource.
func (a Account) LoadSource(ctx context.Context, location string) (Source, error) {
	return a.scraper.LoadSource(ctx, location)
}
