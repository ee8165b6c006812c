package quera

import (
	"context"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// sessionValidFromOutcome decides session validity from the profile page check.
// Only a redirect to the login page invalidates a session, every other
// answer (including errors) keeps it.
func sessionValidFromOutcome(out Outcome) bool {
	switch out.Kind {
	case OUTCOME_SUCCESS:
		return true
	case OUTCOME_REDIRECT:
		return !out.IsLoginRedirect()
	default:
		return true
	}
}

// IsValid requests the profile page with the session. An empty session is
// invalid without touching the network.
func (s *Scraper) IsValid(ctx context.Context, sess Session) (bool, error) {
	if sess.Empty() {
		return false, nil
	}

	ctx, span := tracer.Start(ctx, "scraper:IsValid")
	defer span.End()

	c, err := s.sessionClient(sess)
	if err != nil {
		return false, err
	}
	out, err := c.Get(ctx, PROFILE_PATH, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "profile check failed")
		return false, err
	}

	valid := sessionValidFromOutcome(out)
	span.SetAttributes(
		attribute.String("profile.outcome", out.Kind.String()),
		attribute.Bool("session.valid", valid),
	)
	if out.Kind == OUTCOME_FAILURE {
		s.tel.ReportWarning(report_scraper_is_valid, "ambiguous profile check, keeping session", out.StatusCode)
	}
	return valid, nil
}

// Login signs in with a username and password. When `sess` is still valid
// it is returned as is and no credentials are posted. Rejected credentials
// return ErrAuthentication.
func (s *Scraper) Login(ctx context.Context, sess Session, username, password string) (Session, error) {
	valid, err := s.IsValid(ctx, sess)
	if err != nil {
		return Session{}, err
	}
	if valid {
		return sess, nil
	}

	ctx, span := tracer.Start(ctx, "scraper:Login")
	defer span.End()

	c, err := s.newClient()
	if err != nil {
		return Session{}, err
	}

	page, err := c.Get(ctx, LOGIN_PATH, nil)
	if err != nil {
		return Session{}, err
	}
	csrf, err := CsrfFromHeader(page.Header, CSRF_COOKIE, LOGIN_PATH)
	if err != nil {
		return Session{}, s.broken(span, report_scraper_login, err)
	}
	doc, err := page.Document()
	if err != nil {
		return Session{}, s.broken(span, report_scraper_login, &ParseError{
			Page:   LOGIN_PATH,
			Reason: "invalid html",
			Err:    err,
		})
	}
	fields, err := FormDefaults(doc, "", LOGIN_PATH)
	if err != nil {
		return Session{}, s.broken(span, report_scraper_login, err)
	}

	form := FormSnapshot{Fields: fields, Csrf: csrf}.Values()
	form.Set(LOGIN_USERNAME_FIELD, username)
	form.Set(LOGIN_PASSWORD_FIELD, password)

	c.AddCookie(csrf.CookieName, csrf.CookieValue)
	res, err := c.PostForm(ctx, LOGIN_PATH, form, map[string]string{
		"Referer": c.absolute(LOGIN_PATH),
	})
	if err != nil {
		return Session{}, err
	}
	if res.Kind == OUTCOME_FAILURE {
		return Session{}, s.broken(span, report_scraper_login, &SubmissionError{
			Endpoint:   LOGIN_PATH,
			StatusCode: res.StatusCode,
		})
	}

	cookie, ok := readSetCookie(res.Header, SESSION_COOKIE)
	if !ok {
		span.SetStatus(codes.Error, ErrAuthentication.Error())
		return Session{}, ErrAuthentication
	}
	return Session{Token: cookie.Value}, nil
}

// Logout ends the session on the platform. An invalid session is already
// logged out, Logout then reports false and makes no further requests.
func (s *Scraper) Logout(ctx context.Context, sess Session) (bool, error) {
	valid, err := s.IsValid(ctx, sess)
	if err != nil {
		return false, err
	}
	if !valid {
		return false, nil
	}

	ctx, span := tracer.Start(ctx, "scraper:Logout")
	defer span.End()

	c, err := s.sessionClient(sess)
	if err != nil {
		return false, err
	}
	headers := map[string]string{
		"Referer": c.absolute("/"),
		"Origin":  c.origin(),
	}

	page, err := c.Get(ctx, SETTINGS_PATH, headers)
	if err != nil {
		return false, err
	}
	csrf, err := CsrfFromHeader(page.Header, CSRF_COOKIE, SETTINGS_PATH)
	if err != nil {
		return false, s.broken(span, report_scraper_logout, err)
	}
	c.AddCookie(csrf.CookieName, csrf.CookieValue)

	form := url.Values{}
	form.Set(LOGOUT_CSRF_FIELD, csrf.CookieValue)
	res, err := c.PostForm(ctx, LOGOUT_PATH, form, headers)
	if err != nil {
		return false, err
	}
	if res.Kind == OUTCOME_FAILURE {
		return false, s.broken(span, report_scraper_logout, &SubmissionError{
			Endpoint:   LOGOUT_PATH,
			StatusCode: res.StatusCode,
		})
	}
	return true, nil
}
