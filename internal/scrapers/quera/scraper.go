package quera

import (
	"context"
	"fmt"

	"queracli/internal/components/assert"
	"queracli/internal/components/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("quera/scraper")

const (
	report_scraper_is_valid = "scraper.is-valid"
	report_scraper_login    = "scraper.login"
	report_scraper_logout   = "scraper.logout"
	report_scraper_submit   = "scraper.submit"
	report_scraper_result   = "scraper.latest-result"
	report_scraper_source   = "scraper.load-source"
)

// Scraper talks to the platform on behalf of a session. Every flow uses a
// fresh client, so nothing but the explicit session is shared between flows.
type Scraper struct {
	opts    Options
	limiter *rate.Limiter
	tel     telemetry.API
}

func NewScraper(opts Options, tel telemetry.API) (*Scraper, error) {
	assert.NotNil(tel)

	if opts.BaseUrl == "" {
		opts.BaseUrl = DEFAULT_BASE_URL
	}
	s := &Scraper{
		opts: opts,
		tel:  telemetry.NewScopedAPI("quera_scraper", tel),
	}
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	// fail early on a malformed base url
	_, err := s.newClient()
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scraper) newClient() (*client, error) {
	return newClient(s.opts, s.limiter, s.tel)
}

// sessionClient is a fresh client carrying the session cookie.
func (s *Scraper) sessionClient(sess Session) (*client, error) {
	c, err := s.newClient()
	if err != nil {
		return nil, err
	}
	c.AddCookie(SESSION_COOKIE, sess.Token)
	return c, nil
}

// broken reports a structural failure of the platform and marks the span.
func (s *Scraper) broken(span trace.Span, id string, err error, params ...any) error {
	s.tel.ReportBroken(id, append([]any{err}, params...)...)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// fetchPage GETs a page that only a logged in user can see.
func (s *Scraper) fetchPage(ctx context.Context, c *client, path string) (Outcome, error) {
	out, err := c.Get(ctx, path, nil)
	if err != nil {
		return Outcome{}, err
	}
	switch {
	case out.IsLoginRedirect():
		return Outcome{}, ErrAuthenticationRequired
	case out.Kind != OUTCOME_SUCCESS:
		return Outcome{}, &ParseError{
			Page:   path,
			Reason: fmt.Sprintf("unexpected %s with status %d", out.Kind, out.StatusCode),
		}
	}
	return out, nil
}
