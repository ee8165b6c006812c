package quera

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"queracli/internal/components/telemetry"
	"queracli/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

type OutcomeKind int

const (
	OUTCOME_SUCCESS OutcomeKind = iota
	OUTCOME_REDIRECT
	OUTCOME_FAILURE
)

func (k OutcomeKind) String() string {
	switch k {
	case OUTCOME_SUCCESS:
		return "success"
	case OUTCOME_REDIRECT:
		return "redirect"
	default:
		return "failure"
	}
}

// Outcome is the result of a single request. Redirects are never followed,
// a redirect is reported with its target instead.
type Outcome struct {
	Kind       OutcomeKind
	StatusCode int
	Location   string
	Header     http.Header
	Body       []byte
}

func outcomeFromResponse(res *resty.Response) Outcome {
	out := Outcome{
		StatusCode: res.StatusCode(),
		Header:     res.Header(),
		Body:       res.Body(),
	}
	switch {
	case out.StatusCode >= 200 && out.StatusCode < 300:
		out.Kind = OUTCOME_SUCCESS
	case out.StatusCode >= 300 && out.StatusCode < 400:
		out.Kind = OUTCOME_REDIRECT
		out.Location = out.Header.Get("Location")
	default:
		out.Kind = OUTCOME_FAILURE
	}
	return out
}

// IsLoginRedirect reports whether the outcome sends the user to the login page.
func (o Outcome) IsLoginRedirect() bool {
	return o.Kind == OUTCOME_REDIRECT && strings.Contains(o.Location, LOGIN_PATH)
}

func (o Outcome) Document() (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(o.Body))
}

const defaultTimeout = time.Second * 30

type Options struct {
	BaseUrl string
	// Timeout bounds every single request, zero means 30 seconds.
	Timeout time.Duration
	// RequestsPerSecond paces requests to the platform, zero disables pacing.
	RequestsPerSecond float64
	CloudflareBypass  bool
	// HttpOutput receives every request/response message when non-nil.
	HttpOutput restyutil.InstrumentOutput
}

// client sends a fixed set of browser headers and the cookies added to it,
// it keeps no other state between requests.
type client struct {
	http    *resty.Client
	baseUrl *url.URL
	// most recently added first
	cookies []*http.Cookie
}

// newRestyClient builds the http client shared by every request to the
// platform and by source downloads: paced, timed out and instrumented.
func newRestyClient(opts Options, limiter *rate.Limiter, tel telemetry.API) *resty.Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	httpClient := resty.New()
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	httpClient.SetTimeout(timeout)

	if limiter != nil {
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, tel, opts.HttpOutput)
	return httpClient
}

func newClient(opts Options, limiter *rate.Limiter, tel telemetry.API) (*client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if baseUrl.Scheme == "" || baseUrl.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", opts.BaseUrl)
	}

	httpClient := newRestyClient(opts, limiter, tel)
	httpClient.SetBaseURL(opts.BaseUrl)
	// cookies are attached explicitly through AddCookie
	httpClient.SetCookieJar(nil)
	httpClient.SetHeaders(defaultHeaders)
	httpClient.SetRedirectPolicy(resty.RedirectPolicyFunc(
		func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	))

	return &client{
		http:    httpClient,
		baseUrl: baseUrl,
	}, nil
}

// AddCookie attaches a cookie to every following request. Earlier cookies
// are kept, including ones with the same name.
func (c *client) AddCookie(name, value string) {
	c.cookies = append([]*http.Cookie{{Name: name, Value: value}}, c.cookies...)
}

func (c *client) cookieHeader() string {
	parts := make([]string, len(c.cookies))
	for i, cookie := range c.cookies {
		parts[i] = cookie.String()
	}
	return strings.Join(parts, "; ")
}

// absolute resolves a path against the base url, for Referer headers.
func (c *client) absolute(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return c.baseUrl.String()
	}
	return c.baseUrl.ResolveReference(ref).String()
}

func (c *client) origin() string {
	return fmt.Sprintf("%s://%s", c.baseUrl.Scheme, c.baseUrl.Host)
}

func (c *client) request(ctx context.Context, headers map[string]string) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if len(c.cookies) > 0 {
		req.SetHeader("Cookie", c.cookieHeader())
	}
	for k, v := range headers {
		req.SetHeader(k, v)
	}
	return req
}

func (c *client) execute(req *resty.Request, method, path string) (Outcome, error) {
	res, err := req.Execute(method, path)
	if err != nil {
		return Outcome{}, &NetworkError{
			Op:  fmt.Sprintf("%s %s", method, path),
			Err: err,
		}
	}
	if res.RawResponse == nil {
		return Outcome{}, &NetworkError{
			Op:  fmt.Sprintf("%s %s", method, path),
			Err: errors.New("no response"),
		}
	}
	return outcomeFromResponse(res), nil
}

func (c *client) Get(ctx context.Context, path string, headers map[string]string) (Outcome, error) {
	return c.execute(c.request(ctx, headers), resty.MethodGet, path)
}

// PostForm posts an application/x-www-form-urlencoded body.
func (c *client) PostForm(ctx context.Context, path string, form url.Values, headers map[string]string) (Outcome, error) {
	req := c.request(ctx, headers).SetFormDataFromValues(form)
	return c.execute(req, resty.MethodPost, path)
}

// PostMultipart posts a multipart/form-data body holding `fields` and a
// single file under `fileField`.
func (c *client) PostMultipart(
	ctx context.Context,
	path string,
	fields url.Values,
	fileField string,
	source Source,
	headers map[string]string,
) (Outcome, error) {
	req := c.request(ctx, headers).
		SetFormDataFromValues(fields).
		SetFileReader(fileField, source.Name, bytes.NewReader(source.Content))
	return c.execute(req, resty.MethodPost, path)
}
