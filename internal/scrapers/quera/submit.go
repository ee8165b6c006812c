package quera

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// DEFAULT_SOURCE_NAME is used when a remote source has no file name.
const DEFAULT_SOURCE_NAME = "solution"

func isRemote(location string) (*url.URL, bool) {
	parsed, err := url.Parse(location)
	if err != nil {
		return nil, false
	}
	return parsed, parsed.Scheme == "http" || parsed.Scheme == "https"
}

// sourceNameFromUrl derives a file name from the last segment of the url path.
func sourceNameFromUrl(u *url.URL) string {
	if u.Path == "" || strings.HasSuffix(u.Path, "/") {
		return ""
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// LoadSource reads a solution from a local path or downloads it from an
// http(s) url.
func (s *Scraper) LoadSource(ctx context.Context, location string) (Source, error) {
	remote, ok := isRemote(location)
	if !ok {
		content, err := os.ReadFile(location)
		if err != nil {
			return Source{}, fmt.Errorf("read source: %w", err)
		}
		return Source{Name: filepath.Base(location), Content: content}, nil
	}

	name := sourceNameFromUrl(remote)
	if name == "" {
		s.tel.ReportWarning(
			report_scraper_source,
			"could not derive a file name from the url, using default",
			location,
			DEFAULT_SOURCE_NAME,
		)
		name = DEFAULT_SOURCE_NAME
	}

	res, err := newRestyClient(s.opts, s.limiter, s.tel).
		R().
		SetContext(ctx).
		Get(location)
	if err != nil {
		return Source{}, &NetworkError{Op: fmt.Sprintf("download %s", location), Err: err}
	}
	if !res.IsSuccess() {
		return Source{}, fmt.Errorf("download %s: status %d", location, res.StatusCode())
	}
	return Source{Name: name, Content: res.Body()}, nil
}

// Submit posts a solution to a problem. The problem page is fetched first
// for its csrf token, hidden fields and the file types it accepts.
func (s *Scraper) Submit(ctx context.Context, sess Session, req SubmitRequest) (SubmitResponse, error) {
	valid, err := s.IsValid(ctx, sess)
	if err != nil {
		return SubmitResponse{}, err
	}
	if !valid {
		return SubmitResponse{}, ErrAuthenticationRequired
	}

	ctx, span := tracer.Start(ctx, "scraper:Submit")
	defer span.End()
	span.SetAttributes(attribute.String("problem.id", req.ProblemId))

	c, err := s.sessionClient(sess)
	if err != nil {
		return SubmitResponse{}, err
	}
	endpoint := problemPath(req.ProblemId)

	page, err := s.fetchPage(ctx, c, endpoint)
	if err != nil {
		return SubmitResponse{}, err
	}
	csrf, err := CsrfFromHeader(page.Header, CSRF_COOKIE, endpoint)
	if err != nil {
		return SubmitResponse{}, s.broken(span, report_scraper_submit, err)
	}
	doc, err := page.Document()
	if err != nil {
		return SubmitResponse{}, s.broken(span, report_scraper_submit, &ParseError{
			Page:   endpoint,
			Reason: "invalid html",
			Err:    err,
		})
	}
	fields, err := FormDefaults(doc, SUBMIT_FORM_ID, endpoint)
	if err != nil {
		return SubmitResponse{}, s.broken(span, report_scraper_submit, err)
	}
	catalog, err := FileTypesFromDocument(doc, endpoint)
	if err != nil {
		return SubmitResponse{}, s.broken(span, report_scraper_submit, err)
	}

	fileType, err := ResolveFileType(catalog, req.FileType, req.Source.Name)
	if err != nil {
		return SubmitResponse{}, err
	}
	span.SetAttributes(attribute.String("submission.file_type", fileType.ServerCode))

	values := FormSnapshot{Fields: fields, Csrf: csrf}.Values()
	values.Set(FILE_TYPE_FIELD, fileType.ServerCode)

	c.AddCookie(csrf.CookieName, csrf.CookieValue)
	res, err := c.PostMultipart(ctx, endpoint, values, FILE_FIELD, req.Source, map[string]string{
		"Referer": c.absolute(endpoint),
		"Origin":  c.origin(),
	})
	if err != nil {
		return SubmitResponse{}, err
	}
	if res.Kind == OUTCOME_FAILURE {
		return SubmitResponse{}, s.broken(span, report_scraper_submit, &SubmissionError{
			Endpoint:   endpoint,
			StatusCode: res.StatusCode,
		})
	}

	return SubmitResponse{
		ProblemId: req.ProblemId,
		FileName:  req.Source.Name,
		FileType:  fileType,
		Location:  res.Location,
	}, nil
}
