package quera

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"queracli/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type submissionRow struct {
	id        string
	timestamp string
	fileType  string
	score     string
}

// latestSubmissionRow finds the submissions table (the only table with a
// four column header) and reads its first row. A page without the table
// means nothing was submitted yet.
func latestSubmissionRow(doc *goquery.Document, page string) (submissionRow, bool, error) {
	tables := doc.Find("table").FilterFunction(func(_ int, table *goquery.Selection) bool {
		return table.Find("thead > tr").First().Children().Filter("th").Length() == 4
	})
	switch tables.Length() {
	case 0:
		return submissionRow{}, false, nil
	case 1:
	default:
		return submissionRow{}, false, &ParseError{
			Page:   page,
			Reason: fmt.Sprintf("expected one submissions table, found %d", tables.Length()),
		}
	}

	row := tables.Find("tbody > tr").First()
	if row.Length() == 0 {
		return submissionRow{}, false, nil
	}
	id, ok := row.Attr("data-submission_id")
	if !ok || strings.TrimSpace(id) == "" {
		return submissionRow{}, false, &ParseError{
			Page:   page,
			Reason: "submission row has no data-submission_id",
		}
	}
	cells := row.ChildrenFiltered("td")
	if cells.Length() < 3 {
		return submissionRow{}, false, &ParseError{
			Page:   page,
			Reason: fmt.Sprintf("submission row has %d cells, expected at least 3", cells.Length()),
		}
	}

	return submissionRow{
		id:        strings.TrimSpace(id),
		timestamp: htmlutil.TrimmedText(cells.Eq(0)),
		fileType:  htmlutil.TrimmedText(cells.Eq(1)),
		score:     htmlutil.TrimmedText(cells.Eq(2)),
	}, true, nil
}

type detailResponse struct {
	Result *string `json:"result"`
}

// parseDetail reads the grading detail out of the json answer of the
// submission action, the detail itself is an html fragment.
func parseDetail(body []byte) (string, error) {
	var res detailResponse
	err := json.Unmarshal(body, &res)
	if err != nil {
		return "", &ParseError{Page: DETAIL_PATH, Reason: "invalid json", Err: err}
	}
	if res.Result == nil || *res.Result == "" {
		return "", &ParseError{Page: DETAIL_PATH, Reason: "empty result"}
	}
	text, err := htmlutil.StripTags(*res.Result)
	if err != nil {
		return "", &ParseError{Page: DETAIL_PATH, Reason: "invalid result markup", Err: err}
	}
	return strings.TrimSpace(text), nil
}

// FetchLatestResult returns the newest submission to a problem together with
// its grading detail. The bool is false when nothing was submitted yet.
func (s *Scraper) FetchLatestResult(ctx context.Context, sess Session, problemId string) (SubmissionResult, bool, error) {
	valid, err := s.IsValid(ctx, sess)
	if err != nil {
		return SubmissionResult{}, false, err
	}
	if !valid {
		return SubmissionResult{}, false, ErrAuthenticationRequired
	}

	ctx, span := tracer.Start(ctx, "scraper:FetchLatestResult")
	defer span.End()
	span.SetAttributes(attribute.String("problem.id", problemId))

	c, err := s.sessionClient(sess)
	if err != nil {
		return SubmissionResult{}, false, err
	}
	endpoint := submissionsPath(problemId)

	page, err := s.fetchPage(ctx, c, endpoint)
	if err != nil {
		return SubmissionResult{}, false, err
	}
	doc, err := page.Document()
	if err != nil {
		return SubmissionResult{}, false, s.broken(span, report_scraper_result, &ParseError{
			Page:   endpoint,
			Reason: "invalid html",
			Err:    err,
		})
	}
	row, found, err := latestSubmissionRow(doc, endpoint)
	if err != nil {
		return SubmissionResult{}, false, s.broken(span, report_scraper_result, err)
	}
	if !found {
		s.tel.ReportDebug(report_scraper_result, "no submissions", problemId)
		return SubmissionResult{}, false, nil
	}
	span.SetAttributes(attribute.String("submission.id", row.id))

	detail, err := s.fetchDetail(ctx, span, sess, problemId, row.id)
	if err != nil {
		return SubmissionResult{}, false, err
	}

	return SubmissionResult{
		SubmissionId: row.id,
		Timestamp:    row.timestamp,
		FileType:     row.fileType,
		Score:        normalizeScore(row.score),
		Detail:       detail,
	}, true, nil
}

// fetchDetail asks the submission action endpoint for the grading output of
// a submission. The csrf token is taken from a fresh copy of the problem page.
func (s *Scraper) fetchDetail(ctx context.Context, span trace.Span, sess Session, problemId, submissionId string) (string, error) {
	c, err := s.sessionClient(sess)
	if err != nil {
		return "", err
	}
	problem := problemPath(problemId)

	page, err := s.fetchPage(ctx, c, problem)
	if err != nil {
		return "", err
	}
	csrf, err := CsrfFromHeader(page.Header, CSRF_COOKIE, problem)
	if err != nil {
		return "", s.broken(span, report_scraper_result, err)
	}
	c.AddCookie(csrf.CookieName, csrf.CookieValue)

	form := url.Values{}
	form.Set("action", DETAIL_ACTION)
	form.Set("submission_id", submissionId)
	res, err := c.PostForm(ctx, DETAIL_PATH, form, map[string]string{
		CSRF_HEADER: csrf.CookieValue,
		"Referer":   c.absolute(submissionsPath(problemId)),
		"Origin":    c.origin(),
	})
	if err != nil {
		return "", err
	}
	switch {
	case res.IsLoginRedirect():
		return "", ErrAuthenticationRequired
	case res.Kind != OUTCOME_SUCCESS:
		return "", s.broken(span, report_scraper_result, &SubmissionError{
			Endpoint:   DETAIL_PATH,
			StatusCode: res.StatusCode,
		})
	}

	detail, err := parseDetail(res.Body)
	if err != nil {
		return "", s.broken(span, report_scraper_result, err, submissionId)
	}
	return detail, nil
}
