package quera

import (
	"net/url"
	"strings"
)

// Session is the opaque token that identifies a logged in user.
type Session struct {
	Token string
}

func (s Session) Empty() bool {
	return s.Token == ""
}

// CsrfToken is the anti-forgery cookie issued with a single page, it is
// never persisted.
type CsrfToken struct {
	CookieName  string
	CookieValue string
}

type FormField struct {
	Name  string
	Value string
}

// FormSnapshot holds the default values of a form together with the csrf
// token that was active when the page was fetched.
type FormSnapshot struct {
	Fields []FormField
	Csrf   CsrfToken
}

// Values returns the fields in document order, duplicate names are kept.
func (f FormSnapshot) Values() url.Values {
	values := url.Values{}
	for _, field := range f.Fields {
		values.Add(field.Name, field.Value)
	}
	return values
}

// Source is the solution being submitted.
type Source struct {
	Name    string
	Content []byte
}

type SubmitRequest struct {
	ProblemId string
	Source    Source
	// FileType is the display name chosen by the user, when empty it is
	// inferred from the extension of Source.Name.
	FileType string
}

type SubmitResponse struct {
	ProblemId string
	FileName  string
	FileType  FileType
	// Location is where the platform redirected after accepting the
	// submission, empty when it answered directly.
	Location string
}

type SubmissionResult struct {
	SubmissionId string
	Timestamp    string
	FileType     string
	// Score is the raw score text, a localized compile error is replaced
	// with COMPILE_ERROR.
	Score  string
	Detail string
}

type Line struct {
	Text    string
	Verdict Verdict
}

// Lines splits the grading detail and tags every line with its verdict.
func (r SubmissionResult) Lines() []Line {
	if r.Detail == "" {
		return nil
	}
	split := strings.Split(r.Detail, "\n")
	lines := make([]Line, len(split))
	for i, text := range split {
		lines[i] = Line{Text: text, Verdict: ClassifyLine(text)}
	}
	return lines
}
