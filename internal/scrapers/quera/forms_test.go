package quera

import (
	"net/http"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func parseHtml(t testing.TB, src string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestCsrfFromHeader(t *testing.T) {
	header := http.Header{}
	header.Add("Set-Cookie", "other=1; Path=/")
	header.Add("Set-Cookie", "csrf_token=abc123; Path=/; SameSite=Lax")

	token, err := CsrfFromHeader(header, CSRF_COOKIE, "/page")
	require.NoError(t, err)
	require.Equal(t, CsrfToken{CookieName: CSRF_COOKIE, CookieValue: "abc123"}, token)

	empty := http.Header{}
	empty.Add("Set-Cookie", "csrf_token=; Path=/")
	_, err = CsrfFromHeader(empty, CSRF_COOKIE, "/page")
	var csrfErr *CsrfNotFoundError
	require.ErrorAs(t, err, &csrfErr)

	_, err = CsrfFromHeader(http.Header{}, CSRF_COOKIE, "/page")
	require.ErrorAs(t, err, &csrfErr)
}

func TestFormDefaults(t *testing.T) {
	doc := parseHtml(t, problemPageHtml)

	fields, err := FormDefaults(doc, SUBMIT_FORM_ID, "/problemset/1/")
	require.NoError(t, err)
	diff := cmp.Diff([]FormField{
		{Name: "csrfmiddlewaretoken", Value: "form-token"},
		{Name: "assignment", Value: "7"},
	}, fields)
	if diff != "" {
		t.Fatal(diff)
	}

	// two forms and no id
	_, err = FormDefaults(doc, "", "/problemset/1/")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)

	_, err = FormDefaults(doc, "missing", "/problemset/1/")
	require.ErrorAs(t, err, &parseErr)

	login, err := FormDefaults(parseHtml(t, loginPageHtml), "", LOGIN_PATH)
	require.NoError(t, err)
	diff = cmp.Diff([]FormField{{Name: "next", Value: "/dashboard/"}}, login)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestFormDefaultsDuplicateId(t *testing.T) {
	doc := parseHtml(t, `<form id="a"><input name="x" value="1"></form><form id="a"></form>`)
	_, err := FormDefaults(doc, "a", "/")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestFormSnapshotValues(t *testing.T) {
	snapshot := FormSnapshot{
		Fields: []FormField{
			{Name: "a", Value: "1"},
			{Name: "b", Value: ""},
			{Name: "a", Value: "2"},
		},
	}
	values := snapshot.Values()
	require.Equal(t, []string{"1", "2"}, values["a"])
	require.Equal(t, []string{""}, values["b"])
}

func TestFileTypesFromDocument(t *testing.T) {
	catalog, err := FileTypesFromDocument(parseHtml(t, problemPageHtml), "/problemset/1/")
	require.NoError(t, err)
	require.Equal(t, []string{"C", "C++", "Java", "Python 3.8", "Go"}, catalog.DisplayNames())

	_, err = FileTypesFromDocument(parseHtml(t, loginPageHtml), LOGIN_PATH)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}
