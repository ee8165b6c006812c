package quera

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"queracli/internal/components/telemetry"

	"github.com/mazen160/go-random"
)

const loginPageHtml = `<html><body>
<form method="post" action="/accounts/login">
	<input type="hidden" name="next" value="/dashboard/">
	<input type="text" name="login">
	<input type="password" name="password">
	<input type="submit" value="Log in">
</form>
</body></html>`

const problemPageHtml = `<html><body>
<form id="search"><input name="q" value=""></form>
<form id="submit-form" method="post" enctype="multipart/form-data">
	<input type="hidden" name="csrfmiddlewaretoken" value="form-token">
	<input type="hidden" name="assignment" value="7">
	<input type="file" name="file">
	<select name="file_type">
		<option value="">---------</option>
		<option value="1">C</option>
		<option value="2">C++</option>
		<option value="5">Java</option>
		<option value="9">Python 3.8</option>
		<option value="12">Go</option>
	</select>
</form>
</body></html>`

const submissionsPageHtml = `<html><body>
<table class="stats"><thead><tr><th>a</th><th>b</th></tr></thead></table>
<table>
	<thead><tr><th>Time</th><th>Language</th><th>Score</th><th></th></tr></thead>
	<tbody>
		<tr data-submission_id="42">
			<td> 1402/01/01 10:00 </td>
			<td>Python 3.8</td>
			<td>خطای کامپایل</td>
			<td><a href="#">detail</a></td>
		</tr>
		<tr data-submission_id="41">
			<td>1401/12/29 09:00</td>
			<td>Python 3.8</td>
			<td>100</td>
			<td></td>
		</tr>
	</tbody>
</table>
</body></html>`

const emptySubmissionsPageHtml = `<html><body>
<p>You have not submitted anything yet.</p>
<table class="stats"><thead><tr><th>a</th><th>b</th></tr></thead></table>
</body></html>`

type submission struct {
	fileName string
	content  string
	fields   map[string][]string
}

// fakeQuera serves just enough of the site for the scraper flows. Pages that
// need a login redirect to the login page unless the session cookie matches.
type fakeQuera struct {
	t      testing.TB
	server *httptest.Server

	username string
	password string
	session  string
	csrf     string

	noCsrf          bool
	submissionsHtml string
	detailBody      string
	profileStatus   int

	mutex       sync.Mutex
	counts      map[string]int
	headers     map[string]http.Header
	submissions []submission
	detailForms []map[string][]string
	loggedOut   bool
}

func randomToken(t testing.TB) string {
	token, err := random.String(24)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func newFakeQuera(t testing.TB) *fakeQuera {
	f := &fakeQuera{
		t:               t,
		username:        "alice",
		password:        "hunter2",
		csrf:            randomToken(t),
		submissionsHtml: submissionsPageHtml,
		detailBody:      `{"result": "<pre>Test 1\nACCEPTED\nTest 2\nWRONG ANSWER</pre>"}`,
		counts:          map[string]int{},
		headers:         map[string]http.Header{},
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeQuera) scraper(t testing.TB, tel telemetry.API) *Scraper {
	s, err := NewScraper(Options{BaseUrl: f.server.URL}, tel)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func (f *fakeQuera) count(method, path string) int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.counts[method+" "+path]
}

// header returns the headers of the last request to the path.
func (f *fakeQuera) header(method, path string) http.Header {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.headers[method+" "+path]
}

func (f *fakeQuera) total(method string) int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	n := 0
	for key, c := range f.counts {
		if strings.HasPrefix(key, method+" ") {
			n += c
		}
	}
	return n
}

func (f *fakeQuera) authorized(r *http.Request) bool {
	cookie, err := r.Cookie(SESSION_COOKIE)
	return err == nil && f.session != "" && cookie.Value == f.session
}

func (f *fakeQuera) csrfMatches(r *http.Request) bool {
	cookie, err := r.Cookie(CSRF_COOKIE)
	return err == nil && cookie.Value == f.csrf
}

func (f *fakeQuera) setCsrf(w http.ResponseWriter) {
	if f.noCsrf {
		return
	}
	http.SetCookie(w, &http.Cookie{Name: CSRF_COOKIE, Value: f.csrf, Path: "/"})
}

func (f *fakeQuera) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Location", LOGIN_PATH+"?next="+r.URL.Path)
	w.WriteHeader(http.StatusFound)
}

func (f *fakeQuera) serve(w http.ResponseWriter, r *http.Request) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.counts[r.Method+" "+r.URL.Path]++
	f.headers[r.Method+" "+r.URL.Path] = r.Header.Clone()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == PROFILE_PATH:
		if f.profileStatus != 0 {
			w.WriteHeader(f.profileStatus)
			return
		}
		if !f.authorized(r) {
			f.redirectToLogin(w, r)
			return
		}
		fmt.Fprint(w, "<html><body>profile</body></html>")

	case r.Method == http.MethodGet && r.URL.Path == LOGIN_PATH:
		f.setCsrf(w)
		fmt.Fprint(w, loginPageHtml)

	case r.Method == http.MethodPost && r.URL.Path == LOGIN_PATH:
		if !f.csrfMatches(r) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if r.FormValue("next") != "/dashboard/" ||
			r.FormValue(LOGIN_USERNAME_FIELD) != f.username ||
			r.FormValue(LOGIN_PASSWORD_FIELD) != f.password {
			fmt.Fprint(w, loginPageHtml)
			return
		}
		f.session = randomToken(f.t)
		http.SetCookie(w, &http.Cookie{Name: SESSION_COOKIE, Value: f.session, Path: "/"})
		w.Header().Set("Location", "/dashboard/")
		w.WriteHeader(http.StatusFound)

	case r.Method == http.MethodGet && r.URL.Path == SETTINGS_PATH:
		if !f.authorized(r) {
			f.redirectToLogin(w, r)
			return
		}
		f.setCsrf(w)
		fmt.Fprint(w, "<html><body>settings</body></html>")

	case r.Method == http.MethodPost && r.URL.Path == LOGOUT_PATH:
		if !f.csrfMatches(r) || r.FormValue(LOGOUT_CSRF_FIELD) != f.csrf {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		f.session = ""
		f.loggedOut = true
		w.Header().Set("Location", "/")
		w.WriteHeader(http.StatusFound)

	case r.URL.Path == DETAIL_PATH && r.Method == http.MethodPost:
		if !f.authorized(r) {
			f.redirectToLogin(w, r)
			return
		}
		if !f.csrfMatches(r) || r.Header.Get(CSRF_HEADER) != f.csrf {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		err := r.ParseForm()
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.detailForms = append(f.detailForms, r.PostForm)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, f.detailBody)

	case strings.HasPrefix(r.URL.Path, "/problemset/") && strings.HasSuffix(r.URL.Path, "/submissions/"):
		if !f.authorized(r) {
			f.redirectToLogin(w, r)
			return
		}
		fmt.Fprint(w, f.submissionsHtml)

	case strings.HasPrefix(r.URL.Path, "/problemset/") && r.Method == http.MethodGet:
		if !f.authorized(r) {
			f.redirectToLogin(w, r)
			return
		}
		f.setCsrf(w)
		fmt.Fprint(w, problemPageHtml)

	case strings.HasPrefix(r.URL.Path, "/problemset/") && r.Method == http.MethodPost:
		if !f.authorized(r) {
			f.redirectToLogin(w, r)
			return
		}
		if !f.csrfMatches(r) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		f.receiveSubmission(w, r)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeQuera) receiveSubmission(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(1 << 20)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile(FILE_FIELD)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.submissions = append(f.submissions, submission{
		fileName: header.Filename,
		content:  string(content),
		fields:   r.MultipartForm.Value,
	})
	w.Header().Set("Location", strings.TrimSuffix(r.URL.Path, "/")+"/submissions/")
	w.WriteHeader(http.StatusFound)
}

func detailJson(t testing.TB, result string) string {
	out, err := json.Marshal(map[string]string{"result": result})
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}
