package quera

import "fmt"

const DEFAULT_BASE_URL = "https://quera.org"

const (
	SESSION_COOKIE = "session_id"
	CSRF_COOKIE    = "csrf_token"

	PROFILE_PATH  = "/profile/"
	LOGIN_PATH    = "/accounts/login"
	LOGOUT_PATH   = "/accounts/logout"
	SETTINGS_PATH = "/accounts/settings/personal/"
	DETAIL_PATH   = "/assignment/submission_action"
)

const (
	LOGIN_USERNAME_FIELD = "login"
	LOGIN_PASSWORD_FIELD = "password"
	LOGOUT_CSRF_FIELD    = "csrfmiddlewaretoken"

	SUBMIT_FORM_ID   = "submit-form"
	FILE_FIELD       = "file"
	FILE_TYPE_FIELD  = "file_type"
	CSRF_HEADER      = "X-CSRFToken"
	DETAIL_ACTION    = "get_result"
	COMPILE_ERROR_FA = "خطای کامپایل"
	COMPILE_ERROR    = "Compile Error"
)

// the headers of a desktop firefox, sent on every request
var defaultHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:105.0) Gecko/20100101 Firefox/105.0",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"Dnt":                       "1",
	"Upgrade-Insecure-Requests": "1",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"Sec-Fetch-User":            "?1",
}

func problemPath(problemId string) string {
	return fmt.Sprintf("/problemset/%s/", problemId)
}

func submissionsPath(problemId string) string {
	return fmt.Sprintf("/problemset/%s/submissions/", problemId)
}
