package restyutil

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
)

func formatHeaders(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out strings.Builder
	for _, k := range keys {
		for _, v := range headers[k] {
			out.WriteString(fmt.Sprintf("%s: %s\n", k, v))
		}
	}
	return strings.TrimSuffix(out.String(), "\n")
}

func formatRequestBody(req *http.Request) string {
	if req == nil || req.GetBody == nil {
		return "<NO BODY AVAILABLE>"
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("failed to get request body: %s", err.Error())
	}
	if body == nil {
		return "<NO BODY AVAILABLE>"
	}
	readBody, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("failed to read request body: %s", err.Error())
	}
	return string(readBody)
}

// 1: request method
// 2: request url
// 3: request headers in ("Key: Value" format)
// 4: request body
// 5: response status
// 6: response url (the Location header when the response is a redirect)
// 7: response headers in ("Key: Value" format)
// 8: response body
const messageInfoTemplate = `---- REQUEST ----

%s %s

%s

%s

---- RESPONSE ----

%s %s

%s

%s`

// FormatMessage renders a full request/response exchange as plain text.
func FormatMessage(res *resty.Response) string {
	var requestHeaders string
	if res.Request.RawRequest != nil {
		requestHeaders = formatHeaders(res.Request.RawRequest.Header)
	}
	responseHeaders := formatHeaders(res.Header())

	responseUrl := res.Request.URL
	if res.RawResponse != nil {
		redirected, err := res.RawResponse.Location()
		if err == nil {
			responseUrl = redirected.String()
		}
	}

	return fmt.Sprintf(
		messageInfoTemplate,

		res.Request.Method, res.Request.URL,
		requestHeaders,
		formatRequestBody(res.Request.RawRequest),

		strconv.Itoa(res.StatusCode()), responseUrl,
		responseHeaders,
		res.String(),
	)
}
