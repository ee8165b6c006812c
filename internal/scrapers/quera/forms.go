package quera

import (
	"fmt"
	"net/http"

	"queracli/lib/htmlutil"
	"queracli/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// readSetCookie finds a cookie set by the response, cookies set to an empty
// value are treated as absent.
func readSetCookie(header http.Header, name string) (*http.Cookie, bool) {
	res := http.Response{Header: header}
	for _, cookie := range res.Cookies() {
		if cookie.Name == name && cookie.Value != "" {
			return cookie, true
		}
	}
	return nil, false
}

// CsrfFromHeader extracts the csrf cookie named `cookieName` from the
// Set-Cookie headers of a page.
func CsrfFromHeader(header http.Header, cookieName, page string) (CsrfToken, error) {
	cookie, ok := readSetCookie(header, cookieName)
	if !ok {
		return CsrfToken{}, &CsrfNotFoundError{Page: page}
	}
	return CsrfToken{CookieName: cookie.Name, CookieValue: cookie.Value}, nil
}

// FormDefaults returns the default values of the inputs of a form. When
// formId is empty the document must contain exactly one form, otherwise
// exactly one form with that id. Inputs without both a name and a value
// are skipped.
func FormDefaults(doc *goquery.Document, formId, page string) ([]FormField, error) {
	forms := doc.Find("form")
	if formId != "" {
		forms = forms.FilterFunction(func(_ int, s *goquery.Selection) bool {
			id, ok := s.Attr("id")
			return ok && id == formId
		})
	}
	if forms.Length() != 1 {
		reason := fmt.Sprintf("expected exactly one form, found %d", forms.Length())
		if formId != "" {
			reason = fmt.Sprintf("expected exactly one form with id %q, found %d", formId, forms.Length())
		}
		return nil, &ParseError{Page: page, Reason: reason}
	}

	fields := []FormField{}
	forms.Find("input").Each(func(_ int, input *goquery.Selection) {
		name, hasName := input.Attr("name")
		value, hasValue := input.Attr("value")
		if !hasName || !hasValue {
			return
		}
		fields = append(fields, FormField{Name: name, Value: value})
	})
	return fields, nil
}

// FileTypesFromDocument reads the options of the file type select.
func FileTypesFromDocument(doc *goquery.Document, page string) (FileTypeCatalog, error) {
	selects := doc.Find(fmt.Sprintf(`select[name="%s"]`, FILE_TYPE_FIELD))
	if selects.Length() != 1 {
		return nil, &ParseError{
			Page:   page,
			Reason: fmt.Sprintf("expected exactly one file type select, found %d", selects.Length()),
		}
	}

	var catalog FileTypeCatalog
	selects.Find("option").Each(func(_ int, option *goquery.Selection) {
		code, ok := option.Attr("value")
		if !ok || code == "" {
			return
		}
		display := htmlutil.TrimmedText(option)
		catalog = append(catalog, FileType{
			Key:         textutil.NormalizeName(display),
			DisplayName: display,
			ServerCode:  code,
		})
	})
	if len(catalog) == 0 {
		return nil, &ParseError{Page: page, Reason: "file type select has no options"}
	}
	return catalog, nil
}
