// Package urlbuilder assembles outbound redirect URLs without disturbing
// the query parameters already present on the base URL.
package urlbuilder

import (
	"errors"
	"net/url"
	"strings"
)

// ErrMalformedURL indicates a base URL that cannot be parsed or is not an
// absolute http(s) URL
var ErrMalformedURL = errors.New("malformed url")

// Param is one query parameter to append, in append order
type Param struct {
	Key   string
	Value string
}

// Validate checks that raw parses as an absolute http or https URL with a
// host. Stored survey and vendor URLs pass through this gate before any
// redirect is issued from them.
func Validate(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return ErrMalformedURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrMalformedURL
	}
	if u.Host == "" {
		return ErrMalformedURL
	}
	return nil
}

// Build appends params to base, keeping the base URL's existing query
// string byte-for-byte intact. url.Values is deliberately avoided because
// its encoder sorts keys; panel platforms are sensitive to parameter
// order. A fragment on the base URL stays at the end.
func Build(base string, params []Param) (string, error) {
	if err := Validate(base); err != nil {
		return "", err
	}
	if len(params) == 0 {
		return base, nil
	}

	head := base
	fragment := ""
	if i := strings.Index(base, "#"); i >= 0 {
		head = base[:i]
		fragment = base[i:]
	}

	var b strings.Builder
	b.WriteString(head)

	sep := "?"
	if strings.Contains(head, "?") {
		sep = "&"
	}
	for _, p := range params {
		b.WriteString(sep)
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteString("=")
		b.WriteString(url.QueryEscape(p.Value))
		sep = "&"
	}

	b.WriteString(fragment)
	return b.String(), nil
}

// SubstitutePlaceholder replaces the first occurrence of {{token}} in s
// with value. The value is inserted verbatim, with no escaping: the
// respondent id must reach the vendor byte for byte as it arrived at
// entry, since it is the key the vendor reconciles payment against.
func SubstitutePlaceholder(s, token, value string) string {
	placeholder := "{{" + token + "}}"
	return strings.Replace(s, placeholder, value, 1)
}
