// Package route maps between poem ids and the deep links that name them:
// "?id=<id>" query parameters and "#poema/<id>" fragments.
package route

import (
	"net/url"
	"strings"
)

// FragmentPrefix starts a fragment deep link
const FragmentPrefix = "#poema/"

// ListLocation is the location of the list view
const ListLocation = "/"

// ParseDeepLink extracts a poem id from s, which may be a full URL, a
// bare "?id=..." query, a "#poema/..." fragment or a plain id. The query
// parameter wins over the fragment.
func ParseDeepLink(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if !strings.ContainsAny(s, "?#") {
		return s, true
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", false
	}
	if id := u.Query().Get("id"); id != "" {
		return id, true
	}
	if frag := "#" + u.Fragment; strings.HasPrefix(frag, FragmentPrefix) {
		if id := strings.TrimPrefix(frag, FragmentPrefix); id != "" {
			return id, true
		}
	}
	return "", false
}

// Query returns the "?id=<id>" form used as the current location of an open poem
func Query(id string) string {
	return "?id=" + url.QueryEscape(id)
}

// Fragment returns the "#poema/<id>" form
func Fragment(id string) string {
	return FragmentPrefix + id
}

// Link returns an absolute deep link for id under base. base's own query
// and fragment are replaced.
func Link(base, id string) string {
	u, err := url.Parse(base)
	if err != nil || base == "" {
		return Query(id)
	}
	u.RawQuery = url.Values{"id": []string{id}}.Encode()
	u.Fragment = ""
	return u.String()
}
