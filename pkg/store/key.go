package store

import (
	"net/http"
	"net/url"
	"strings"
)

// Key represents the request identity used to address a cached snapshot.
type Key struct {
	// Method is the HTTP method (GET for everything the gateway admits).
	Method string

	// URL is the normalized absolute request URL.
	URL string
}

// ForRequest builds a Key from an HTTP request.
// The URL is normalized so that equivalent requests map to the same entry.
func ForRequest(req *http.Request) Key {
	return Key{
		Method: strings.ToUpper(req.Method),
		URL:    NormalizeURL(req.URL),
	}
}

// NormalizeURL produces a deterministic string form of a URL:
// the fragment is dropped and query parameters are sorted by name.
func NormalizeURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	norm := *u
	norm.Fragment = ""
	norm.RawFragment = ""

	// url.Values.Encode sorts by key, which makes
	// ?b=2&a=1 and ?a=1&b=2 the same identity.
	if norm.RawQuery != "" {
		norm.RawQuery = norm.Query().Encode()
	}

	return norm.String()
}

// String generates the storage key string.
// Format: METHOD:url
//
// Example:
//
//	GET:https://eternadata.io/assets/css/style.css
func (k Key) String() string {
	return k.Method + ":" + k.URL
}
