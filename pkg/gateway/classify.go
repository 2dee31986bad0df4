package gateway

import (
	"net/http"
	"strings"
)

// IsDocument reports whether a request targets a navigable document.
// Documents dispatch to the network-first strategy, everything else
// (scripts, styles, images, fonts, fetch calls) to cache-first.
//
// The Sec-Fetch-Dest header is authoritative when present; without it
// the Accept header decides.
func IsDocument(req *http.Request) bool {
	if dest := req.Header.Get("Sec-Fetch-Dest"); dest != "" {
		return dest == "document"
	}

	return strings.Contains(req.Header.Get("Accept"), "text/html")
}
