package gateway

import (
	"net/http"
)

// Transport adapts the gateway to http.RoundTripper. It is the host-side
// interception hook: admitted requests flow through the gateway once it is
// active, everything else goes to the base transport untouched.
type Transport struct {
	// Gateway handles admitted requests.
	Gateway *Gateway

	// Base serves pass-through traffic. Defaults to http.DefaultTransport.
	Base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	// Before activation completes the gateway has not claimed traffic.
	if t.Gateway == nil || t.Gateway.Phase() != PhaseActive || !t.Gateway.Admits(req) {
		passthroughTotal.Inc()
		return base.RoundTrip(req)
	}

	return t.Gateway.HandleFetch(req.Context(), req), nil
}
