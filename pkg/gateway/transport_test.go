package gateway

import (
	"context"
	"net/http"
	"testing"

	"github.com/eternadata/offline-gateway/internal/testutil"
)

// countingTripper counts base-transport round trips.
type countingTripper struct {
	inner http.RoundTripper
	calls int
}

func (c *countingTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls++
	return c.inner.RoundTrip(req)
}

func TestTransport_PassthroughBeforeActive(t *testing.T) {
	origin := testutil.NewMockOrigin()
	defer origin.Close()
	ms := testutil.NewMemStore(testVersion)

	gw := newGateway(t, ms, origin, Config{})
	if err := gw.Install(context.Background()); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	base := &countingTripper{inner: http.DefaultTransport}
	client := &http.Client{Transport: &Transport{Gateway: gw, Base: base}}

	resp, err := client.Get(origin.URL() + "/page")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	resp.Body.Close()

	// The gateway has not claimed traffic yet.
	if base.calls != 1 {
		t.Errorf("Base transport calls = %d, want 1", base.calls)
	}
}

func TestTransport_RoutesAdmittedRequests(t *testing.T) {
	origin := testutil.NewMockOrigin()
	defer origin.Close()
	origin.SetResponse("/app.js", testutil.NewAssetResponse("cached", "text/javascript"))
	ms := testutil.NewMemStore(testVersion)
	gw := newActiveGateway(t, ms, origin, "/app.js")

	origin.SetOffline(true)

	base := &countingTripper{inner: http.DefaultTransport}
	client := &http.Client{Transport: &Transport{Gateway: gw, Base: base}}

	// Offline, but the precached asset is served from the store.
	resp, err := client.Get(origin.URL() + "/app.js")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	body := readBody(t, resp)

	if body != "cached" {
		t.Errorf("Body = %q, want cached asset", body)
	}
	if base.calls != 0 {
		t.Errorf("Base transport calls = %d, want 0 (gateway handled it)", base.calls)
	}
}

func TestTransport_PassthroughNonAdmitted(t *testing.T) {
	origin := testutil.NewMockOrigin()
	defer origin.Close()
	ms := testutil.NewMemStore(testVersion)
	gw := newActiveGateway(t, ms, origin)

	base := &countingTripper{inner: http.DefaultTransport}
	client := &http.Client{Transport: &Transport{Gateway: gw, Base: base}}

	// POST is never intercepted; form submissions always hit network.
	resp, err := client.Post(origin.URL()+"/contact", "application/json", nil)
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	resp.Body.Close()

	if base.calls != 1 {
		t.Errorf("Base transport calls = %d, want 1", base.calls)
	}
}

func TestTransport_NilGateway(t *testing.T) {
	origin := testutil.NewMockOrigin()
	defer origin.Close()

	client := &http.Client{Transport: &Transport{}}

	resp, err := client.Get(origin.URL() + "/page")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
}
