package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/eternadata/offline-gateway/internal/testutil"
	"github.com/eternadata/offline-gateway/pkg/gateway"
	"github.com/eternadata/offline-gateway/pkg/health"
)

const testVersion = "eternadata-v1.0.0"

// unreachableTracker returns a tracker whose Redis is never reachable;
// the handlers must tolerate that.
func unreachableTracker() *health.Tracker {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	return health.NewTracker(client, zerolog.Nop())
}

func newTestGateway(t *testing.T) (*gateway.Gateway, *testutil.MemStore, func()) {
	t.Helper()

	origin := testutil.NewMockOrigin()
	ms := testutil.NewMemStore(testVersion)

	u, err := url.Parse(origin.URL())
	if err != nil {
		t.Fatalf("Parse origin URL failed: %v", err)
	}

	gw, err := gateway.New(ms, gateway.Config{Origin: u, Manifest: []string{"/"}})
	if err != nil {
		t.Fatalf("New gateway failed: %v", err)
	}

	ctx := context.Background()
	if err := gw.Install(ctx); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if err := gw.Activate(ctx); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}

	return gw, ms, origin.Close
}

func TestHealthEndpoint(t *testing.T) {
	gw, ms, cleanup := newTestGateway(t)
	defer cleanup()

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()

	healthHandler(gw, ms, unreachableTracker())(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want 200", w.Code)
	}

	var status map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("Invalid JSON body: %v", err)
	}
	if status["phase"] != "active" {
		t.Errorf("phase = %v, want active", status["phase"])
	}
	if status["version"] != testVersion {
		t.Errorf("version = %v, want %s", status["version"], testVersion)
	}
	if status["store"] != "ok" {
		t.Errorf("store = %v, want ok", status["store"])
	}
}

func TestHealthEndpoint_StoreUnreachable(t *testing.T) {
	gw, ms, cleanup := newTestGateway(t)
	defer cleanup()

	ms.PingErr = context.DeadlineExceeded

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()

	healthHandler(gw, ms, unreachableTracker())(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want 503", w.Code)
	}
}

func TestControlEndpoint_GetVersion(t *testing.T) {
	gw, _, cleanup := newTestGateway(t)
	defer cleanup()

	req := httptest.NewRequest("POST", "/-/control", strings.NewReader(`{"type":"GET_VERSION"}`))
	w := httptest.NewRecorder()

	controlHandler(gw)(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want 200", w.Code)
	}

	var reply gateway.Reply
	if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil {
		t.Fatalf("Invalid JSON body: %v", err)
	}
	if reply.Version != testVersion {
		t.Errorf("version = %q, want %s", reply.Version, testVersion)
	}
}

func TestControlEndpoint_UnknownType(t *testing.T) {
	gw, _, cleanup := newTestGateway(t)
	defer cleanup()

	req := httptest.NewRequest("POST", "/-/control", strings.NewReader(`{"type":"NOT_A_THING"}`))
	w := httptest.NewRecorder()

	controlHandler(gw)(w, req)

	// Unrecognized messages are ignored, not an error.
	if w.Code != http.StatusNoContent {
		t.Errorf("Status = %d, want 204", w.Code)
	}
}

func TestControlEndpoint_MethodNotAllowed(t *testing.T) {
	gw, _, cleanup := newTestGateway(t)
	defer cleanup()

	req := httptest.NewRequest("GET", "/-/control", nil)
	w := httptest.NewRecorder()

	controlHandler(gw)(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Status = %d, want 405", w.Code)
	}
}

func TestControlEndpoint_BadBody(t *testing.T) {
	gw, _, cleanup := newTestGateway(t)
	defer cleanup()

	req := httptest.NewRequest("POST", "/-/control", strings.NewReader("not json"))
	w := httptest.NewRecorder()

	controlHandler(gw)(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", w.Code)
	}
}
