package store

import (
	"bytes"
	"io"
	"net/http"
	"testing"
)

func newResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header: http.Header{
			"Content-Type": []string{"text/html; charset=utf-8"},
		},
		Body: io.NopCloser(bytes.NewReader([]byte(body))),
	}
}

func TestCapture(t *testing.T) {
	resp := newResponse(200, "<html>home</html>")

	snap, err := Capture(resp)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	if snap.Status != 200 {
		t.Errorf("Status = %d, want 200", snap.Status)
	}
	if string(snap.Body) != "<html>home</html>" {
		t.Errorf("Body = %q", snap.Body)
	}
	if snap.Header.Get("Content-Type") != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", snap.Header.Get("Content-Type"))
	}
	if snap.StoredAt.IsZero() {
		t.Error("StoredAt not set")
	}
}

func TestCapture_RestoresBody(t *testing.T) {
	resp := newResponse(200, "payload")

	if _, err := Capture(resp); err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	// The caller's handle must still be readable after capture.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Read restored body failed: %v", err)
	}
	if string(body) != "payload" {
		t.Errorf("Restored body = %q, want %q", body, "payload")
	}
}

func TestCapture_Nil(t *testing.T) {
	if _, err := Capture(nil); err == nil {
		t.Error("Capture(nil) should return error")
	}
}

func TestSnapshot_Response(t *testing.T) {
	snap := &Snapshot{
		Status: 200,
		Header: http.Header{"X-Test": []string{"yes"}},
		Body:   []byte("stored"),
	}

	// Every materialization must be an independent read.
	first := snap.Response()
	second := snap.Response()

	b1, _ := io.ReadAll(first.Body)
	b2, _ := io.ReadAll(second.Body)

	if string(b1) != "stored" || string(b2) != "stored" {
		t.Errorf("Materialized bodies = %q, %q, want %q", b1, b2, "stored")
	}
	if !bytes.Equal(b1, b2) {
		t.Error("Materialized responses are not byte-identical")
	}
	if first.Header.Get("X-Test") != "yes" {
		t.Errorf("Header not carried over")
	}
	if first.ContentLength != int64(len("stored")) {
		t.Errorf("ContentLength = %d", first.ContentLength)
	}
}

func TestSnapshot_Response_HeaderIsolation(t *testing.T) {
	snap := &Snapshot{
		Status: 200,
		Header: http.Header{"X-Test": []string{"yes"}},
	}

	resp := snap.Response()
	resp.Header.Set("X-Test", "mutated")

	if snap.Header.Get("X-Test") != "yes" {
		t.Error("Mutating a materialized response changed the snapshot")
	}
}

func TestSnapshot_OK(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{200, true},
		{204, true},
		{299, true},
		{301, false},
		{404, false},
		{500, false},
	}

	for _, tt := range tests {
		snap := &Snapshot{Status: tt.status}
		if got := snap.OK(); got != tt.want {
			t.Errorf("OK() with status %d = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestSnapshot_Size(t *testing.T) {
	snap := &Snapshot{Body: []byte("12345")}
	if snap.Size() != 5 {
		t.Errorf("Size() = %d, want 5", snap.Size())
	}
}
