package store

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Snapshot is an immutable stored copy of a response: status, headers and
// body at the time it was cached.
type Snapshot struct {
	// Status is the HTTP status code of the cached response
	Status int `json:"status"`

	// Header holds the response headers
	Header http.Header `json:"header"`

	// Body is the full response body
	Body []byte `json:"body"`

	// StoredAt is when we captured this response
	StoredAt time.Time `json:"stored_at"`
}

// Capture converts a live HTTP response into a Snapshot.
// It reads the response body and restores it afterwards, so the caller's
// handle and the snapshot are two independent reads over the same payload.
func Capture(resp *http.Response) (*Snapshot, error) {
	if resp == nil {
		return nil, fmt.Errorf("response cannot be nil")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	resp.Body.Close()

	// Restore body for caller
	resp.Body = io.NopCloser(bytes.NewReader(body))

	return &Snapshot{
		Status:   resp.StatusCode,
		Header:   resp.Header.Clone(),
		Body:     body,
		StoredAt: time.Now(),
	}, nil
}

// Response materializes a fresh *http.Response from the snapshot.
// Every call returns an independent body reader over the stored bytes.
func (s *Snapshot) Response() *http.Response {
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", s.Status, http.StatusText(s.Status)),
		StatusCode:    s.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        s.Header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(s.Body)),
		ContentLength: int64(len(s.Body)),
	}
}

// Size returns the body size in bytes.
func (s *Snapshot) Size() int {
	return len(s.Body)
}

// OK reports whether the snapshot holds a 2xx response.
func (s *Snapshot) OK() bool {
	return s.Status >= 200 && s.Status < 300
}
