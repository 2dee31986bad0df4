package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/eternadata/offline-gateway/pkg/health"
	"github.com/eternadata/offline-gateway/pkg/store"
)

// Synthesized response bodies.
const (
	offlineBody          = "Offline"
	assetUnavailableBody = "Asset not available offline"
)

// Phase represents the gateway lifecycle phase.
type Phase int

const (
	// PhaseNew is the initial phase before Install has run.
	PhaseNew Phase = iota

	// PhaseInstalling covers store opening and manifest precaching.
	PhaseInstalling

	// PhaseWaiting means install completed and the gateway is ready to
	// activate.
	PhaseWaiting

	// PhaseActivating covers version rotation.
	PhaseActivating

	// PhaseActive means the gateway has claimed traffic.
	PhaseActive
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseNew:
		return "new"
	case PhaseInstalling:
		return "installing"
	case PhaseWaiting:
		return "waiting"
	case PhaseActivating:
		return "activating"
	case PhaseActive:
		return "active"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Doer executes HTTP requests against the network.
// *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the gateway configuration.
type Config struct {
	// Origin is the base URL of the site the gateway fronts. Only GET
	// requests whose URL matches this origin are intercepted.
	Origin *url.URL

	// Manifest is the ordered set of paths precached at install time.
	Manifest []string

	// OfflinePath is the path of the offline page served to documents
	// when both network and cache fail. It must be in the manifest.
	OfflinePath string

	// PrecacheConcurrency bounds the parallel precache fetches.
	PrecacheConcurrency int

	// StrictInstall fails Install if any manifest entry cannot be
	// fetched. The default tolerates individual failures.
	StrictInstall bool

	// Client executes network fetches. Defaults to an *http.Client with
	// a 30 second timeout.
	Client Doer

	// Health, if set, receives the outcome of every network fetch.
	Health *health.Tracker
}

// Gateway decides, per request, whether to serve from cache, fetch from
// network, update the cache, or fall back to the offline page.
type Gateway struct {
	store  store.Store
	origin *url.URL
	client Doer
	health *health.Tracker
	cfg    Config
	logger zerolog.Logger

	mu    sync.RWMutex
	phase Phase
}

// New creates a gateway over the given store.
func New(s store.Store, cfg Config) (*Gateway, error) {
	if s == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Origin == nil || !cfg.Origin.IsAbs() {
		return nil, fmt.Errorf("origin must be an absolute URL")
	}
	if cfg.OfflinePath == "" {
		cfg.OfflinePath = "/offline.html"
	}
	if !strings.HasPrefix(cfg.OfflinePath, "/") {
		return nil, fmt.Errorf("offline path must be absolute (got %q)", cfg.OfflinePath)
	}
	if cfg.PrecacheConcurrency <= 0 {
		cfg.PrecacheConcurrency = 4
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 30 * time.Second}
	}

	logger := log.With().
		Str("component", "gateway").
		Str("version", s.Version()).
		Logger()

	return &Gateway{
		store:  s,
		origin: cfg.Origin,
		client: cfg.Client,
		health: cfg.Health,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Version returns the current cache version tag.
func (g *Gateway) Version() string {
	return g.store.Version()
}

// Phase returns the gateway lifecycle phase.
func (g *Gateway) Phase() Phase {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.phase
}

func (g *Gateway) setPhase(p Phase) {
	g.mu.Lock()
	g.phase = p
	g.mu.Unlock()
}

// Install opens the store and precaches the manifest.
// An unreachable store is fatal; individual precache failures are logged
// and tolerated unless StrictInstall is set. Install does not wait for any
// prior gateway generation: the new version is ready to activate as soon
// as precaching finishes.
func (g *Gateway) Install(ctx context.Context) error {
	g.mu.Lock()
	if g.phase != PhaseNew {
		phase := g.phase
		g.mu.Unlock()
		return fmt.Errorf("install: gateway already %s", phase)
	}
	g.phase = PhaseInstalling
	g.mu.Unlock()

	start := time.Now()

	if err := g.store.Ping(ctx); err != nil {
		g.setPhase(PhaseNew)
		g.logger.Error().Err(err).Msg("Store unreachable - install aborted")
		return fmt.Errorf("open store: %w", err)
	}

	cached, failed := g.precache(ctx)
	if failed > 0 && g.cfg.StrictInstall {
		g.setPhase(PhaseNew)
		return fmt.Errorf("install: %d of %d manifest entries failed to precache",
			failed, len(g.cfg.Manifest))
	}

	g.setPhase(PhaseWaiting)
	g.logger.Info().
		Int("cached", cached).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("Install complete")

	return nil
}

// Activate rotates the store to the current version: every other version
// tag is dropped wholesale. On success the gateway claims traffic.
// Activate is idempotent once active.
func (g *Gateway) Activate(ctx context.Context) error {
	g.mu.Lock()
	switch g.phase {
	case PhaseActive:
		g.mu.Unlock()
		return nil
	case PhaseWaiting:
		g.phase = PhaseActivating
		g.mu.Unlock()
	default:
		phase := g.phase
		g.mu.Unlock()
		return fmt.Errorf("activate: gateway is %s, not waiting", phase)
	}

	tags, err := g.store.Versions(ctx)
	if err != nil {
		// Rotation is retried on the next activation; serving with stale
		// versions still present is safe because keys are tag-scoped.
		g.logger.Warn().Err(err).Msg("Could not enumerate store versions")
	}

	dropped := 0
	for _, tag := range tags {
		if tag == g.store.Version() {
			continue
		}
		if err := g.store.Drop(ctx, tag); err != nil {
			g.logger.Warn().Err(err).Str("tag", tag).Msg("Could not drop store version")
			continue
		}
		dropped++
		g.logger.Debug().Str("tag", tag).Msg("Dropped store version")
	}

	g.setPhase(PhaseActive)
	g.logger.Info().
		Int("dropped", dropped).
		Msg("Activate complete - gateway claiming traffic")

	return nil
}

// Admits reports whether the gateway intercepts the request.
// Only same-origin GET requests are admitted; everything else uses the
// default network path untouched.
func (g *Gateway) Admits(req *http.Request) bool {
	if req == nil || req.URL == nil {
		return false
	}
	if req.Method != http.MethodGet {
		return false
	}
	return req.URL.Scheme == g.origin.Scheme &&
		strings.EqualFold(req.URL.Host, g.origin.Host)
}

// HandleFetch classifies an admitted request and applies a strategy.
// It always returns a well-formed response: failures anywhere in strategy
// execution are contained here and converted to fallbacks.
func (g *Gateway) HandleFetch(ctx context.Context, req *http.Request) (resp *http.Response) {
	start := time.Now()
	document := IsDocument(req)

	strategy := "cache_first"
	if document {
		strategy = "network_first"
	}
	defer func() {
		fetchDuration.WithLabelValues(strategy).Observe(time.Since(start).Seconds())
	}()

	defer func() {
		r := recover()
		if r == nil {
			return
		}

		recoveredPanics.Inc()
		g.logger.Error().
			Interface("panic", r).
			Str("url", req.URL.String()).
			Msg("Recovered panic in request handling")

		if document {
			resp = g.documentFallback(ctx, req)
		} else {
			resp = synthesized(http.StatusServiceUnavailable, offlineBody)
		}
	}()

	if document {
		return g.networkFirst(ctx, req)
	}
	return g.cacheFirst(ctx, req)
}

// fetch executes a network request and reports the outcome to the origin
// health tracker. Tracker errors never affect request handling.
func (g *Gateway) fetch(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := g.client.Do(req)

	if g.health != nil {
		var herr error
		if err != nil {
			herr = g.health.RecordFailure(ctx)
		} else {
			herr = g.health.RecordSuccess(ctx)
		}
		if herr != nil {
			g.logger.Debug().Err(herr).Msg("Origin health update failed")
		}
	}

	return resp, err
}

// storeSnapshot captures a live response and writes it to the store.
// The response body is restored, so the caller's handle stays readable.
// Write failures are logged; the response is served regardless.
func (g *Gateway) storeSnapshot(ctx context.Context, key store.Key, resp *http.Response) {
	snap, err := store.Capture(resp)
	if err != nil {
		g.logger.Warn().Err(err).Str("key", key.String()).Msg("Could not snapshot response")
		return
	}

	if err := g.store.Put(ctx, key, snap); err != nil {
		g.logger.Warn().Err(err).Str("key", key.String()).Msg("Could not store snapshot")
		return
	}

	g.logger.Debug().
		Str("key", key.String()).
		Int("size", snap.Size()).
		Msg("Stored snapshot")
}

// pathRequest builds a GET request for a manifest path against the origin.
func (g *Gateway) pathRequest(ctx context.Context, path string) (*http.Request, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", path, err)
	}
	target := g.origin.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request for %q: %w", path, err)
	}
	return req, nil
}

// offlineKey returns the store key of the offline page.
func (g *Gateway) offlineKey() store.Key {
	ref := &url.URL{Path: g.cfg.OfflinePath}
	return store.Key{
		Method: http.MethodGet,
		URL:    store.NormalizeURL(g.origin.ResolveReference(ref)),
	}
}

func isOK(resp *http.Response) bool {
	return resp != nil && resp.StatusCode >= 200 && resp.StatusCode < 300
}

// synthesized builds a plain-text response entirely in memory.
func synthesized(status int, body string) *http.Response {
	header := http.Header{}
	header.Set("Content-Type", "text/plain; charset=utf-8")

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader([]byte(body))),
		ContentLength: int64(len(body)),
	}
}
