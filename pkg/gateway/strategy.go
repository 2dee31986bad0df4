package gateway

import (
	"context"
	"net/http"

	"github.com/eternadata/offline-gateway/pkg/store"
)

// networkFirst serves document requests: freshest content when online,
// last-known snapshot when not, offline page as the final fallback.
func (g *Gateway) networkFirst(ctx context.Context, req *http.Request) *http.Response {
	key := store.ForRequest(req)

	resp, err := g.fetch(ctx, req)
	if err == nil && isOK(resp) {
		g.storeSnapshot(ctx, key, resp)
		fetchesTotal.WithLabelValues("network_first", "network").Inc()
		return resp
	}

	if err != nil {
		g.logger.Debug().
			Err(err).
			Str("url", req.URL.String()).
			Msg("Network fetch failed - falling back")
	} else {
		// A non-2xx document is discarded in favor of the fallback chain.
		g.logger.Debug().
			Int("status", resp.StatusCode).
			Str("url", req.URL.String()).
			Msg("Network response not ok - falling back")
		resp.Body.Close()
	}

	return g.documentFallback(ctx, req)
}

// documentFallback walks the fallback chain for a document request:
// cached snapshot, then offline page, then a synthesized 503.
func (g *Gateway) documentFallback(ctx context.Context, req *http.Request) *http.Response {
	key := store.ForRequest(req)

	snap, err := g.store.Get(ctx, key)
	if err == nil {
		fetchesTotal.WithLabelValues("network_first", "cache").Inc()
		return snap.Response()
	}
	if err != store.ErrMiss {
		g.logger.Warn().Err(err).Str("key", key.String()).Msg("Store read failed")
	}

	snap, err = g.store.Get(ctx, g.offlineKey())
	if err == nil {
		fetchesTotal.WithLabelValues("network_first", "offline_page").Inc()
		g.logger.Debug().Str("url", req.URL.String()).Msg("Serving offline page")
		return snap.Response()
	}
	if err != store.ErrMiss {
		g.logger.Warn().Err(err).Msg("Store read failed for offline page")
	}

	fetchesTotal.WithLabelValues("network_first", "synthesized").Inc()
	return synthesized(http.StatusServiceUnavailable, offlineBody)
}

// cacheFirst serves asset requests: a hit never touches the network.
// Assets are content-addressed by version, so a hit is always correct;
// freshness comes from version rotation, not per-request revalidation.
func (g *Gateway) cacheFirst(ctx context.Context, req *http.Request) *http.Response {
	key := store.ForRequest(req)

	snap, err := g.store.Get(ctx, key)
	if err == nil {
		fetchesTotal.WithLabelValues("cache_first", "cache").Inc()
		return snap.Response()
	}
	if err != store.ErrMiss {
		// Store failure is fatal to the lookup only; treated as a miss.
		g.logger.Warn().Err(err).Str("key", key.String()).Msg("Store read failed")
	}

	resp, ferr := g.fetch(ctx, req)
	if ferr != nil {
		g.logger.Debug().
			Err(ferr).
			Str("url", req.URL.String()).
			Msg("Asset fetch failed - not available offline")
		fetchesTotal.WithLabelValues("cache_first", "synthesized").Inc()
		return synthesized(http.StatusNotFound, assetUnavailableBody)
	}

	// Only complete, successful responses enter the store.
	if isOK(resp) {
		g.storeSnapshot(ctx, key, resp)
	}

	fetchesTotal.WithLabelValues("cache_first", "network").Inc()
	return resp
}
