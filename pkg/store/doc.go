// Package store provides the versioned offline cache store with Redis backend.
//
// The store maps request identities (method + URL) to immutable response
// snapshots. One store instance is bound to one version tag; bumping the tag
// and dropping the old versions is the only invalidation mechanism; entries
// carry no per-entry TTL.
//
// # Basic Usage
//
//	// Create Redis client
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	// Open the store for the current cache generation
//	s := store.NewRedisStore(redisClient, "eternadata-v1.0.0")
//
//	// Build a key from a request
//	key := store.ForRequest(req)
//
//	// Get from store
//	snap, err := s.Get(ctx, key)
//	if err == store.ErrMiss {
//		// not cached - fetch from network
//	}
//
// # Snapshotting Responses
//
//	// Capture an HTTP response; the response body is restored for the
//	// caller, so the live response and the snapshot are independent reads.
//	snap, err := store.Capture(resp)
//	if err != nil {
//		return err
//	}
//
//	if err := s.Put(ctx, key, snap); err != nil {
//		return err
//	}
//
//	// Materialize a response from a snapshot
//	resp := snap.Response()
//
// # Version Rotation
//
//	tags, _ := s.Versions(ctx)
//	for _, tag := range tags {
//		if tag != s.Version() {
//			_ = s.Drop(ctx, tag)
//		}
//	}
//
// # Metrics
//
// The store exports Prometheus metrics:
//
//   - offcache_store_hits_total{layer="redis"} - Store hits
//   - offcache_store_misses_total - Store misses
//   - offcache_store_size_bytes{layer="redis"} - Bytes written to the store
//   - offcache_store_errors_total{operation} - Store operation errors
//   - offcache_versions_dropped_total - Cache generations deleted at rotation
//
// # Consistency
//
// A snapshot is written in a single SET after the full body has been read,
// so an entry always reflects a complete response or does not exist.
// Concurrent writers for the same key are last-write-wins.
package store
