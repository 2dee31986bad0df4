package gateway

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/eternadata/offline-gateway/pkg/store"
)

// precache fetches every manifest entry and stores its snapshot, bounded
// by PrecacheConcurrency workers. Population is best-effort: a failed
// entry is logged and counted but does not abort the remaining fetches.
func (g *Gateway) precache(ctx context.Context) (cached, failed int) {
	var group errgroup.Group
	group.SetLimit(g.cfg.PrecacheConcurrency)

	var okCount, failCount atomic.Int64

	for _, path := range g.cfg.Manifest {
		path := path
		group.Go(func() error {
			if err := g.precachePath(ctx, path); err != nil {
				precacheFailures.Inc()
				failCount.Add(1)
				g.logger.Warn().
					Err(err).
					Str("path", path).
					Msg("Precache failed for manifest entry")
				return nil
			}

			okCount.Add(1)
			g.logger.Debug().Str("path", path).Msg("Precached manifest entry")
			return nil
		})
	}

	// Tasks never return errors; Wait is only a join point.
	_ = group.Wait()

	return int(okCount.Load()), int(failCount.Load())
}

// precachePath fetches one manifest path from the origin and stores it.
func (g *Gateway) precachePath(ctx context.Context, path string) error {
	req, err := g.pathRequest(ctx, path)
	if err != nil {
		return err
	}

	resp, err := g.fetch(ctx, req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if !isOK(resp) {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	snap, err := store.Capture(resp)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	if err := g.store.Put(ctx, store.ForRequest(req), snap); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	return nil
}
