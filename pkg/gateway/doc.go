// Package gateway implements the offline cache gateway: an intercepting
// layer between outgoing HTTP requests and the network, backed by a
// versioned snapshot store.
//
// The gateway follows a two-phase lifecycle before it serves traffic:
//
//   - Install opens the store and precaches every manifest entry.
//   - Activate drops all store versions except the current one and claims
//     traffic: from then on the Transport routes admitted requests through
//     the gateway.
//
// Only same-origin GET requests are admitted; everything else passes
// through to the base transport untouched. Admitted requests are
// classified by destination:
//
//   - documents (navigations) use the network-first strategy: fresh
//     content when online, last cached snapshot when not, offline page as
//     the final fallback;
//   - assets use the cache-first strategy: a hit never touches the
//     network, a miss is fetched and stored, an unreachable uncached
//     asset yields a synthesized 404.
//
// Every admitted request terminates in a response object. Failures are
// contained at the dispatch boundary and converted to fallbacks; the
// gateway never propagates an error to the caller.
//
// # Usage
//
//	s := store.NewRedisStore(redisClient, m.Version)
//	gw, err := gateway.New(s, gateway.Config{
//		Origin:      originURL,
//		Manifest:    m.Precache,
//		OfflinePath: m.Offline,
//	})
//	if err != nil {
//		return err
//	}
//
//	if err := gw.Install(ctx); err != nil {
//		return err
//	}
//	if err := gw.Activate(ctx); err != nil {
//		return err
//	}
//
//	client := &http.Client{Transport: &gateway.Transport{Gateway: gw}}
package gateway
