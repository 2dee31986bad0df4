package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/eternadata/offline-gateway/pkg/gateway"
	"github.com/eternadata/offline-gateway/pkg/health"
	"github.com/eternadata/offline-gateway/pkg/logging"
	"github.com/eternadata/offline-gateway/pkg/manifest"
	"github.com/eternadata/offline-gateway/pkg/store"
)

// config is read from the environment.
type config struct {
	OriginURL     string `env:"ORIGIN_URL,required"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Port          string `env:"PORT" envDefault:"8080"`
	ManifestFile  string `env:"MANIFEST_FILE" envDefault:"manifest.yaml"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty     bool   `env:"LOG_PRETTY" envDefault:"false"`
	StrictInstall bool   `env:"STRICT_INSTALL" envDefault:"false"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		fallback := logging.Setup(logging.DefaultConfig())
		fallback.Fatal().Err(err).Msg("Invalid configuration")
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})

	m, err := manifest.Load(cfg.ManifestFile)
	if err != nil {
		logger.Fatal().Err(err).Str("file", cfg.ManifestFile).Msg("Could not load manifest")
	}

	origin, err := url.Parse(cfg.OriginURL)
	if err != nil || !origin.IsAbs() {
		logger.Fatal().Str("origin", cfg.OriginURL).Msg("ORIGIN_URL must be an absolute URL")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	st := store.NewRedisStore(redisClient, m.Version)
	tracker := health.NewTracker(redisClient, logging.NewLogger("health"))

	gw, err := gateway.New(st, gateway.Config{
		Origin:        origin,
		Manifest:      m.Precache,
		OfflinePath:   m.Offline,
		StrictInstall: cfg.StrictInstall,
		Health:        tracker,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Could not create gateway")
	}

	ctx := context.Background()
	if err := gw.Install(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Install failed")
	}
	if err := gw.Activate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Activate failed")
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(origin)
			pr.Out.Host = origin.Host
		},
		Transport: &gateway.Transport{Gateway: gw},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", healthHandler(gw, st, tracker))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/-/control", controlHandler(gw))
	mux.Handle("/", proxy)

	addr := ":" + cfg.Port
	logger.Info().
		Str("addr", addr).
		Str("origin", origin.String()).
		Str("version", m.Version).
		Msg("Offline gateway serving")

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

// healthHandler reports gateway phase, store reachability and origin state.
func healthHandler(gw *gateway.Gateway, st store.Store, tracker *health.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]any{
			"phase":   gw.Phase().String(),
			"version": gw.Version(),
			"store":   "ok",
			"origin":  string(health.StatusOnline),
		}

		healthy := true
		if err := st.Ping(ctx); err != nil {
			status["store"] = "unreachable"
			healthy = false
		}

		if state, err := tracker.State(ctx); err == nil {
			status["origin"] = string(state.Status())
			status["consecutive_failures"] = state.ConsecutiveFailures
		}

		w.Header().Set("Content-Type", "application/json")
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(status)
	}
}

// controlHandler is the host-side adapter for control messages:
// POST /-/control with a JSON body {"type": "..."}.
func controlHandler(gw *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var body struct {
			Type string `json:"type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid control message", http.StatusBadRequest)
			return
		}

		if body.Type == gateway.MsgGetVersion {
			replies := make(chan gateway.Reply, 1)
			gw.OnMessage(r.Context(), gateway.Message{Type: body.Type, ReplyTo: replies})

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(<-replies)
			return
		}

		gw.OnMessage(r.Context(), gateway.Message{Type: body.Type})
		w.WriteHeader(http.StatusNoContent)
	}
}
