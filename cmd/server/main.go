package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/petpals/internal/auth"
	"github.com/mmynk/petpals/internal/config"
	"github.com/mmynk/petpals/internal/guard"
	"github.com/mmynk/petpals/internal/live"
	"github.com/mmynk/petpals/internal/live/redisbus"
	"github.com/mmynk/petpals/internal/metrics"
	"github.com/mmynk/petpals/internal/middleware"
	"github.com/mmynk/petpals/internal/pet"
	"github.com/mmynk/petpals/internal/service"
	"github.com/mmynk/petpals/internal/storage/sqlstore"
	"github.com/mmynk/petpals/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}
	logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rules := pet.DefaultRules()
	if cfg.RulesFile != "" {
		rules, err = pet.LoadRules(cfg.RulesFile)
		if err != nil {
			return err
		}
		slog.Info("Pet rules loaded", "path", cfg.RulesFile, "policy", rules.HungerZero)
	}

	store, err := sqlstore.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.DBDriver)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	backend := guard.NewBackend(store, pet.NewEngine(rules),
		guard.WithMetrics(m),
		guard.WithHungerTick(cfg.HungerTick),
	)
	hub := live.NewHub(guard.NewLoader(backend), live.WithMetrics(m))
	backend.SetNotifier(hub)

	var bus *redisbus.Bus
	if cfg.RedisAddr != "" {
		bus, err = redisbus.New(ctx, cfg.RedisAddr, cfg.RedisChannel, m)
		if err != nil {
			return err
		}
		defer bus.Close()
		hub.SetBroadcaster(bus)
		slog.Info("Live bus enabled", "addr", cfg.RedisAddr, "channel", cfg.RedisChannel, "origin", bus.Origin())
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	handlers := service.Handlers{
		Auth:     service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, slog.Default()),
		Todo:     service.NewTodoService(backend),
		Pet:      service.NewPetService(backend),
		Activity: service.NewActivityService(backend),
		Live:     service.NewLiveService(backend, hub, cfg.LivePollInterval),
	}

	mux := http.NewServeMux()
	handlers.Mount(mux, connect.WithInterceptors(
		middleware.NewTenantInterceptor(auth.NewTokenResolver(jwtManager), service.PublicProcedures...),
		middleware.NewLoggingInterceptor(m),
	))
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintln(w, "ok")
	})

	// HTTP/2 without TLS for Connect clients.
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h2c.NewHandler(accessLogMiddleware(corsMiddleware(mux)), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		// Live streams end when the server is asked to stop.
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Connect server starting", "address", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if bus != nil {
		g.Go(func() error {
			return bus.Run(gctx, hub)
		})
	}

	return g.Wait()
}

// accessLogMiddleware logs plain HTTP traffic at debug level. RPCs are
// logged by the connect interceptor.
func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
