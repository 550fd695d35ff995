package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"netcheck/pkg/api"
	"netcheck/pkg/auth"
	"netcheck/pkg/config"
	"netcheck/pkg/db"
	"netcheck/pkg/logging"
	"netcheck/pkg/store"
	"netcheck/pkg/version"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	configPath := flag.String("config", "", "YAML config file (log level, JWT secret)")
	storeType := flag.String("store", "memory", "store backend: memory|mysql|consul (consul requires build tag consul)")
	consulAddr := flag.String("consul-addr", "127.0.0.1:8500", "consul address (when store=consul)")
	tlsCert := flag.String("tls-cert", "", "TLS cert path (enables HTTPS with --tls-key)")
	tlsKey := flag.String("tls-key", "", "TLS key path (enables HTTPS with --tls-cert)")
	clientCA := flag.String("client-ca", "", "require and verify device certs using this CA (optional)")
	jwtSecret := flag.String("jwt-secret", "", "session signing secret (overrides JWT_SECRET)")
	tokenTTL := flag.Duration("token-ttl", auth.DefaultTTL, "session token lifetime")
	bootUser := flag.String("bootstrap-user", "", "create this technician account at start-up")
	bootPass := flag.String("bootstrap-password", "", "password for --bootstrap-user")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.LogLevel, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if *jwtSecret != "" {
		cfg.JWTSecret = *jwtSecret
	}
	if cfg.JWTSecret == "" {
		log.Fatal("no JWT secret: set JWT_SECRET or --jwt-secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users, submissions, err := openStores(ctx, *storeType, *consulAddr, log)
	if err != nil {
		log.Fatal("open store", zap.String("store", *storeType), zap.Error(err))
	}

	if *bootUser != "" {
		if *bootPass == "" {
			log.Fatal("--bootstrap-user needs --bootstrap-password")
		}
		if err := api.Bootstrap(ctx, users, *bootUser, *bootPass); err != nil {
			log.Fatal("bootstrap user", zap.String("user", *bootUser), zap.Error(err))
		}
		log.Info("bootstrap user ready", zap.String("user", *bootUser))
	}

	server := api.NewServer(users, submissions, auth.NewSigner(cfg.JWTSecret, *tokenTTL), log.Named("api"))
	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	files := api.TLSFiles{Cert: *tlsCert, Key: *tlsKey, ClientCA: *clientCA}
	if files.Enabled() {
		tlsCfg, err := files.ServerTLSConfig()
		if err != nil {
			log.Fatal("failed to build TLS config", zap.Error(err))
		}
		srv.TLSConfig = tlsCfg
	}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
	}()

	log.Info("controller listening",
		zap.String("addr", *addr),
		zap.String("store", *storeType),
		zap.Bool("tls", files.Enabled()),
		zap.String("build", version.Build))
	if files.Enabled() {
		err = srv.ListenAndServeTLS("", "")
	} else {
		err = srv.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server error", zap.Error(err))
	}
}

// openStores picks the backends. Consul only holds the submission log, so
// accounts stay in memory for that mode.
func openStores(ctx context.Context, kind, consulAddr string, log *zap.Logger) (store.UserStore, store.SubmissionStore, error) {
	switch kind {
	case "memory":
		m := store.NewMemoryStore()
		return m, m, nil
	case "mysql":
		gdb, err := db.Init(db.SettingsFromEnv())
		if err != nil {
			return nil, nil, err
		}
		g := store.NewGormStore(gdb)
		if err := g.Migrate(); err != nil {
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return g, g, nil
	case "consul":
		subs, err := store.NewConsulStore(consulAddr)
		if err != nil {
			return nil, nil, err
		}
		if p, ok := subs.(interface{ Ping(context.Context) error }); ok {
			if err := p.Ping(ctx); err != nil {
				return nil, nil, err
			}
		}
		log.Warn("consul store keeps accounts in memory; use --bootstrap-user")
		return store.NewMemoryStore(), subs, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store type: %s", kind)
	}
}
