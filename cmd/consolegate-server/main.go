// Package main provides the entry point for consolegate-server.
//
// consolegate-server is the connection gateway for ConsoleGate: it
// classifies incoming connections, terminates TLS, answers plain
// requests on the redirect listener with a 301 to https, and serves
// the console from a static document root.
package main

import (
	"context"
	"crypto/x509"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/consolegate/consolegate-go/internal/core/domain"
	"github.com/consolegate/consolegate-go/internal/core/service"
	"github.com/consolegate/consolegate-go/internal/infra/buildinfo"
	"github.com/consolegate/consolegate-go/internal/infra/certbundle"
	"github.com/consolegate/consolegate-go/internal/infra/confloader"
	"github.com/consolegate/consolegate-go/internal/infra/listenset"
	"github.com/consolegate/consolegate-go/internal/infra/shutdown"
	"github.com/consolegate/consolegate-go/internal/infra/tlsroots"
	"github.com/consolegate/consolegate-go/internal/server/config"
	"github.com/consolegate/consolegate-go/internal/server/gateserver"
	"github.com/consolegate/consolegate-go/internal/server/mgmtserver"
	"github.com/consolegate/consolegate-go/internal/server/webroot"
	"github.com/consolegate/consolegate-go/internal/telemetry/logger"
	"github.com/consolegate/consolegate-go/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse command line flags
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	// Show version and exit
	if *showVersion {
		fmt.Printf("consolegate-server %s\n", buildinfo.String())
		return nil
	}

	// Load configuration
	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize logger
	log, slogLogger, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting consolegate-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", *configFile)

	// Bind or adopt the listener set
	set, err := buildListenSet(cfg)
	if err != nil {
		return fmt.Errorf("listener set: %w", err)
	}

	// Load the server identity and client trust
	store, clientCAs, watcher, err := initTLS(cfg, slogLogger)
	if err != nil {
		_ = set.Close()
		return fmt.Errorf("init tls: %w", err)
	}

	// Already vetted by config.Verify; parse for the typed value.
	mode, err := domain.ParseClientCertMode(cfg.Security.ClientCertMode)
	if err != nil {
		_ = set.Close()
		return err
	}

	// Create the gateway core
	gw := gateserver.New(&gateserver.Config{
		ClientCertMode:   mode,
		ClientCAs:        clientCAs,
		SniffTimeout:     cfg.Gateway.SniffTimeout,
		HandshakeTimeout: cfg.Gateway.HandshakeTimeout,
		WriteTimeout:     cfg.Gateway.WriteTimeout,
		IdleGrace:        time.Duration(cfg.Process.Idle) * time.Second,
	}, set, store, webroot.New(cfg.Gateway.DocRoot, slogLogger), slogLogger)

	metric.Global().MustRegister(metric.NewCollector(gw))

	// Management surface over the local socket
	statusSvc := service.NewStatusService(gw, store)

	var mgmt *mgmtserver.Server
	if cfg.Mgmt.Socket != "" {
		mgmtHandler := mgmtserver.NewHandler(statusSvc, metric.Global().Handler(), slogLogger)
		mgmt = mgmtserver.New(cfg.Mgmt.Socket, mgmtHandler, slogLogger)
	}

	// Setup graceful shutdown
	sd := shutdown.NewHandler(30 * time.Second)

	// Register shutdown hooks (reverse order of startup)
	if watcher != nil {
		sd.OnShutdown(func(ctx context.Context) error {
			watcher.Stop()
			return nil
		})
	}

	sd.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down gateway")
		return gw.Shutdown(ctx)
	})

	if mgmt != nil {
		sd.OnShutdown(func(ctx context.Context) error {
			log.Info("shutting down management server")
			return mgmt.Shutdown(ctx)
		})
	}

	// Start accepting
	if err := gw.Start(context.Background()); err != nil {
		_ = sd.Shutdown()
		return fmt.Errorf("start gateway: %w", err)
	}

	if mgmt != nil {
		go func() {
			if err := mgmt.ListenAndServe(); err != nil {
				log.Error("management server error", "error", err)
			}
		}()
	}

	// Idle-exit watch. Run pumps lifecycle events and reports true once
	// the connection count has stayed at zero for the grace period.
	idleCh := make(chan struct{})
	if gw.IdleGrace() > 0 {
		go func() {
			for {
				if gw.Run(time.Hour) {
					close(idleCh)
					return
				}
				select {
				case <-gw.Closed():
					return
				default:
				}
			}
		}()
	}

	log.Info("gateway ready",
		"listen_mode", cfg.Listen.Mode,
		"tls", store != nil,
		"client_cert_mode", string(mode),
		"mgmt_socket", cfg.Mgmt.Socket,
		"idle_grace", gw.IdleGrace())

	// Wait for a shutdown signal or the idle policy
	select {
	case <-sd.Signal():
		log.Info("shutdown signal received")
	case <-idleCh:
		log.Info("idle grace elapsed, exiting", "idle_grace", gw.IdleGrace())
	}

	if err := sd.Shutdown(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	// Start with defaults
	cfg := config.Default()

	// Create loader with optional config file
	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)

	// Load and unmarshal
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	// Validate configuration
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initLogger initializes the structured logger and installs it as the
// process-wide default.
func initLogger(cfg *config.ServerConfig) (logger.Logger, *slog.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, nil, err
	}

	logger.SetDefault(log)

	return log, logger.Slog(log), nil
}

// buildListenSet produces the listener trio for the configured mode.
func buildListenSet(cfg *config.ServerConfig) (*listenset.Set, error) {
	switch cfg.Listen.Mode {
	case "inherit":
		return listenset.Inherited()
	case "tcp":
		return bindTCP(cfg.Listen)
	default: // "bind", enforced by config.Verify
		return listenset.Bind(cfg.Listen.Dir)
	}
}

// bindTCP binds the three TCP addresses of tcp mode.
func bindTCP(l config.ListenSection) (*listenset.Set, error) {
	var lns []net.Listener
	for _, addr := range []string{l.Plain, l.Redirect, l.TLS} {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			for _, prev := range lns {
				_ = prev.Close()
			}
			return nil, domain.ErrBindFailed.WithDetails(addr).WithCause(err)
		}
		lns = append(lns, ln)
	}
	return listenset.FromListeners(lns[0], lns[1], lns[2])
}

// initTLS loads the certificate bundle, the client trust pool, and the
// optional hot-reload watcher. Everything is nil when TLS is off.
func initTLS(cfg *config.ServerConfig, log *slog.Logger) (*certbundle.Store, *x509.CertPool, *certbundle.Watcher, error) {
	if cfg.Security.CertFile == "" {
		return nil, nil, nil, nil
	}

	bundle, err := certbundle.Load(cfg.Security.CertFile, cfg.Security.KeyFile)
	if err != nil {
		return nil, nil, nil, err
	}
	store := certbundle.NewStore(bundle)
	metric.Global().SetCertExpiry(bundle.Expiry())

	var clientCAs *x509.CertPool
	if cfg.Security.ClientCertMode == string(domain.CertModeRequire) {
		roots, err := tlsroots.Load(cfg.Security.ClientCAFile)
		if err != nil {
			return nil, nil, nil, err
		}
		clientCAs = roots.Pool()
	}

	var watcher *certbundle.Watcher
	if cfg.Security.Watch {
		watcher, err = certbundle.NewWatcher(store, certbundle.WithLogger(log))
		if err != nil {
			return nil, nil, nil, err
		}
		watcher.StartAsync()
	}

	log.Info("tls configured",
		"cert_file", cfg.Security.CertFile,
		"fingerprint", bundle.Fingerprint(),
		"expiry", bundle.Expiry(),
		"client_cert_mode", cfg.Security.ClientCertMode,
		"watch", cfg.Security.Watch)

	return store, clientCAs, watcher, nil
}
