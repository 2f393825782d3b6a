package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	assessmentapp "hydropower-calc/internal/assessment/application"
	assessmenthttp "hydropower-calc/internal/assessment/interfaces/http"
	"hydropower-calc/internal/audit"
	"hydropower-calc/internal/auth"
	"hydropower-calc/internal/config"
	"hydropower-calc/internal/observability/logging"
	"hydropower-calc/internal/observability/metrics"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP calculation service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			logger, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}

func newRouter(cfg config.Config, logger *zap.Logger) (http.Handler, error) {
	service, err := assessmentapp.NewService(cfg.Viability, assessmentapp.WithLogger(logger.Named("assessment")))
	if err != nil {
		return nil, err
	}
	handler, err := assessmenthttp.NewHandler(service, cfg.Presets, cfg.Economics,
		assessmenthttp.WithAuditLogger(audit.NewZapLogger(logger)),
		assessmenthttp.WithLogger(logger.Named("http")),
	)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	handler.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var root http.Handler = mux
	if cfg.AuthEnabled() {
		policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
		root = auth.NewMiddleware([]byte(cfg.JWTSecret), policy, logger.Named("auth")).Wrap(mux)
	} else {
		logger.Warn("AUTH_JWT_SECRET not set; API is unauthenticated")
	}
	return loggingMiddleware(root, logger.Named("access")), nil
}

func runServer(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	metrics.Init()
	router, err := newRouter(cfg, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr), zap.Int("presets", len(cfg.Presets)))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("http shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func loggingMiddleware(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", resp.status),
			zap.Duration("duration", time.Since(start)))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}
