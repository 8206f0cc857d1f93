package cmd

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/phodsawiR/MedGuideApp2/internal/config"
	"github.com/phodsawiR/MedGuideApp2/internal/server"
	"github.com/phodsawiR/MedGuideApp2/pkg/logging"
)

func newServeCmd() *cobra.Command {
	var (
		host    string
		port    int
		authKey string
		cors    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the catalog API server",
		Long: `Starts the HTTP server. The engine reconciles the collection against
the seed catalog on startup, then serves topics, review progress, and
live updates over WebSocket and SSE.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := logging.Default()

			engine, err := newEngine(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = engine.Close() }()

			cfg := server.DefaultConfig()
			cfg.Host = hostOrDefault(host)
			cfg.Port = portOrDefault(port)
			cfg.CORSEnabled = cors
			if authKey == "" {
				authKey = config.GetString(config.KeyAPIKey)
			}
			if authKey != "" {
				cfg.AuthEnabled = true
				cfg.AuthAPIKey = authKey
			}

			srv := server.New(engine, cfg, logger)
			srv.Start()
			defer func() { _ = srv.Shutdown(context.Background()) }()

			if err := engine.Start(ctx); err != nil {
				return err
			}

			addr := cfg.Host + ":" + strconv.Itoa(cfg.Port)
			httpServer := &http.Server{
				Addr:         addr,
				Handler:      srv.Handler(),
				ReadTimeout:  cfg.ReadTimeout,
				WriteTimeout: cfg.WriteTimeout,
				IdleTimeout:  cfg.IdleTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info().Str("addr", addr).Msg("Server listening")
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logger.Info().Msg("Shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return httpServer.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host")
	cmd.Flags().IntVar(&port, "port", 0, "listen port")
	cmd.Flags().StringVar(&authKey, "auth-key", "", "require this API key on protected endpoints")
	cmd.Flags().BoolVar(&cors, "cors", false, "enable CORS for browser clients")
	return cmd
}

func hostOrDefault(host string) string {
	if host != "" {
		return host
	}
	return config.GetStringDefault(config.KeyHost, "localhost")
}

func portOrDefault(port int) int {
	if port != 0 {
		return port
	}
	if raw := config.GetString(config.KeyPort); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil {
			return p
		}
		logging.Warn().Str("value", raw).Msg("Ignoring invalid " + config.KeyPort)
	}
	return 8080
}
