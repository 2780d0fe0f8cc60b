package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sfniknax/niknax/internal/api"
	"github.com/sfniknax/niknax/internal/core/service"
	"github.com/sfniknax/niknax/internal/infrastructure/session"
	"github.com/sfniknax/niknax/internal/infrastructure/token"
	"github.com/sfniknax/niknax/internal/pkg/poll"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(o *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the popup HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := o.cfg
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if err := cfg.ValidateServe(); err != nil {
				return err
			}
			log := o.logger

			store, err := session.NewJarStore()
			if err != nil {
				return fmt.Errorf("session store: %w", err)
			}
			tokens := token.NewIssuer(cfg.Token.Secret, cfg.Token.TTL)
			launches := service.NewLaunchService(store, tokens, cfg.PopupURL, poll.Options{
				MaxAttempts: cfg.Poll.Attempts,
				Interval:    cfg.Poll.Interval,
			}, log)

			// A configured session seeds the store, handy when no injected
			// page registers one.
			if cfg.CRM.Host != "" && cfg.CRM.SessionID != "" {
				if err := launches.RegisterSession(cmd.Context(), hostname(cfg.CRM.Host), cfg.CRM.SessionID); err != nil {
					return fmt.Errorf("seed session: %w", err)
				}
			}

			e := api.NewRouter(api.Deps{
				Launches: launches,
				Tokens:   tokens,
				Sessions: store,
				Services: api.NewCRMServiceFactory(o.crmOptions(), log),
				Logger:   log,
			})

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, os.Interrupt)
			defer cancel()

			go func() {
				<-ctx.Done()
				log.Info().Msg("shutting down server")
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer shutdownCancel()
				if err := e.Shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("graceful shutdown failed")
				}
			}()

			log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
			if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (env NIKNAX_PORT)")
	return cmd
}

// hostname accepts a bare host or a base URL.
func hostname(host string) string {
	if u, err := url.Parse(host); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return host
}
