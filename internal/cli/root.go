// Package cli implements the niknax command line: the HTTP API server and
// one-shot commands that run the same services against a configured org.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/sfniknax/niknax/internal/api"
	"github.com/sfniknax/niknax/internal/core/ports"
	"github.com/sfniknax/niknax/internal/infrastructure/config"
	"github.com/sfniknax/niknax/internal/infrastructure/salesforce"
	"github.com/sfniknax/niknax/pkg/logger"
)

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd(envconfig.OsLookuper())
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			_ = printJSON(os.Stdout, map[string]string{"error": err.Error()})
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// rootOptions is shared by every subcommand once PersistentPreRunE ran.
type rootOptions struct {
	cfg    *config.Config
	logger zerolog.Logger
	output string
}

func newRootCmd(lookuper envconfig.Lookuper) *cobra.Command {
	var (
		opts      rootOptions
		host      string
		sessionID string
		logLevel  string
	)

	rootCmd := &cobra.Command{
		Use:           "niknax",
		Short:         "CRM setup companion",
		Long:          "Serves the popup API for the CRM setup pages and runs its operations from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutputFormat(opts.output); err != nil {
				return err
			}

			cfg, err := config.LoadFrom(cmd.Context(), lookuper)
			if err != nil {
				return err
			}

			// Precedence: flag > env > default.
			if cmd.Flags().Changed("host") {
				cfg.CRM.Host = host
			}
			if cmd.Flags().Changed("session-id") {
				cfg.CRM.SessionID = sessionID
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}

			opts.cfg = cfg
			opts.logger = logger.Init(logger.Options{
				Level:   cfg.LogLevel,
				Pretty:  cfg.Development(),
				Service: "niknax",
			})
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&host, "host", "", "CRM API host or base URL (env NIKNAX_CRM_HOST)")
	rootCmd.PersistentFlags().StringVar(&sessionID, "session-id", "", "CRM session id (env NIKNAX_CRM_SESSION_ID)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "output format: table or json")

	rootCmd.AddCommand(
		newServeCmd(&opts),
		newCloneUserCmd(&opts),
		newCreateUserCmd(&opts),
		newFLSCmd(&opts),
		newAuditLogCmd(&opts),
	)

	return rootCmd
}

func (o *rootOptions) crmOptions() salesforce.Options {
	return salesforce.Options{
		APIVersion:         o.cfg.CRM.APIVersion,
		MetadataAPIVersion: o.cfg.CRM.MetadataAPIVersion,
		Timeout:            o.cfg.CRM.Timeout,
		Logger:             o.logger,
	}
}

// services binds the CRM services to the configured host and session.
func (o *rootOptions) services() (*ports.WindowServices, error) {
	if err := o.cfg.ValidateCRM(); err != nil {
		return nil, err
	}
	return api.NewCRMServiceFactory(o.crmOptions(), o.logger).Services(o.cfg.CRM.Host, o.cfg.CRM.SessionID)
}
