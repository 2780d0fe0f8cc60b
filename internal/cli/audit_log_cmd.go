package cli

import (
	"github.com/spf13/cobra"
)

func newAuditLogCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "audit-log",
		Short: "Download the setup audit trail of the org",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := o.services()
			if err != nil {
				return err
			}

			entries, err := svc.Audit.AuditLog(cmd.Context())
			if err != nil {
				return err
			}

			if o.output == "json" {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Date, e.User, e.Section, e.Action, e.DelegateUser})
			}
			printTable(cmd.OutOrStdout(), []string{"date", "user", "section", "action", "delegate user"}, rows)
			return nil
		},
	}
}
