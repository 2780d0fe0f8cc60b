package cli

import (
	"github.com/spf13/cobra"
)

func newFLSCmd(o *rootOptions) *cobra.Command {
	var permissionSets []string

	cmd := &cobra.Command{
		Use:   "fls <Object.Field>",
		Short: "Show read/edit access to a field per permission set",
		Long:  "Reads field-level security from permission set metadata. Without --permission-set every permission set not owned by a profile is reported.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := o.services()
			if err != nil {
				return err
			}

			rows, err := svc.Permissions.FieldAccess(cmd.Context(), args[0], permissionSets)
			if err != nil {
				return err
			}

			if o.output == "json" {
				return printJSON(cmd.OutOrStdout(), rows)
			}
			table := make([][]string, 0, len(rows))
			for _, r := range rows {
				table = append(table, []string{r.PermissionSet, yesNo(r.Access.Read), yesNo(r.Access.Edit), r.Error})
			}
			printTable(cmd.OutOrStdout(), []string{"permission set", "read", "edit", "error"}, table)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&permissionSets, "permission-set", nil, "permission set API name, repeatable")
	return cmd
}
