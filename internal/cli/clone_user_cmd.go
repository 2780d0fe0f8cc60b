package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sfniknax/niknax/internal/core/ports"
	"github.com/sfniknax/niknax/internal/core/service"
)

func newCloneUserCmd(o *rootOptions) *cobra.Command {
	var (
		in             ports.CloneUserInput
		usernamePrefix string
		domainPrefix   string
	)

	cmd := &cobra.Command{
		Use:   "clone-user <source-user-id>",
		Short: "Create a user from an existing one and copy its access",
		Long: "Creates a user with the createable fields of the source user, then copies permission set " +
			"license and permission set assignments, public group and queue memberships unless turned off. " +
			"Alias, username and nickname are generated when not given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.SourceUserID = args[0]

			fillIdentity(&in.Alias, &in.Username, &in.Nickname, ports.UserSuggestionInput{
				FirstName:      in.FirstName,
				LastName:       in.LastName,
				UsernamePrefix: usernamePrefix,
				DomainPrefix:   domainPrefix,
			})

			svc, err := o.services()
			if err != nil {
				return err
			}

			report, err := svc.Users.Clone(cmd.Context(), in)
			if err != nil {
				return err
			}

			return o.printUserReport(cmd, in.Username, report)
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.FirstName, "first-name", "", "first name")
	f.StringVar(&in.LastName, "last-name", "", "last name")
	f.StringVar(&in.Email, "email", "", "email address")
	f.StringVar(&in.Username, "username", "", "username, generated when empty")
	f.StringVar(&in.Alias, "alias", "", "alias, generated when empty")
	f.StringVar(&in.Nickname, "nickname", "", "community nickname, generated when empty")
	f.StringVar(&in.FederationIdentifier, "federation-id", "", "federation identifier")
	f.StringVar(&in.ProfileID, "profile-id", "", "profile id, the source profile when empty")
	f.StringVar(&in.RoleID, "role-id", "", "role id, the source role when empty")
	f.StringVar(&usernamePrefix, "username-prefix", "", "prefix of a generated username")
	f.StringVar(&domainPrefix, "domain-prefix", "", "domain prefix of a generated username")
	f.BoolVar(&in.ClonePermissionSetLicenseAssignments, "permission-set-licenses", true, "copy permission set license assignments")
	f.BoolVar(&in.ClonePermissionSetAssignments, "permission-sets", true, "copy permission set assignments")
	f.BoolVar(&in.FilterPermissionSetsByLicense, "filter-by-license", false, "only copy permission sets matching the user license")
	f.BoolVar(&in.ClonePublicGroupMemberships, "public-groups", true, "copy public group memberships")
	f.BoolVar(&in.CloneQueueMemberships, "queues", true, "copy queue memberships")
	f.BoolVar(&in.ResetPassword, "reset-password", false, "reset the password and email the new user")
	_ = cmd.MarkFlagRequired("last-name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// fillIdentity generates alias, username and nickname where they are empty.
func fillIdentity(alias, username, nickname *string, seed ports.UserSuggestionInput) {
	s := service.SuggestUser(seed)
	if *alias == "" {
		*alias = s.Alias
	}
	if *username == "" {
		*username = s.Username
	}
	if *nickname == "" {
		*nickname = s.Nickname
	}
}

func (o *rootOptions) printUserReport(cmd *cobra.Command, username string, report *ports.UserReport) error {
	out := cmd.OutOrStdout()
	if o.output == "json" {
		return printJSON(out, map[string]any{
			"user_id":       report.User.ID(),
			"username":      username,
			"items":         report.Items,
			"password_sent": report.PasswordSent,
		})
	}

	fmt.Fprintf(out, "Created user %s (%s)\n", report.User.ID(), username)
	rows := make([][]string, 0, len(report.Items))
	for _, item := range report.Items {
		status := "ok"
		if !item.Succeeded() {
			status = item.Error
		}
		rows = append(rows, []string{item.Type, item.Item, status})
	}
	printTable(out, []string{"type", "item", "result"}, rows)
	return nil
}
