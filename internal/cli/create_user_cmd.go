package cli

import (
	"github.com/spf13/cobra"

	"github.com/sfniknax/niknax/internal/core/ports"
)

func newCreateUserCmd(o *rootOptions) *cobra.Command {
	var (
		in             ports.CreateUserInput
		usernamePrefix string
		domainPrefix   string
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user from scratch with the org default locale and time zone",
		Long: "Creates a user with the given profile and role. Locale, time zone and language are " +
			"taken from the org defaults. Alias, username and nickname are generated when not given.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			report, err := svc.Users.CreateUser(cmd.Context(), in)
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
	f.StringVar(&in.ProfileID, "profile-id", "", "profile id")
	f.StringVar(&in.RoleID, "role-id", "", "role id")
	f.StringVar(&usernamePrefix, "username-prefix", "", "prefix of a generated username")
	f.StringVar(&domainPrefix, "domain-prefix", "", "domain prefix of a generated username")
	f.BoolVar(&in.ResetPassword, "reset-password", true, "reset the password and email the new user")
	_ = cmd.MarkFlagRequired("last-name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("profile-id")

	return cmd
}
