package main

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/ports"
)

// openFunc builds the user service the commands operate on.
type openFunc func(ctx context.Context) (ports.UserService, func(), error)

var adminRoles = []domain.Role{domain.RoleAdmin, domain.RoleUser}

func newRootCmd(open openFunc) *cobra.Command {
	root := &cobra.Command{
		Use:          "user-admin",
		Short:        "Administrative tasks for the user service.",
		SilenceUsage: true,
	}
	root.AddCommand(newCreateAdminCmd(open), newPromoteCmd(open))
	return root
}

func newCreateAdminCmd(open openFunc) *cobra.Command {
	var (
		username string
		password string
		gender   string
	)

	cmd := &cobra.Command{
		Use:     "create-admin",
		Short:   "Create a user with the admin role",
		Example: `  user-admin create-admin --username root --password 's3cret!' --gender female`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, cleanup, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			user, err := users.Register(cmd.Context(), domain.UserCreate{
				Username: username,
				Password: password,
				Gender:   domain.Gender(gender),
				Roles:    adminRoles,
			})
			if err != nil {
				if errors.Is(err, domain.ErrDuplicateKey) {
					return fmt.Errorf("username %q is already taken", username)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username of the new admin")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().StringVar(&gender, "gender", string(domain.GenderMale), "gender (male|female)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newPromoteCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <username>",
		Short: "Grant the admin role to an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			users, cleanup, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			user, err := users.GetByUsername(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("user %q not found", args[0])
				}
				return err
			}

			roles := append([]domain.Role(nil), user.Roles...)
			for _, r := range adminRoles {
				if !slices.Contains(roles, r) {
					roles = append(roles, r)
				}
			}

			matched, err := users.Update(cmd.Context(), user.ID, domain.UserProfile{
				Gender: user.Gender,
				Active: user.Active,
				Roles:  roles,
			})
			if err != nil {
				return err
			}
			if !matched {
				return fmt.Errorf("user %q not found", args[0])
			}

			fmt.Fprintf(cmd.OutOrStdout(), "promoted %s to admin\n", user.Username)
			return nil
		},
	}
}
