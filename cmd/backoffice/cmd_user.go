package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/backoffice/app/repositories"
	"github.com/shashiranjanraj/backoffice/app/services"
	"github.com/shashiranjanraj/backoffice/pkg/app"
)

// userRoleCmd assigns a user to a group. Assigning "customer" also creates
// the user's customer profile.
func userRoleCmd(a *app.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "user:role <username> <admin|customer>",
		Short: "Assign a user's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.OpenDB()
			if err != nil {
				return err
			}
			svc := services.NewAuthService(repositories.NewUserRepository(db))
			if err := svc.AssignRole(cmd.Context(), args[0], args[1]); err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return fmt.Errorf("no user named %q", args[0])
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], args[1])
			return nil
		},
	}
}

// userCreateCmd creates a login, optionally with a role.
func userCreateCmd(a *app.Application) *cobra.Command {
	var password, role string
	cmd := &cobra.Command{
		Use:   "user:create <username> <email>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return errors.New("--password is required")
			}
			db, err := a.OpenDB()
			if err != nil {
				return err
			}
			svc := services.NewAuthService(repositories.NewUserRepository(db))
			u, err := svc.CreateUser(cmd.Context(), args[0], args[1], password, role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d)\n", u.Username, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().StringVar(&role, "role", "", "admin or customer")
	return cmd
}
