package main

import (
	"fmt"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/SscSPs/money_tracker/internal/dto"
	"github.com/spf13/cobra"
)

func (a *app) credentials(cmd *cobra.Command) (string, string, error) {
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	var err error
	if username == "" {
		if username, err = a.prompt("Username: "); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		if password, err = a.prompt("Password: "); err != nil {
			return "", "", err
		}
	}
	if username == "" || password == "" {
		return "", "", fmt.Errorf("username and password are required")
	}
	return username, password, nil
}

func addCredentialFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("username", "u", "", "username (prompted when empty)")
	cmd.Flags().StringP("password", "p", "", "password (prompted when empty)")
}

func (a *app) loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			username, password, err := a.credentials(cmd)
			if err != nil {
				return err
			}
			resp, err := a.client.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Logged in as %s (session valid until %s)\n", resp.Username, resp.ExpiresAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
	addCredentialFlags(cmd)
	return cmd
}

func (a *app) registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			username, password, err := a.credentials(cmd)
			if err != nil {
				return err
			}
			if err := domain.ValidateUsername(username); err != nil {
				return err
			}
			if err := domain.ValidatePassword(password); err != nil {
				return err
			}
			email, _ := cmd.Flags().GetString("email")

			user, err := a.client.Register(cmd.Context(), dto.RegisterRequest{Username: username, Password: password, Email: email})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Registered %s. Run 'mtctl login' to sign in.\n", user.Username)
			return nil
		},
	}
	addCredentialFlags(cmd)
	cmd.Flags().String("email", "", "optional email address")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and forget it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.client.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
}
