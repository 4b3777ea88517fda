package main

import (
	"errors"
	"os"

	"github.com/NordCoder/ProjectEye/internal/domain/auth"
	"github.com/spf13/cobra"
)

const envPassword = "PROJECTEYE_PASSWORD"

func passwordOrEnv(p string) (string, error) {
	if p != "" {
		return p, nil
	}
	if p = os.Getenv(envPassword); p != "" {
		return p, nil
	}
	return "", errors.New("password is required (--password or " + envPassword + ")")
}

func newLoginCmd(a *app) *cobra.Command {
	var in auth.LoginInput
	var role string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if in.Password, err = passwordOrEnv(in.Password); err != nil {
				return err
			}
			in.Role = auth.Role(role)
			u, err := a.api.Auth.Login(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), u)
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "account password")
	cmd.Flags().StringVar(&role, "role", "", "role to sign in as: owner, manager, contractor, viewer")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var in auth.RegisterInput
	var role string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and store the session tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if in.Password, err = passwordOrEnv(in.Password); err != nil {
				return err
			}
			in.Role = auth.Role(role)
			u, err := a.api.Auth.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), u)
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "full name")
	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "account password")
	cmd.Flags().StringVar(&in.Company, "company", "", "company name")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleViewer), "owner, manager, contractor or viewer")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and forget the stored tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.api.Auth.Logout(cmd.Context()); err != nil {
				a.log.Warn("server logout failed; local tokens were cleared anyway")
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]bool{"loggedOut": true})
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := a.api.Auth.Me(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), u)
		},
	}
}
