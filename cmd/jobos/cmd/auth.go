package cmd

import (
	"fmt"
	"os"

	"github.com/jobos/frontend/internal/model"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword is swapped out in tests so they never touch a terminal.
var readPassword = term.ReadPassword

func promptPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}

func signupCmd(c *client) *cobra.Command {
	var form model.SignupForm

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if form.Password == "" {
				pw, err := promptPassword(cmd)
				if err != nil {
					return err
				}
				form.Password = pw
			}

			err := c.auth.Signup(cmd.Context(), form)
			if err != nil {
				return userError(err, "Signup failed")
			}

			fmt.Fprintln(cmd.OutOrStdout(), `Account created. Run "jobos signin" to sign in.`)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "your name")
	cmd.Flags().StringVar(&form.Email, "email", "", "your email")
	cmd.Flags().StringVar(&form.Password, "password", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func signinCmd(c *client) *cobra.Command {
	var form model.SigninForm

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if form.Password == "" {
				pw, err := promptPassword(cmd)
				if err != nil {
					return err
				}
				form.Password = pw
			}

			token, err := c.auth.Signin(cmd.Context(), form)
			if err != nil {
				return userError(err, "Signin failed")
			}

			err = c.store.Write(token)
			if err != nil {
				return fmt.Errorf("save token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", form.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Email, "email", "", "your email")
	cmd.Flags().StringVar(&form.Password, "password", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func signoutCmd(c *client) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := c.store.Clear()
			if err != nil {
				return fmt.Errorf("remove token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}
