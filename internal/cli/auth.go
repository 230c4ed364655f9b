package cli

import (
	"github.com/spf13/cobra"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
	}
	cmd.AddCommand(newAuthSignUpCmd(app))
	cmd.AddCommand(newAuthSignInCmd(app))
	cmd.AddCommand(newAuthSignOutCmd(app))
	cmd.AddCommand(newAuthWhoamiCmd(app))
	return cmd
}

func newAuthSignUpCmd(app *App) *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, err := app.connect()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.SignUp(cmd.Context(), email, password, name); err != nil {
				return writeErr(cmd, err)
			}
			user, _ := sess.CurrentUser()
			return writeOut(cmd, app, map[string]any{"data": user})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.Flags().StringVar(&name, "name", "", "Display name (optional)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newAuthSignInCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, err := app.connect()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.SignIn(cmd.Context(), email, password); err != nil {
				return writeErr(cmd, err)
			}
			user, _ := sess.CurrentUser()
			return writeOut(cmd, app, map[string]any{"data": user})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newAuthSignOutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out and drop the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, err := app.connect()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.SignOut(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"signed_out": true}})
		},
	}
}

func newAuthWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, err := app.connect()
			if err != nil {
				return writeErr(cmd, err)
			}
			if !sess.Restore(cmd.Context()) {
				return writeErr(cmd, errNotSignedIn())
			}
			user, _ := sess.CurrentUser()
			return writeOut(cmd, app, map[string]any{"data": user})
		},
	}
}
