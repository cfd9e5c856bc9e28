package command

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"scenehub/cmd/cli/authentication"
)

// auth.go handles the stored identity. Tokens are issued by the identity provider; the CLI only
// keeps one in the OS keyring and sends it along.

// authCmd represents the auth command for authentication related subcommands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Store, inspect or forget the access token used to talk to the scenehub API.`,
}

// tokenCmd stores an access token
var tokenCmd = &cobra.Command{
	Use:   "token <jwt>",
	Short: "Store an access token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.FromToken(args[0])
		if err != nil {
			return err
		}
		if creds.Expired(time.Now()) {
			return fmt.Errorf("token already expired")
		}
		if err := authentication.StoreTokens(creds); err != nil {
			return fmt.Errorf("save token: %w", err)
		}

		name := creds.Username
		if name == "" {
			name = creds.UserID
		}
		fmt.Println(success("✓ Logged in as " + name))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetTokens()
		if err != nil {
			return err
		}
		if creds == nil {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Printf("User:     %s\n", creds.Username)
		fmt.Printf("User ID:  %s\n", creds.UserID)
		if creds.ExpiresAt > 0 {
			exp := time.Unix(creds.ExpiresAt, 0)
			state := success("valid")
			if creds.Expired(time.Now()) {
				state = warning("expired")
			}
			fmt.Printf("Expires:  %s (%s)\n", exp.Format(time.RFC1123), state)
		}
		return nil
	},
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := authentication.DeleteTokens(); err != nil {
			return err
		}
		fmt.Println(success("✓ Successfully logged out."))
		return nil
	},
}

// init function to add auth commands to root command
func init() {
	authCmd.AddCommand(tokenCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(logoutCmd)
}
