package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
)

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username or email, defaults to $QUERA_USERNAME.")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password, defaults to $QUERA_PASSWORD.")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

// credentials prefers flags over the environment, which may be filled from a .env file.
func credentials() (string, string, error) {
	username := loginUsername
	if username == "" {
		username = os.Getenv("QUERA_USERNAME")
	}
	password := loginPassword
	if password == "" {
		password = os.Getenv("QUERA_PASSWORD")
	}
	if username == "" || password == "" {
		return "", "", fmt.Errorf("username and password are required, pass --username and --password or set QUERA_USERNAME and QUERA_PASSWORD")
	}
	return username, password, nil
}

var loginCmd = &cobra.Command{
	Use:   "login [--username <username>] [--password <password>]",
	Short: "Logs in and stores the session for the other commands.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, password, err := credentials()
		if err != nil {
			return err
		}
		already, err := current.account.Login(cmd.Context(), username, password)
		if err != nil {
			return err
		}
		if already {
			fmt.Fprintln(cmd.OutOrStdout(), "You are already logged in.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged in successfully.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Ends the stored session.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loggedOut, err := current.account.Logout(cmd.Context())
		if err != nil {
			return err
		}
		if !loggedOut {
			fmt.Fprintln(cmd.OutOrStdout(), "You are logged out.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out successfully.")
		return nil
	},
}
