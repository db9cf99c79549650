// Package cli authentication commands.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gridstash/gridstash/internal/config"
)

// newLoginCmd creates the 'login' command.
func newLoginCmd() *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store an access token",
		Long: `Authenticate against the server and store the returned access token.

The token is written to ` + "~/.config/gridstash/token" + ` with 0600
permissions and picked up automatically by later commands.

Examples:
  # Prompt for credentials
  gridstash login

  # Non-interactive (password still prompted)
  gridstash login --email user@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := GetLogger()

			gateway, err := newGateway()
			if err != nil {
				return err
			}

			if email == "" {
				email, err = promptLine("Email: ")
				if err != nil {
					return err
				}
			}
			if password == "" {
				password, err = promptPassword("Password: ")
				if err != nil {
					return err
				}
			}

			tok, err := gateway.Authenticate(GetContext(), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			tokenPath := config.DefaultTokenPath()
			if err := config.WriteTokenFile(tokenPath, tok); err != nil {
				return fmt.Errorf("failed to store token: %w", err)
			}

			logger.Info().Str("path", tokenPath).Msg("token stored")
			fmt.Println("Login successful!")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted if omitted; prefer the prompt)")

	return cmd
}

// newRegisterCmd creates the 'register' command.
func newRegisterCmd() *cobra.Command {
	var name string
	var email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := newGateway()
			if err != nil {
				return err
			}

			if name == "" {
				name, err = promptLine("Name: ")
				if err != nil {
					return err
				}
			}
			if email == "" {
				email, err = promptLine("Email: ")
				if err != nil {
					return err
				}
			}
			password, err := promptPassword("Password: ")
			if err != nil {
				return err
			}
			confirm, err := promptPassword("Confirm password: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return fmt.Errorf("passwords do not match")
			}

			if err := gateway.Register(GetContext(), name, email, password); err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}

			fmt.Println("Registration successful! Please login.")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (prompted if omitted)")
	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted if omitted)")

	return cmd
}

// newLogoutCmd creates the 'logout' command.
func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.RemoveTokenFile(config.DefaultTokenPath()); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

// promptLine reads one trimmed line from stdin.
func promptLine(label string) (string, error) {
	fmt.Print(label)
	input, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(input), nil
}

// promptPassword reads a password without echoing it.
func promptPassword(label string) (string, error) {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}
