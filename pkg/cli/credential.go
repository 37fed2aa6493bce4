package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mleary/quotedash/pkg/storage"
)

const maxCredentialSize = 1 << 20 // 1MB limit for all credential inputs

// NewCredentialCommand creates the credential management command
func NewCredentialCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credential",
		Short: "Manage the quotes service API token",
		Long: `Manage the API token sent to the quotes service as a bearer token.
The token is stored in your system's native credential store (Keychain on
macOS, Credential Manager on Windows, Secret Service on Linux) and never
in plain text files. The token is optional; without one, requests are
sent unauthenticated.`,
	}

	cmd.AddCommand(newCredentialSetCommand())
	cmd.AddCommand(newCredentialShowCommand())
	cmd.AddCommand(newCredentialDeleteCommand())

	return cmd
}

// newCredentialSetCommand creates the credential set subcommand
func newCredentialSetCommand() *cobra.Command {
	var (
		value    string
		useStdin bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the API token",
		Long: `Store the API token in the system keyring.

Examples:
  # Set the token with an interactive prompt (recommended for local use)
  quotedash credential set

  # Set the token from stdin (recommended for automation/CI)
  printf '%s' "$QUOTES_TOKEN" | quotedash credential set --stdin

  # Set the token inline (NOT recommended - visible in shell history)
  quotedash credential set --value secret123`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string

			switch {
			case useStdin:
				limitedReader := io.LimitReader(cmd.InOrStdin(), maxCredentialSize+1)
				inputBytes, err := io.ReadAll(limitedReader)

				// Zero the buffer on all exit paths
				defer func() {
					for i := range inputBytes {
						inputBytes[i] = 0
					}
				}()

				if err != nil {
					return fmt.Errorf("failed to read from stdin: %w", err)
				}
				if len(inputBytes) > maxCredentialSize {
					return fmt.Errorf("token exceeds maximum size of %d bytes", maxCredentialSize)
				}

				trimmed := bytes.TrimRight(inputBytes, "\r\n")
				if len(trimmed) == 0 {
					return fmt.Errorf("token cannot be empty")
				}
				token = string(trimmed)

			case value != "":
				_, _ = fmt.Fprintln(cmd.OutOrStderr(), "Warning: Using --value exposes the token in shell history.")
				_, _ = fmt.Fprintln(cmd.OutOrStderr(), "Consider the interactive prompt (omit --value) or --stdin instead.")

				if len(value) > maxCredentialSize {
					return fmt.Errorf("token exceeds maximum size of %d bytes", maxCredentialSize)
				}
				token = value

			default:
				_, _ = fmt.Fprint(cmd.OutOrStdout(), "Enter API token: ")

				tokenBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
				_, _ = fmt.Fprintln(cmd.OutOrStdout())

				defer func() {
					for i := range tokenBytes {
						tokenBytes[i] = 0
					}
				}()

				if err != nil {
					return fmt.Errorf("failed to read token: %w", err)
				}
				if len(tokenBytes) > maxCredentialSize {
					return fmt.Errorf("token exceeds maximum size of %d bytes", maxCredentialSize)
				}
				token = string(tokenBytes)
			}

			if strings.TrimSpace(token) == "" {
				return fmt.Errorf("token cannot be empty or whitespace-only")
			}

			credStore := storage.NewKeyringCredentialStore()
			if err := credStore.Set(storage.APITokenKey, token); err != nil {
				return fmt.Errorf("failed to store token: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ API token stored")
			return nil
		},
	}

	cmd.Flags().StringVarP(&value, "value", "v", "", "Token value (optional - will prompt securely if omitted)")
	cmd.Flags().BoolVar(&useStdin, "stdin", false, "Read the token from stdin (recommended for automation)")

	cmd.MarkFlagsMutuallyExclusive("stdin", "value")

	return cmd
}

// newCredentialShowCommand creates the credential show subcommand
func newCredentialShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show whether an API token is configured",
		Long: `Show whether an API token is configured.
Only the status is displayed, never the token value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			credStore := storage.NewKeyringCredentialStore()

			if _, err := credStore.Get(storage.APITokenKey); err != nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No API token configured.")
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "\nSet one with: quotedash credential set")
				return nil
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "API token: (set)")
			return nil
		},
	}

	return cmd
}

// newCredentialDeleteCommand creates the credential delete subcommand
func newCredentialDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove the stored API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			credStore := storage.NewKeyringCredentialStore()

			if err := credStore.Delete(storage.APITokenKey); err != nil {
				return fmt.Errorf("failed to delete token: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ API token removed")
			return nil
		},
	}

	return cmd
}
