package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const (
	// Version is the current version of QuoteDash
	Version = "1.0.0"
)

// Config holds the global configuration for the QuoteDash CLI
type Config struct {
	ConfigDir string
	Debug     bool
}

// GlobalConfig is the shared configuration instance
var GlobalConfig = &Config{}

// NewRootCommand creates the root cobra command for QuoteDash
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quotedash",
		Short: "QuoteDash - A sequential fetch dashboard for quotes",
		Long: `QuoteDash is a terminal dashboard that fetches quotes through a fixed
four-step pipeline: Quotes, Author Info, Related Quotes, and a Random Quote.
Each step waits for the previous one, advances a progress indicator through
fixed checkpoints, and renders its payload into its own region.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			if GlobalConfig.Debug {
				log.SetOutput(os.Stderr)
				log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
			} else {
				log.SetOutput(io.Discard)
			}

			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&GlobalConfig.Debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&GlobalConfig.ConfigDir, "config-dir", "", "Configuration directory (default: ~/.quotedash)")

	cmd.AddCommand(NewDashCommand())
	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewHistoryCommand())
	cmd.AddCommand(NewCredentialCommand())

	return cmd
}

// initConfig initializes the QuoteDash configuration directory and files
func initConfig() error {
	// Environment variable always takes priority (for testing)
	if envDir := os.Getenv("QUOTEDASH_CONFIG_DIR"); envDir != "" {
		GlobalConfig.ConfigDir = envDir
	} else if GlobalConfig.ConfigDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}
		GlobalConfig.ConfigDir = filepath.Join(homeDir, ".quotedash")
	}

	if err := os.MkdirAll(GlobalConfig.ConfigDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create the default app config on first run
	configFile := filepath.Join(GlobalConfig.ConfigDir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := WriteDefaultAppConfig(configFile); err != nil {
			return fmt.Errorf("failed to write default config: %w", err)
		}
	}

	return nil
}

// GetConfigDir returns the configuration directory path
// Priority order: 1) QUOTEDASH_CONFIG_DIR env var (for testing), 2) GlobalConfig.ConfigDir, 3) ~/.quotedash
func GetConfigDir() string {
	if envDir := os.Getenv("QUOTEDASH_CONFIG_DIR"); envDir != "" {
		return envDir
	}
	if GlobalConfig.ConfigDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".quotedash"
		}
		return filepath.Join(homeDir, ".quotedash")
	}
	return GlobalConfig.ConfigDir
}

// GetAppConfigPath returns the path to the app configuration file
func GetAppConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// GetDatabasePath returns the path to the run history database
func GetDatabasePath() string {
	return filepath.Join(GetConfigDir(), "quotedash.db")
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}
