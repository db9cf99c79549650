// Package cli configuration management commands.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gridstash/gridstash/internal/config"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage gridstash configuration",
		Long: `Configuration management commands.

Commands:
  init  - Interactive configuration setup
  show  - Display current configuration
  path  - Show configuration file path`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigPathCmd())

	return configCmd
}

// newConfigInitCmd creates the 'config init' command.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration interactively",
		Long: `Interactive configuration setup.

The configuration is saved to ~/.config/gridstash/config.ini.
Use --force to overwrite an existing configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := config.ConfigFilePath()
			if cfgFile != "" {
				configPath = cfgFile
			}

			if !force {
				if _, err := os.Stat(configPath); err == nil {
					fmt.Printf("Configuration already exists at: %s\n", configPath)
					fmt.Println("Use --force to overwrite or run 'config show' to view current config.")
					return nil
				}
			}

			fmt.Println("GridStash Configuration Setup")
			fmt.Println("=============================")
			fmt.Println()

			reader := bufio.NewReader(os.Stdin)
			cfg := config.DefaultConfig()

			fmt.Printf("Server URL [%s]: ", config.DefaultServerURL)
			input, _ := reader.ReadString('\n')
			if input = strings.TrimSpace(input); input != "" {
				cfg.ServerURL = input
			}

			fmt.Print("Proxy mode (no-proxy/system/manual) [system]: ")
			input, _ = reader.ReadString('\n')
			if input = strings.TrimSpace(input); input != "" {
				cfg.ProxyMode = input
			}

			if cfg.ProxyMode == "manual" {
				fmt.Print("Proxy URL: ")
				input, _ = reader.ReadString('\n')
				cfg.ProxyURL = strings.TrimSpace(input)
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(cfg, configPath); err != nil {
				return err
			}

			fmt.Printf("\nConfiguration saved to: %s\n", configPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Printf("Server URL: %s\n", cfg.ServerURL)
			fmt.Printf("Proxy mode: %s\n", cfg.ProxyMode)
			if cfg.ProxyURL != "" {
				fmt.Printf("Proxy URL:  %s\n", cfg.ProxyURL)
			}
			if resolveToken() != "" {
				fmt.Println("Token:      present")
			} else {
				fmt.Println("Token:      not set")
			}
			return nil
		},
	}
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ConfigFilePath()
			if cfgFile != "" {
				path = cfgFile
			}
			fmt.Println(path)
			return nil
		},
	}
}
