// Package cli provides the command-line interface for gridstash.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gridstash/gridstash/internal/api"
	"github.com/gridstash/gridstash/internal/config"
	httpx "github.com/gridstash/gridstash/internal/http"
	"github.com/gridstash/gridstash/internal/logging"
	"github.com/gridstash/gridstash/internal/version"
)

var (
	// Global flags
	cfgFile   string
	token     string
	tokenFile string // Path to file containing the access token
	serverURL string
	verbose   bool

	// Global logger
	logger *logging.Logger

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// GetLogger returns the CLI logger, initializing it if needed.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefaultCLILogger()
	}
	return logger
}

// GetContext returns the signal-cancellable root context.
func GetContext() context.Context {
	if rootContext == nil {
		return context.Background()
	}
	return rootContext
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gridstash",
		Short: "GridStash - client for the GridStash tabular file service",
		Long: `GridStash ` + version.Version + ` - Built: ` + version.BuildTime + `
Client for the GridStash tabular file service.

Upload CSV and spreadsheet files, list them, page through their rows,
and delete them. Credentials are resolved from --token, then
--token-file, then the GRIDSTASH_TOKEN environment variable.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewDefaultCLILogger()
			if verbose {
				logging.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Access token (overrides all other sources)")
	rootCmd.PersistentFlags().StringVar(&tokenFile, "token-file", "", "Path to file containing the access token")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server-url", "", "Server base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")

	rootCmd.Version = version.Version + " (" + version.BuildTime + ")"

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newFilesCmd())
	rootCmd.AddCommand(newDevServerCmd())
	rootCmd.AddCommand(newUICmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	rootContext, cancelFunc = context.WithCancel(context.Background())
	defer cancelFunc()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range sigChan {
			fmt.Fprintf(os.Stderr, "\nReceived %v, cancelling...\n", sig)
			cancelFunc()
		}
	}()

	return NewRootCmd().Execute()
}

// loadConfig loads configuration honoring the --config and --server-url
// flags.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = config.ConfigFilePath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// staticToken adapts an already-resolved token string to the gateway's
// token source. Reading it fresh per call still holds; the CLI process
// is single-shot.
type staticToken string

func (t staticToken) Token() string { return string(t) }

// resolveToken applies the flag > file > environment precedence.
func resolveToken() string {
	return config.ResolveToken(token, tokenFile)
}

// newGateway builds an API client from config and the resolved token.
func newGateway() (api.Gateway, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	httpClient, err := httpx.ConfigureHTTPClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
	}

	return api.NewClient(cfg.ServerURL, staticToken(resolveToken()), httpClient)
}

// requireToken errors out with a hint when no credential source yields
// a token.
func requireToken() error {
	if resolveToken() == "" {
		return fmt.Errorf("not logged in: run 'gridstash login' or set GRIDSTASH_TOKEN")
	}
	return nil
}
