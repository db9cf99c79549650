package cli

import (
	"github.com/spf13/cobra"

	"github.com/gridstash/gridstash/internal/devserver"
	"github.com/gridstash/gridstash/internal/logging"
)

// newDevServerCmd creates the 'devserver' command.
func newDevServerCmd() *cobra.Command {
	var addr string
	var secret string

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run a local development backend",
		Long: `Run an in-memory stand-in for the storage backend.

All state is lost on exit. Intended for local development of the CLI
and web UI; not for production use.

Example:
  gridstash devserver --addr :8000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := devserver.New(secret, logging.NewLogger("server"))
			return server.Start(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8000", "Listen address")
	cmd.Flags().StringVar(&secret, "secret", "dev-secret", "HMAC secret for signing tokens")

	return cmd
}
