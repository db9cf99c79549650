package cli

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/gridstash/gridstash/internal/web"
)

// newUICmd creates the 'ui' command.
func newUICmd() *cobra.Command {
	var addr string
	var backendURL string

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Serve the browser UI",
		Long: `Serve the WebAssembly browser UI.

The UI talks to the backend given by --backend-url; by default it uses
the configured server URL.

Example:
  gridstash ui --addr :8080 --backend-url http://localhost:8000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := GetLogger()

			if backendURL == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				backendURL = cfg.ServerURL
			}

			e := echo.New()
			e.HideBanner = true
			e.HidePort = true
			e.Use(middleware.Recover())
			e.Any("/*", echo.WrapHandler(web.Handler(backendURL)))

			logger.Info().Str("addr", addr).Str("backend", backendURL).Msg("ui server listening")
			return e.Start(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&backendURL, "backend-url", "", "Backend base URL served to the browser app")

	return cmd
}
