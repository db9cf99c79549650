// Package web is the WebAssembly browser UI. It drives the same
// controller as the CLI; only rendering and input handling live here.
package web

import (
	"net/http"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/gridstash/gridstash/internal/version"
)

// serverURLEnv carries the backend base URL into the browser app.
const serverURLEnv = "GRIDSTASH_SERVER_URL"

// Handler returns the HTTP handler that serves the wasm app shell.
func Handler(backendURL string) http.Handler {
	return &app.Handler{
		Name:        "GridStash",
		ShortName:   "GridStash",
		Description: "Tabular file storage client",
		Version:     version.Version,
		Env: map[string]string{
			serverURLEnv: backendURL,
		},
		Styles: []string{"/web/app.css"},
	}
}

// Run registers routes and hands control to the browser runtime. It
// returns immediately when not running under wasm.
func Run() {
	app.Route("/", func() app.Composer { return &AppView{} })
	app.RunWhenOnBrowser()
}
