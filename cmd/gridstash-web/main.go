// GridStash browser UI entry point. Built with GOOS=js GOARCH=wasm
// and served by 'gridstash ui'.
package main

import (
	"fmt"

	"github.com/gridstash/gridstash/internal/web"
)

func main() {
	web.Run()

	// Reached only outside the browser runtime.
	fmt.Println("This binary is the wasm app shell; serve it with 'gridstash ui'.")
}
