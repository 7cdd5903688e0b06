// Command controlbind attaches typed listeners to native map controls and
// replays recorded native events through the binding layer.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/controlbind/cmd/controlbind/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
