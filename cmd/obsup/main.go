package main

import (
	"fmt"
	"os"

	"github.com/noaccident/obsup/internal/cmd"
)

// Build metadata injected via -ldflags.
var (
	version   = "dev"
	commit    = "HEAD"
	buildDate = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, buildDate)
	if err := cmd.Execute(); err != nil {
		// Errors raised before the logger is initialized have no other sink.
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
