// Package main is the entry point for the formkit CLI.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/formkit/cmd/formkit/internal/cli"
)

// Version is injected at build time.
var Version = "dev"

func main() {
	rootCmd := cli.NewRootCmd()
	rootCmd.Version = Version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
