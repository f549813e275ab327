// Package main is the entry point for the ndncctl CLI/TUI.
package main

import (
	"os"

	"github.com/ndnc-automation/ndncctl/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
