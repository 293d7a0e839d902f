// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Libraryms.
//
// Usage:
//
//	go run . [flags]
//	./libraryms [flags]
//
// This starts the HTTP API. See --help for the other commands.
package main

import (
	"os"

	"github.com/shivamvadalia/libraryms/internal/logging"
	"github.com/shivamvadalia/libraryms/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		logging.Errorf("Libraryms CLI error: %v", err)
		os.Exit(1)
	}
}
