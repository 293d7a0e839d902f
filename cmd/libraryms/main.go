// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

// Command libraryms is the installable form of the root package:
//
//	go install github.com/shivamvadalia/libraryms/cmd/libraryms@latest
package main

import (
	"os"

	"github.com/shivamvadalia/libraryms/internal/logging"
	"github.com/shivamvadalia/libraryms/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		logging.Errorf("%v", err)
		os.Exit(1)
	}
}
