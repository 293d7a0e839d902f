// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for Libraryms using Cobra.
// It wires configuration, logging and i18n, and provides commands that
// delegate to the api and db packages. CLI code should remain thin.
package cli
