// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface for Libraryms using the Cobra
// library. It defines the root command (which serves the HTTP API), the
// maintenance subcommands and the shared startup path.

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/shivamvadalia/libraryms/internal/config"
	"github.com/shivamvadalia/libraryms/internal/db"
	"github.com/shivamvadalia/libraryms/internal/i18n"
	"github.com/shivamvadalia/libraryms/internal/logging"
)

var cfgFile string
var verbose bool
var showVersionFlag bool

var appConfig config.Config

// stdinIsTerminal and confirmInput are variables so tests can drive the
// confirmation prompt.
var stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
var confirmInput io.Reader = os.Stdin

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	defaults := config.Defaults()
	firstRun := optionalConfigPath == nil && !config.Exists()

	appConfig, err = config.LoadConfig[config.Config](cmd, defaults, optionalConfigPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// Empty values in a config file fall back to the defaults.
	if appConfig.Database.Type == "" {
		appConfig.Database.Type = defaults["database.type"].(string)
	}
	if appConfig.Database.Dsn == "" {
		appConfig.Database.Dsn = defaults["database.dsn"].(string)
	}
	if appConfig.Language == "" {
		appConfig.Language = defaults["language"].(string)
	}

	i18n.Init(appConfig.Language)

	level := appConfig.Log.Level
	if verbose {
		level = "debug"
		db.SetDebug(true)
	}
	if level != "" {
		if err := logging.SetLevel(level); err != nil {
			logging.Warnf("%v", err)
		}
	}

	if firstRun {
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			// The app can run on defaults.
			logging.Warnf("could not write default config file: %v", writeErr)
		} else if path, perr := config.GetConfigPath(false); perr == nil {
			logging.Infof("%s", i18n.T("cli.config_written", path))
		}
	}
	return nil
}

// openDB opens the configured database. Callers close it.
func openDB() (*db.DB, error) {
	return db.New(appConfig.Database.Type, appConfig.Database.Dsn)
}

// Execute runs the CLI entrypoint. The main package should call this
// function and handle process exit.
func Execute() error {
	return NewRootCmd().Execute()
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// NewRootCmd creates and configures a new root cobra command. Every call
// builds a fresh command tree, so tests can execute it in isolation.
func NewRootCmd() *cobra.Command {
	verbose = false
	showVersionFlag = false
	cfgFile = ""

	cmd := &cobra.Command{
		Use:   "libraryms",
		Short: i18n.T("cli.root_short"),
		Long: `Libraryms keeps track of books, users and book checkouts and exposes
them through a small HTTP API backed by SQLite, PostgreSQL or MySQL.

Running without a subcommand starts the HTTP server (same as "serve").`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if showVersionFlag {
				return nil
			}
			return setupDefaultServices(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersionFlag {
				fmt.Fprintln(cmd.OutOrStdout(), compositeVersion())
				return nil
			}
			return runServe(cmd)
		},
	}
	cmd.Version = compositeVersion()

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug logs including SQL)")
	cmd.PersistentFlags().BoolVarP(&showVersionFlag, "version", "V", false, "Print version and exit")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("language", "en", `Message language ("en", "de")`)
	cmd.PersistentFlags().String("log.level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("database.type", "sqlite", "Database type (sqlite, postgres, mysql)")
	cmd.PersistentFlags().String("database.dsn", "./libraryMS.db", "Database connection string (DSN)")
	cmd.PersistentFlags().String("server.addr", ":8000", "HTTP listen address")

	cmd.AddCommand(
		newServeCmd(),
		newBackupCmd(),
		newRestoreCmd(),
		newMigrateCmd(),
		newDBMaintainCmd(),
		newVersionCmd(),
		newBookCmd(),
		newUserCmd(),
		newCheckoutCmd(),
		newCheckedOutCmd(),
	)
	return cmd
}

// promptForConfirmation displays a prompt and reads a line from confirmInput.
func promptForConfirmation(out io.Writer, prompt string) string {
	fmt.Fprint(out, prompt)
	reader := bufio.NewReader(confirmInput)
	answer, _ := reader.ReadString('\n')
	return strings.TrimSpace(strings.ToLower(answer))
}
