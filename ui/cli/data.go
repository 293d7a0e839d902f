// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shivamvadalia/libraryms/internal/backup"
	"github.com/shivamvadalia/libraryms/internal/db"
	"github.com/shivamvadalia/libraryms/internal/i18n"
	"github.com/shivamvadalia/libraryms/internal/model"
)

func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup [output-file]",
		Short: i18n.T("cli.backup_short"),
		Long: `Dumps all books, users and book transactions into a single,
Zstandard-compressed JSON file.

If an output file is specified, '.zst' will be appended to the name if it's not already present.
If no output file is specified, 'libraryms-backup-YYYY-MM-DD.json.zst' is used.

Examples:
  libraryms backup
  libraryms backup my-backup.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			outputFile := backup.Filename(name, time.Now())

			handle, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = handle.Close() }()

			var data *model.BackupData
			err = handle.WithSession(cmd.Context(), func(s *db.Session) (err error) {
				data, err = s.Export(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}

			outf, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("could not create file: %w", err)
			}
			if err := backup.Write(outf, data); err != nil {
				_ = outf.Close()
				return err
			}
			if err := outf.Close(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.backup_done", outputFile))
			return nil
		},
	}
}

func newRestoreCmd() *cobra.Command {
	var full, yes bool
	cmd := &cobra.Command{
		Use:   "restore <backup-file>",
		Short: i18n.T("cli.restore_short"),
		Long: `Restores data from a backup written by 'libraryms backup'.

By default rows are integrated: rows whose id already exists are left alone.
With --full every table is wiped first. A full restore asks for confirmation
on a terminal; pass --yes to skip the prompt.

Examples:
  libraryms restore ./libraryms-backup-2025-10-26.json.zst
  libraryms restore --full --yes ./libraryms-backup-2025-10-26.json.zst`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputFile := args[0]
			if full && !yes {
				if !stdinIsTerminal() {
					return errors.New(i18n.T("cli.restore_needs_yes"))
				}
				if promptForConfirmation(cmd.OutOrStdout(), i18n.T("cli.restore_confirm")) != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.restore_aborted"))
					return nil
				}
			}

			f, err := os.Open(inputFile)
			if err != nil {
				return fmt.Errorf("could not open file: %w", err)
			}
			defer func() { _ = f.Close() }()
			data, err := backup.Read(f)
			if err != nil {
				return err
			}

			handle, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = handle.Close() }()

			if err := importInto(cmd, handle, data, full); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.restore_done", inputFile))
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Perform a full, destructive restore (wipes all existing data first)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func importInto(cmd *cobra.Command, handle *db.DB, data *model.BackupData, full bool) error {
	return handle.WithSession(cmd.Context(), func(s *db.Session) error {
		return s.Import(cmd.Context(), data, full)
	})
}

func newMigrateCmd() *cobra.Command {
	var targetType, targetDsn string
	cmd := &cobra.Command{
		Use:   "migrate --target-type <db-type> --target-dsn <dsn>",
		Short: "Copy all data from the configured database into another one",
		Long: `Exports every row from the configured database and performs a full,
destructive restore into the target database. Tables are created on the
target if they do not exist.

Example:
  libraryms migrate --target-type postgres --target-dsn "postgres://libraryms@localhost/libraryms"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if targetType == "" || targetDsn == "" {
				return errors.New("--target-type and --target-dsn are required")
			}
			source, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = source.Close() }()

			var data *model.BackupData
			err = source.WithSession(cmd.Context(), func(s *db.Session) (err error) {
				data, err = s.Export(cmd.Context())
				return err
			})
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			target, err := db.New(targetType, targetDsn)
			if err != nil {
				return fmt.Errorf("failed to open target database: %w", err)
			}
			defer func() { _ = target.Close() }()
			if err := importInto(cmd, target, data, true); err != nil {
				return fmt.Errorf("import into target failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d books, %d users and %d transactions to %s\n",
				len(data.Books), len(data.Users), len(data.Transactions), targetType)
			return nil
		},
	}
	cmd.Flags().StringVar(&targetType, "target-type", "", "Target database type (sqlite, postgres, mysql)")
	cmd.Flags().StringVar(&targetDsn, "target-dsn", "", "Target database connection string")
	return cmd
}

func newDBMaintainCmd() *cobra.Command {
	var skipIntegrity bool
	var timeoutSec int
	cmd := &cobra.Command{
		Use:   "db-maintain",
		Short: i18n.T("cli.maintain_short"),
		Long:  `Runs engine-specific maintenance tasks (VACUUM, OPTIMIZE TABLE, PRAGMA optimize).`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := db.MaintenanceOptions{
				SkipIntegrity: skipIntegrity,
				Timeout:       time.Duration(timeoutSec) * time.Second,
			}
			if err := db.RunDBMaintenance(cmd.Context(), appConfig.Database.Type, appConfig.Database.Dsn, opts); err != nil {
				return fmt.Errorf("maintenance failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.maintain_done"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipIntegrity, "skip-integrity", false, "Skip integrity_check (SQLite) during maintenance")
	cmd.Flags().IntVar(&timeoutSec, "timeout", 0, "Timeout in seconds for maintenance (0 means no timeout)")
	return cmd
}
