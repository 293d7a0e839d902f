// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	clog "github.com/charmbracelet/log"

	"github.com/shivamvadalia/libraryms/internal/db"
	"github.com/shivamvadalia/libraryms/internal/i18n"
	"github.com/shivamvadalia/libraryms/internal/logging"
)

// isolate runs the test from an empty temp dir with its own user config dir
// and returns the directory.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "xdg"))
	t.Setenv("HOME", tmp)
	t.Chdir(tmp)
	i18n.Init("en")

	prevLogger := logging.L
	logging.L = clog.New(io.Discard)
	t.Cleanup(func() { logging.L = prevLogger })
	return tmp
}

// executeCommand runs a fresh root command with args and returns its
// standard output and error.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// seedDB writes one book, one user and one checkout into a sqlite file.
func seedDB(t *testing.T, path string) {
	t.Helper()
	handle, err := db.New("sqlite", path)
	if err != nil {
		t.Fatalf("db.New failed: %v", err)
	}
	defer func() { _ = handle.Close() }()
	ctx := context.Background()
	err = handle.WithSession(ctx, func(s *db.Session) error {
		b, err := s.AddBook(ctx, "Dune", "Herbert")
		if err != nil {
			return err
		}
		u, err := s.AddUser(ctx, "alice")
		if err != nil {
			return err
		}
		_, err = s.CheckoutBook(ctx, u.ID, b.ID, "2024-01-01")
		return err
	})
	if err != nil {
		t.Fatalf("seeding failed: %v", err)
	}
}

func countBooks(t *testing.T, path string) int {
	t.Helper()
	handle, err := db.New("sqlite", path)
	if err != nil {
		t.Fatalf("db.New failed: %v", err)
	}
	defer func() { _ = handle.Close() }()
	ctx := context.Background()
	var n int
	err = handle.WithSession(ctx, func(s *db.Session) error {
		books, err := s.GetAllBooks(ctx)
		n = len(books)
		return err
	})
	if err != nil {
		t.Fatalf("GetAllBooks failed: %v", err)
	}
	return n
}

func TestVersionCommand(t *testing.T) {
	isolate(t)
	out, err := executeCommand(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if strings.TrimSpace(out) != compositeVersion() {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestSetupWritesDefaultConfigOnFirstRun(t *testing.T) {
	tmp := isolate(t)
	dsn := filepath.Join(tmp, "lib.db")
	if _, err := executeCommand(t, "--database.dsn", dsn, "db-maintain", "--skip-integrity"); err != nil {
		t.Fatalf("db-maintain failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmp, "xdg", "libraryms", "libraryms.yaml")); err != nil {
		t.Fatalf("expected default config to be written: %v", err)
	}
	if appConfig.Database.Dsn != dsn {
		t.Fatalf("flag should override default dsn, got %q", appConfig.Database.Dsn)
	}
}

func TestConfigFlagMustExist(t *testing.T) {
	isolate(t)
	if _, err := executeCommand(t, "--config", "/does/not/exist.yaml", "db-maintain"); err == nil {
		t.Fatalf("expected error for missing --config file")
	}
}

func TestBackupAndRestore(t *testing.T) {
	tmp := isolate(t)
	src := filepath.Join(tmp, "src.db")
	seedDB(t, src)

	out, err := executeCommand(t, "--database.dsn", src, "backup", filepath.Join(tmp, "nightly.json"))
	if err != nil {
		t.Fatalf("backup failed: %v", err)
	}
	backupFile := filepath.Join(tmp, "nightly.json.zst")
	if !strings.Contains(out, backupFile) {
		t.Fatalf("expected output to name %s, got %q", backupFile, out)
	}

	dst := filepath.Join(tmp, "dst.db")
	if _, err := executeCommand(t, "--database.dsn", dst, "restore", backupFile); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if n := countBooks(t, dst); n != 1 {
		t.Fatalf("expected 1 restored book, got %d", n)
	}

	// Integrating the same backup again skips existing rows.
	if _, err := executeCommand(t, "--database.dsn", dst, "restore", backupFile); err != nil {
		t.Fatalf("second restore failed: %v", err)
	}
	if n := countBooks(t, dst); n != 1 {
		t.Fatalf("expected integration to skip existing rows, got %d books", n)
	}
}

func TestBackupDefaultFilename(t *testing.T) {
	tmp := isolate(t)
	src := filepath.Join(tmp, "src.db")
	seedDB(t, src)

	if _, err := executeCommand(t, "--database.dsn", src, "backup"); err != nil {
		t.Fatalf("backup failed: %v", err)
	}
	want := "libraryms-backup-" + time.Now().Format("2006-01-02") + ".json.zst"
	if _, err := os.Stat(filepath.Join(tmp, want)); err != nil {
		t.Fatalf("expected %s in working directory: %v", want, err)
	}
}

func TestRestoreFull_Confirmation(t *testing.T) {
	tmp := isolate(t)
	src := filepath.Join(tmp, "src.db")
	seedDB(t, src)
	if _, err := executeCommand(t, "--database.dsn", src, "backup", filepath.Join(tmp, "b.json.zst")); err != nil {
		t.Fatalf("backup failed: %v", err)
	}
	backupFile := filepath.Join(tmp, "b.json.zst")

	origTerm, origIn := stdinIsTerminal, confirmInput
	t.Cleanup(func() { stdinIsTerminal, confirmInput = origTerm, origIn })

	// No terminal and no --yes: refuse.
	stdinIsTerminal = func() bool { return false }
	if _, err := executeCommand(t, "--database.dsn", src, "restore", "--full", backupFile); err == nil {
		t.Fatalf("expected full restore without terminal to be refused")
	}

	// Terminal, user declines.
	stdinIsTerminal = func() bool { return true }
	confirmInput = strings.NewReader("no\n")
	out, err := executeCommand(t, "--database.dsn", src, "restore", "--full", backupFile)
	if err != nil {
		t.Fatalf("declined restore should not fail: %v", err)
	}
	if !strings.Contains(out, i18n.T("cli.restore_aborted")) {
		t.Fatalf("expected abort message, got %q", out)
	}

	// Add a row that a full restore must wipe.
	handle, err := db.New("sqlite", src)
	if err != nil {
		t.Fatalf("db.New failed: %v", err)
	}
	ctx := context.Background()
	_ = handle.WithSession(ctx, func(s *db.Session) error {
		_, err := s.AddBook(ctx, "Emma", "Austen")
		return err
	})
	_ = handle.Close()
	if n := countBooks(t, src); n != 2 {
		t.Fatalf("expected 2 books before restore, got %d", n)
	}

	// Terminal, user confirms.
	confirmInput = strings.NewReader("yes\n")
	if _, err := executeCommand(t, "--database.dsn", src, "restore", "--full", backupFile); err != nil {
		t.Fatalf("confirmed restore failed: %v", err)
	}
	if n := countBooks(t, src); n != 1 {
		t.Fatalf("expected full restore to leave 1 book, got %d", n)
	}

	// --yes skips the prompt entirely.
	stdinIsTerminal = func() bool { return false }
	if _, err := executeCommand(t, "--database.dsn", src, "restore", "--full", "--yes", backupFile); err != nil {
		t.Fatalf("restore --yes failed: %v", err)
	}
}

func TestMigrate(t *testing.T) {
	tmp := isolate(t)
	src := filepath.Join(tmp, "src.db")
	seedDB(t, src)
	dst := filepath.Join(tmp, "dst.db")

	if _, err := executeCommand(t, "--database.dsn", src, "migrate"); err == nil {
		t.Fatalf("expected migrate without target to fail")
	}
	out, err := executeCommand(t, "--database.dsn", src, "migrate", "--target-type", "sqlite", "--target-dsn", dst)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(out, "Migrated 1 books, 1 users and 1 transactions") {
		t.Fatalf("unexpected migrate output %q", out)
	}
	if n := countBooks(t, dst); n != 1 {
		t.Fatalf("expected 1 migrated book, got %d", n)
	}
}

func TestDBMaintain_UnsupportedType(t *testing.T) {
	isolate(t)
	if _, err := executeCommand(t, "--database.type", "oracle", "db-maintain"); err == nil {
		t.Fatalf("expected db-maintain to fail for unsupported type")
	}
}

func TestRunHTTPServer_GracefulShutdown(t *testing.T) {
	isolate(t)
	appConfig.Server.ShutdownTimeout = 2 * time.Second
	t.Cleanup(func() { appConfig.Server.ShutdownTimeout = 0 })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runHTTPServer(ctx, ln, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != "ok" {
		t.Fatalf("unexpected body %q", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not shut down")
	}
}
