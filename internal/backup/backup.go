// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

// Package backup encodes BackupData as Zstandard-compressed JSON.
package backup

import (
	"fmt"
	"io"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/zstd"

	"github.com/shivamvadalia/libraryms/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Extension is appended to backup file names that lack it.
const Extension = ".zst"

// DefaultFilename returns the file name used when the caller names none.
func DefaultFilename(now time.Time) string {
	return fmt.Sprintf("libraryms-backup-%s.json.zst", now.Format("2006-01-02"))
}

// Filename resolves the output path for a backup: the default name when
// name is empty, otherwise name with Extension appended if missing.
func Filename(name string, now time.Time) string {
	if name == "" {
		return DefaultFilename(now)
	}
	if !strings.HasSuffix(name, Extension) {
		return name + Extension
	}
	return name
}

// Write streams data as indented JSON through a zstd encoder into w.
func Write(w io.Writer, data *model.BackupData) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		_ = zw.Close()
		return fmt.Errorf("encode backup: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush zstd writer: %w", err)
	}
	return nil
}

// Read decodes a backup written by Write.
func Read(r io.Reader) (*model.BackupData, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()

	var data model.BackupData
	if err := json.NewDecoder(zr).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	return &data, nil
}
