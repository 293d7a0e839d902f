// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks the locale files against the Go sources. It fails when
// code asks for a key that en.yaml lacks or when another locale misses a key
// of en.yaml, and warns about keys no source file mentions.
//
// Run it from the repository root:
//
//	go run ./tools/i18n-linter
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
	projectRoot   = "."
)

// report holds the findings of one lint run. Every list is sorted.
type report struct {
	Undefined []string            // requested via i18n.T but absent from the primary locale
	Missing   map[string][]string // locale file -> keys of the primary locale it lacks
	Orphaned  []string            // in the primary locale but not mentioned in any source file
}

func (r report) failed() bool {
	if len(r.Undefined) > 0 {
		return true
	}
	for _, keys := range r.Missing {
		if len(keys) > 0 {
			return true
		}
	}
	return false
}

func main() {
	r, err := lint(projectRoot, localesDir)
	if err != nil {
		fmt.Printf("i18n-linter: %v\n", err)
		os.Exit(1)
	}

	for _, k := range r.Undefined {
		fmt.Printf("undefined: %s\n", k)
	}
	files := make([]string, 0, len(r.Missing))
	for f := range r.Missing {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		for _, k := range r.Missing[f] {
			fmt.Printf("missing in %s: %s\n", f, k)
		}
	}
	for _, k := range r.Orphaned {
		fmt.Printf("orphaned (warning): %s\n", k)
	}

	if r.failed() {
		os.Exit(1)
	}
	fmt.Println("all translation files are consistent")
}

func lint(root, locales string) (report, error) {
	r := report{Missing: map[string][]string{}}

	primary, err := loadKeysFromLocale(filepath.Join(locales, primaryLocale))
	if err != nil {
		return r, fmt.Errorf("load primary locale: %w", err)
	}
	requested, literals, err := scanSources(root)
	if err != nil {
		return r, fmt.Errorf("scan sources: %w", err)
	}

	for k := range requested {
		if _, ok := primary[k]; !ok {
			r.Undefined = append(r.Undefined, k)
		}
	}
	for k := range primary {
		if _, ok := literals[k]; !ok {
			r.Orphaned = append(r.Orphaned, k)
		}
	}
	sort.Strings(r.Undefined)
	sort.Strings(r.Orphaned)

	files, err := filepath.Glob(filepath.Join(locales, "*.yaml"))
	if err != nil {
		return r, err
	}
	for _, f := range files {
		if filepath.Base(f) == primaryLocale {
			continue
		}
		keys, err := loadKeysFromLocale(f)
		if err != nil {
			return r, fmt.Errorf("load %s: %w", f, err)
		}
		var missing []string
		for k := range primary {
			if _, ok := keys[k]; !ok {
				missing = append(missing, k)
			}
		}
		sort.Strings(missing)
		r.Missing[filepath.Base(f)] = missing
	}
	return r, nil
}

var (
	reTranslate = regexp.MustCompile(`i18n\.T\("([^"]+)"`)
	reLiteral   = regexp.MustCompile(`"([a-z][a-z0-9_]*(?:\.[a-z0-9_]+)*)"`)
)

// scanSources returns the keys passed directly to i18n.T and every
// key-shaped string literal found in non-test Go files under root. Keys may
// reach i18n.T through a variable, so literals count as usage.
func scanSources(root string) (requested, literals map[string]struct{}, err error) {
	requested = make(map[string]struct{})
	literals = make(map[string]struct{})

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if path != root && (name == "tools" || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, m := range reTranslate.FindAllStringSubmatch(string(content), -1) {
			requested[m[1]] = struct{}{}
		}
		for _, m := range reLiteral.FindAllStringSubmatch(string(content), -1) {
			literals[m[1]] = struct{}{}
		}
		return nil
	})
	return requested, literals, err
}

// loadKeysFromLocale reads a YAML file and returns a flat map of its keys.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}

	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

// flattenYAML converts a nested map into dot-separated keys, the way
// go-i18n names nested messages.
func flattenYAML(prefix string, node interface{}, keys map[string]struct{}) {
	switch v := node.(type) {
	case map[string]interface{}:
		for k, val := range v {
			next := k
			if prefix != "" {
				next = prefix + "." + k
			}
			flattenYAML(next, val, keys)
		}
	default:
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
	}
}
