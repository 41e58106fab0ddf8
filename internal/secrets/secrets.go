// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads provider credentials from a directory of plain-text
// files. The filename is the key name and the trimmed file contents are the
// value. Known keys: search-api-key, openai-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Key names recognised by the research-agent CLI.
const (
	SearchAPIKey = "search-api-key"
	OpenAIAPIKey = "openai-api-key"
)

// Set maps key names to credential values.
type Set map[string]string

// Load reads every regular, non-hidden file in dir. A missing directory is
// not an error and yields an empty Set. Unreadable files are reported on
// stderr and skipped.
func Load(dir string) (Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	set := make(Set)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			set[name] = value
		}
	}
	return set, nil
}

// Get returns the value stored under key, or "".
func (s Set) Get(key string) string {
	return s[key]
}

// Resolve returns the first non-blank candidate, trimmed, falling back to
// the value stored under key. It returns "" when nothing is configured,
// which callers treat as offline mode.
func (s Set) Resolve(key string, candidates ...string) string {
	for _, c := range candidates {
		if v := strings.TrimSpace(c); v != "" {
			return v
		}
	}
	return s.Get(key)
}
