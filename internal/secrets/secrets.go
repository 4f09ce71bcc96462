// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files, with
// environment variables as a fallback. Each file in the directory is one
// secret: the filename is the key name and the trimmed contents the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir is where keys are looked up when no directory is configured.
const DefaultDir = ".secrets/"

// Key names one credential by its file name and environment variable.
type Key struct {
	File string
	Env  string
}

// Keys used by the providers.
var (
	TavilyKey    = Key{File: "tavily-api-key", Env: "TAVILY_API_KEY"}
	AnthropicKey = Key{File: "anthropic-api-key", Env: "ANTHROPIC_API_KEY"}
	GeminiKey    = Key{File: "gemini-api-key", Env: "GEMINI_API_KEY"}
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory is not an error; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// Resolve picks the value for k: an explicit value wins, then the loaded
// file, then the environment. It returns "" when none is set.
func Resolve(explicit string, loaded map[string]string, k Key) string {
	if explicit != "" {
		return explicit
	}
	if v := loaded[k.File]; v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv(k.Env))
}
