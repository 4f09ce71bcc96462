// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "tavily-api-key", "  tvly-abc123  \n")
				writeFile(t, dir, "anthropic-api-key", "sk-ant-xyz")
				writeFile(t, dir, "gemini-api-key", "AIza-789\n")
				return dir
			},
			want: map[string]string{
				"tavily-api-key":    "tvly-abc123",
				"anthropic-api-key": "sk-ant-xyz",
				"gemini-api-key":    "AIza-789",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "anthropic-api-key", "valid-key")
				writeFile(t, dir, "gemini-api-key", "")
				writeFile(t, dir, "tavily-api-key", "   \n\t  ")
				return dir
			},
			want: map[string]string{"anthropic-api-key": "valid-key"},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, "tavily-api-key", "tvly-real")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{"tavily-api-key": "tvly-real"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	dir := t.TempDir()
	writeFile(t, dir, "tavily-api-key", "value123")

	badPath := filepath.Join(dir, "gemini-api-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "value123", got["tavily-api-key"])
	_, hasBad := got["gemini-api-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func TestResolve(t *testing.T) {
	loaded := map[string]string{"tavily-api-key": "from-file"}

	t.Setenv("TAVILY_API_KEY", "from-env")
	t.Setenv("GEMINI_API_KEY", " gm-env \n")
	t.Setenv("ANTHROPIC_API_KEY", "")

	assert.Equal(t, "explicit", Resolve("explicit", loaded, TavilyKey))
	assert.Equal(t, "from-file", Resolve("", loaded, TavilyKey))
	assert.Equal(t, "gm-env", Resolve("", loaded, GeminiKey))
	assert.Equal(t, "", Resolve("", loaded, AnthropicKey))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
