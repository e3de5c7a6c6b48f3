// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) string
		want   map[string]string
		errMsg string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "indiankanoon-token", "  tok_abc123  \n")
				writeFile(t, dir, "google-api-key", "gk_xyz789")
				writeFile(t, dir, "search-engine-id", "cx-42\n")
				return dir
			},
			want: map[string]string{
				"indiankanoon-token": "tok_abc123",
				"google-api-key":     "gk_xyz789",
				"search-engine-id":   "cx-42",
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
				writeFile(t, dir, "indiankanoon-token", "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				"indiankanoon-token": "valid-key",
			},
		},
		{
			name: "skips dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, "indiankanoon-token", "tok_real")
				return dir
			},
			want: map[string]string{
				"indiankanoon-token": "tok_real",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "indiankanoon-token", "ak_123")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				"indiankanoon-token": "ak_123",
			},
		},
		{
			name: "returns empty map for empty directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir, quietLogger())
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission bits")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	// Create a file then remove read permission.
	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir, quietLogger())
	require.NoError(t, err)
	// The good file should still be returned; the bad file is skipped with a warning.
	assert.Equal(t, "value123", got["good-key"])
	_, hasBad := got["bad-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func TestLoadWarnsOnUnreadableSecret(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, TokenKey, "tok_live")
	// A dangling link is listed as a file but cannot be read, even by root.
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "serpapi-key")))

	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetLevel(logrus.WarnLevel)

	got, err := Load(dir, log)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{TokenKey: "tok_live"}, got)
	assert.Contains(t, buf.String(), "could not read secret")
	assert.Contains(t, buf.String(), "secret=serpapi-key")
	assert.Equal(t, "tok_live", Token("", got))
}

func TestLoadWithoutLogger(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "broken")))

	got, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestToken(t *testing.T) {
	s := map[string]string{TokenKey: "from-file"}
	assert.Equal(t, "from-config", Token("from-config", s))
	assert.Equal(t, "from-file", Token("", s))
	assert.Equal(t, "", Token("", map[string]string{}))
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
