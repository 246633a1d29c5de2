package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corevmctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[Runtime]
CyclesPerExec = 5000

[Log]
Level = "debug"
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Runtime.CyclesPerExec)
	assert.Equal(t, 64, cfg.Runtime.StackCapacity) // untouched default
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corevmctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[Runtime]
TypoedField = 1
`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/corevmctl.toml")
	assert.Error(t, err)
}
