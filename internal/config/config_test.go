package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load_fullFile(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "btrc.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
grammar_file = "custom.ebnf"
warnings_as_errors = true
cache_dir = "/tmp/btrc-cache"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal("custom.ebnf", cfg.GrammarFile)
	assert.True(cfg.WarningsAsErrors)
	assert.Equal("/tmp/btrc-cache", cfg.CacheDir)
}

func Test_Load_missingDefaultFileUsesDefaults(t *testing.T) {
	assert := assert.New(t)

	wd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(wd) }()
	require.NoError(t, os.Chdir(t.TempDir()))

	cfg, err := Load(DefaultFileName)
	require.NoError(t, err)
	assert.Equal(Default(), cfg)
}

func Test_Load_missingExplicitFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func Test_Load_malformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("grammar_file = [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
