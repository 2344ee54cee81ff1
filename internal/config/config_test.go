package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "calc> ", cfg.Prompt)
	assert.Equal(t, "memory", cfg.History.Store)
	assert.Equal(t, DefaultTail, cfg.History.Tail)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
prompt: ">> "
history:
  store: sqlite
  tail: 5
plugins:
  dirs:
    - /opt/calcsh/plugins
logging:
  level: debug
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ">> ", cfg.Prompt)
	assert.Equal(t, "sqlite", cfg.History.Store)
	assert.Equal(t, 5, cfg.History.Tail)
	assert.Equal(t, []string{"/opt/calcsh/plugins"}, cfg.Plugins.Dirs)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("CALCSH_TEST_DIR", "/tmp/plugins")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
plugins:
  dirs:
    - ${CALCSH_TEST_DIR}
    - ${CALCSH_TEST_UNSET}
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/tmp/plugins", "${CALCSH_TEST_UNSET}"}, cfg.Plugins.Dirs)
}

func TestLoad_InvalidStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("history:\n  store: redis\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown history store")
}

func TestResolvePaths_Override(t *testing.T) {
	t.Setenv("CALCSH_HOME", "/srv/calcsh")

	p, err := ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, "/srv/calcsh", p.Base)
	assert.Equal(t, filepath.Join("/srv/calcsh", "config.yaml"), p.Config)
	assert.Equal(t, filepath.Join("/srv/calcsh", "plugins"), p.Plugins)
}
