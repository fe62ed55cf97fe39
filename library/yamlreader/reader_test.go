package yamlreader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type cfg struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func TestNewConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: api\nport: 8080\n"), 0o600))

	c, err := NewConfig[cfg](path)
	require.NoError(t, err)
	require.Equal(t, "api", c.Name)
	require.Equal(t, 8080, c.Port)
}

func TestNewConfig_Errors(t *testing.T) {
	_, err := NewConfig[cfg](filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [\n"), 0o600))

	_, err = NewConfig[cfg](path)
	require.Error(t, err)
}
