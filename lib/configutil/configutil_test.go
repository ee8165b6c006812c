package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name  string            `json:"name"`
	Count int               `json:"count"`
	Tags  map[string]string `json:"tags"`
}

func writeFile(t testing.TB, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")

	_, err := ReadConfig[testConfig](path)
	require.True(t, os.IsNotExist(err))

	writeFile(t, path, `{name: "base", count: 1, tags: {a: "1"}}`)
	cfg, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, testConfig{Name: "base", Count: 1, Tags: map[string]string{"a": "1"}}, cfg)

	writeFile(t, filepath.Join(dir, "config.local.json5"), `{count: 5, tags: {b: "2"}}`)
	cfg, err = ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, "base", cfg.Name)
	require.Equal(t, 5, cfg.Count)
	require.Equal(t, map[string]string{"a": "1", "b": "2"}, cfg.Tags)
}

func TestReadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	writeFile(t, path, `{name: `)
	_, err := ReadConfig[testConfig](path)
	require.Error(t, err)
	require.False(t, os.IsNotExist(err))
}

func TestReadConfigOr(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	defaults := testConfig{Name: "default", Count: 3}

	cfg, err := ReadConfigOr(path, defaults)
	require.NoError(t, err)
	require.Equal(t, defaults, cfg)

	writeFile(t, path, `{name: "set"}`)
	cfg, err = ReadConfigOr(path, defaults)
	require.NoError(t, err)
	require.Equal(t, testConfig{Name: "set", Count: 3}, cfg)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	writeFile(t, path, "QUERACLI_TEST_A=from-file\nQUERACLI_TEST_B=from-file\n")

	t.Setenv("QUERACLI_TEST_A", "from-env")
	os.Unsetenv("QUERACLI_TEST_B")
	defer os.Unsetenv("QUERACLI_TEST_B")

	err := LoadEnv(filepath.Join(dir, "missing.env"), path)
	require.NoError(t, err)
	require.Equal(t, "from-env", os.Getenv("QUERACLI_TEST_A"))
	require.Equal(t, "from-file", os.Getenv("QUERACLI_TEST_B"))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	expanded, err := ExpandHome("~/.quera/config.json5")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".quera/config.json5"), expanded)

	unchanged, err := ExpandHome("relative/~/path")
	require.NoError(t, err)
	require.Equal(t, "relative/~/path", unchanged)
}
