package restyutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dump")
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(filepath.Join(dir, "stale.txt"), []byte("old"), 0600)
	if err != nil {
		t.Fatal(err)
	}

	output, err := NewFilesystemOutput(dir)
	require.NoError(t, err)
	output.Write("1", "message")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	contents, err := os.ReadFile(filepath.Join(dir, "1.txt"))
	require.NoError(t, err)
	require.Equal(t, "message", string(contents))
}
