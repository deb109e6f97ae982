package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// UpdateEnv rewrites golden files instead of comparing when set.
const UpdateEnv = "GOLDEN_UPDATE"

// GoldenString compares got with testdata/<name>.golden in the calling
// package's directory and reports a line diff on mismatch.
func GoldenString(t testing.TB, name, got string) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")

	if os.Getenv(UpdateEnv) != "" {
		require.NoError(t, os.MkdirAll("testdata", 0755))
		require.NoError(t, os.WriteFile(path, []byte(got), 0644))
		return
	}

	want, err := os.ReadFile(path)
	require.NoError(t, err, "read golden file %s (set %s=1 to create it)", path, UpdateEnv)
	assert.Equal(t, string(want), got, "output mismatch for %s", name)
}
