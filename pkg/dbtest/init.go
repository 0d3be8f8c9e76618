package dbtest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	fixtures "github.com/aquasecurity/bolt-fixtures"
	"github.com/aquasecurity/rustsec-vex/pkg/db"
)

// InitDB loads the YAML fixtures into a fresh database and opens it with
// db.Init. It returns the cache directory holding the database.
func InitDB(t *testing.T, fixtureFiles []string) string {
	t.Helper()

	cacheDir := t.TempDir()
	dbPath := db.Path(cacheDir)
	require.NoError(t, os.MkdirAll(filepath.Dir(dbPath), 0700))

	// Load testdata into BoltDB
	loader, err := fixtures.New(dbPath, fixtureFiles)
	require.NoError(t, err)
	require.NoError(t, loader.Load())
	require.NoError(t, loader.Close())

	require.NoError(t, db.Init(cacheDir))
	t.Cleanup(func() { _ = db.Close() })

	return cacheDir
}
