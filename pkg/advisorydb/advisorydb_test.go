package advisorydb_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasecurity/rustsec-vex/pkg/advisory"
	"github.com/aquasecurity/rustsec-vex/pkg/advisorydb"
)

const dbDir = "testdata/advisory-db"

func TestGet(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		wantPackage string
		wantErr     error
	}{
		{
			name:        "happy path",
			id:          "RUSTSEC-2021-0003",
			wantPackage: "smallvec",
		},
		{
			name:        "withdrawn",
			id:          "RUSTSEC-2020-0036",
			wantPackage: "failure",
		},
		{
			name:    "unknown advisory",
			id:      "RUSTSEC-2021-9999",
			wantErr: advisorydb.ErrNotFound,
		},
		{
			name:    "malformed id",
			id:      "RUSTSEC-21-1",
			wantErr: advisory.ErrInvalidID,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := advisorydb.Get(dbDir, tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, got.ID.String())
			assert.Equal(t, tt.wantPackage, got.Package)
		})
	}
}

func TestPaths(t *testing.T) {
	got, err := advisorydb.Paths(dbDir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dbDir, "crates", "broken", "RUSTSEC-2099-0001.md"),
		filepath.Join(dbDir, "crates", "failure", "RUSTSEC-2020-0036.md"),
		filepath.Join(dbDir, "crates", "smallvec", "RUSTSEC-2021-0003.md"),
	}, got)
}

func TestWalk(t *testing.T) {
	var ids []string
	err := advisorydb.Walk(dbDir, func(path string, adv *advisory.Advisory) error {
		ids = append(ids, adv.ID.String())
		return nil
	})

	// the broken advisory is reported, the rest are still visited
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RUSTSEC-2099-0001.md")
	assert.Equal(t, []string{"RUSTSEC-2020-0036", "RUSTSEC-2021-0003"}, ids)
}

func TestWalk_Stop(t *testing.T) {
	stop := assert.AnError
	var visited int
	err := advisorydb.Walk(dbDir, func(path string, adv *advisory.Advisory) error {
		visited++
		return stop
	})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, 1, visited)
}

func TestUpdate_CloneError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "advisory-db")
	missing := filepath.Join(t.TempDir(), "no-such-repo")

	err := advisorydb.Update(context.Background(), dir, missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git clone error")
}
