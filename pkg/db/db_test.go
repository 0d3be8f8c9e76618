package db_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasecurity/rustsec-vex/pkg/db"
	"github.com/aquasecurity/rustsec-vex/pkg/dbtest"
)

func TestInit(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, db.Init(tmpDir))
	assert.FileExists(t, filepath.Join(tmpDir, "db", "rustsec-vex.db"))
	require.NoError(t, db.Close())

	// reopening keeps the data file
	require.NoError(t, db.Init(tmpDir))
	require.NoError(t, db.Close())

	// closing twice is a no-op
	require.NoError(t, db.Close())
}

func TestConfig_PutGet(t *testing.T) {
	require.NoError(t, db.Init(t.TempDir()))
	defer db.Close()

	dbc := db.Config{}

	type entry struct {
		Versions  []string
		FetchedAt time.Time
	}
	want := entry{
		Versions:  []string{"0.1.0", "0.9.0", "1.0.0"},
		FetchedAt: time.Date(2021, 1, 8, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, dbc.Put("crates", "demo", want))

	var got entry
	found, err := dbc.Get("crates", "demo", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	tests := []struct {
		name   string
		bucket string
		key    string
	}{
		{
			name:   "missing key",
			bucket: "crates",
			key:    "unknown",
		},
		{
			name:   "missing bucket",
			bucket: "unknown",
			key:    "demo",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got entry
			found, err := dbc.Get(tt.bucket, tt.key, &got)
			require.NoError(t, err)
			assert.False(t, found)
			assert.Zero(t, got)
		})
	}

	values, err := dbc.ForEach("crates")
	require.NoError(t, err)
	assert.Len(t, values, 1)
	assert.Contains(t, values, "demo")

	require.NoError(t, dbc.Delete("crates", "demo"))
	found, err = dbc.Get("crates", "demo", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, dbc.Delete("unknown", "demo"))
}

func TestConfig_Metadata(t *testing.T) {
	require.NoError(t, db.Init(t.TempDir()))
	defer db.Close()

	dbc := db.Config{}

	got, err := dbc.GetMetadata()
	require.NoError(t, err)
	assert.Zero(t, got)

	want := db.Metadata{
		Version:   db.SchemaVersion,
		UpdatedAt: time.Date(2021, 1, 8, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, dbc.SetMetadata(want))

	got, err = dbc.GetMetadata()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestConfig_Get(t *testing.T) {
	type entry struct {
		Versions  []string
		FetchedAt time.Time
	}

	tests := []struct {
		name      string
		fixtures  []string
		key       string
		want      entry
		wantFound bool
		wantErr   string
	}{
		{
			name:     "happy path",
			fixtures: []string{"testdata/fixtures/crates.yaml"},
			key:      "demo",
			want: entry{
				Versions:  []string{"0.1.0", "0.9.0", "1.0.0"},
				FetchedAt: time.Date(2021, 1, 8, 0, 0, 0, 0, time.UTC),
			},
			wantFound: true,
		},
		{
			name:     "unknown key",
			fixtures: []string{"testdata/fixtures/crates.yaml"},
			key:      "unknown",
		},
		{
			name: "empty db",
			key:  "demo",
		},
		{
			name:     "broken value",
			fixtures: []string{"testdata/fixtures/broken.yaml"},
			key:      "demo",
			wantErr:  "failed to unmarshal JSON",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_ = dbtest.InitDB(t, tt.fixtures)
			defer db.Close()

			var got entry
			found, err := db.Config{}.Get("crates", tt.key, &got)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_GetMetadata(t *testing.T) {
	_ = dbtest.InitDB(t, []string{"testdata/fixtures/metadata.yaml"})
	defer db.Close()

	got, err := db.Config{}.GetMetadata()
	require.NoError(t, err)
	assert.Equal(t, db.Metadata{
		Version:   1,
		UpdatedAt: time.Date(2021, 1, 8, 12, 0, 0, 0, time.UTC),
	}, got)
}
