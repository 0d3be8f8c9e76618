package utils

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, name string) {
	f, err := os.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func write(t *testing.T, name string, content string) {
	err := os.WriteFile(name, []byte(content), 0666)
	if err != nil {
		t.Fatal(err)
	}
}

func TestFileWalk(t *testing.T) {
	td := t.TempDir()

	if err := os.MkdirAll(filepath.Join(td, "dir"), 0755); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(td, "dir/foo1"))
	touch(t, filepath.Join(td, "dir/foo2"))
	write(t, filepath.Join(td, "dir/foo3"), "foo3")

	sawDir := false
	sawFoo1 := false
	sawFoo2 := false
	var contentFoo3 []byte
	walker := func(r io.Reader, path string) error {
		if strings.HasSuffix(path, "dir") {
			sawDir = true
		}
		if strings.HasSuffix(path, "foo1") {
			sawFoo1 = true
		}
		if strings.HasSuffix(path, "foo2") {
			sawFoo2 = true
		}
		if strings.HasSuffix(path, "foo3") {
			var err error
			contentFoo3, err = io.ReadAll(r)
			if err != nil {
				t.Fatal(err)
			}
		}
		return nil
	}

	err := FileWalk(td, walker)
	if err != nil {
		t.Fatal(err)
	}
	if sawDir {
		t.Error("directories must not be passed to walkFn")
	}
	if sawFoo1 || sawFoo2 {
		t.Error("an empty file must not be passed to walkFn")
	}
	if string(contentFoo3) != "foo3" {
		t.Error("The file content is wrong")
	}
}

func TestFileWalk_MissingRoot(t *testing.T) {
	err := FileWalk(filepath.Join(t.TempDir(), "missing"), func(r io.Reader, path string) error {
		return nil
	})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestExists(t *testing.T) {
	td := t.TempDir()
	write(t, filepath.Join(td, "file"), "content")

	ok, err := Exists(filepath.Join(td, "file"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(filepath.Join(td, "missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "happy path",
			input: "0.1.0,0.9.0, 1.0.0",
			want:  []string{"0.1.0", "0.9.0", "1.0.0"},
		},
		{
			name:  "blanks and duplicates",
			input: "0.1.0,, 0.1.0 ,1.0.0,",
			want:  []string{"0.1.0", "1.0.0"},
		},
		{
			name:  "empty",
			input: "",
			want:  []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitList(tt.input))
		})
	}
}

func TestMustTimeParse(t *testing.T) {
	got := MustTimeParse("2021-01-08T00:00:00Z")
	assert.Equal(t, time.Date(2021, 1, 8, 0, 0, 0, 0, time.UTC), *got)

	assert.Panics(t, func() {
		MustTimeParse("2021-01-08")
	})
}
