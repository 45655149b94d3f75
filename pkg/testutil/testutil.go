// Package testutil provides shared helpers for cpconfig's tests: an
// in-memory filesystem and fatal-on-error file helpers.
package testutil

import (
	"testing"

	"github.com/spf13/afero"

	"github.com/cpconfig/cpconfig/pkg/filesystem"
	"github.com/cpconfig/cpconfig/pkg/types"
)

// NewMemoryFS returns a types.FS backed by an in-memory afero filesystem.
func NewMemoryFS() types.FS {
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}

// WriteFileT writes a file through the FS, failing the test on error.
func WriteFileT(t *testing.T, fs types.FS, path, content string) {
	t.Helper()
	if err := fs.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}

// ReadFileT reads a file through the FS, failing the test on error.
func ReadFileT(t *testing.T, fs types.FS, path string) string {
	t.Helper()
	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	return string(data)
}

// ExistsT reports whether a path exists on the FS.
func ExistsT(t *testing.T, fs types.FS, path string) bool {
	t.Helper()
	_, err := fs.Stat(path)
	return err == nil
}
