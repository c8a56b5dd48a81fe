package fileutils_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/dkautomation/planrefresh/internal/fileutils"
	"github.com/stretchr/testify/require"
)

func TestAtomicWrite(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		data            []byte
		fileExists      bool
		fileExistsPerms os.FileMode
		invalidDir      bool

		wantError bool
	}{
		"Empty file":     {data: []byte{}},
		"Non-empty file": {data: []byte("data")},
		"Override file":  {data: []byte("data"), fileExistsPerms: 0600, fileExists: true},

		"Override read-only file": {data: []byte("data"), fileExistsPerms: 0400, fileExists: true, wantError: runtime.GOOS == "windows"},
		"Invalid Dir":             {data: []byte("data"), invalidDir: true, wantError: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			oldFile := []byte("Old File!")
			tempDir := t.TempDir()
			path := filepath.Join(tempDir, "file")
			if tc.invalidDir {
				path = filepath.Join(path, "fake_dir")
			}

			if tc.fileExists {
				err := os.WriteFile(path, oldFile, tc.fileExistsPerms)
				require.NoError(t, err, "Setup: WriteFile should not return an error")
				t.Cleanup(func() { _ = os.Chmod(path, 0600) })
			}

			err := fileutils.AtomicWrite(path, tc.data)
			if tc.wantError {
				require.Error(t, err, "AtomicWrite should return an error")
				return
			}
			require.NoError(t, err, "AtomicWrite should not return an error")

			data, err := os.ReadFile(path)
			require.NoError(t, err, "ReadFile should not return an error")
			require.Equal(t, tc.data, data, "AtomicWrite should write the data to the file")
		})
	}
}

func TestRemoveIfExists(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		fileExists bool
		isDir      bool

		wantError bool
	}{
		"Existing file is removed":  {fileExists: true},
		"Missing file is a no-op":   {},
		"Non-empty dir is an error": {isDir: true, wantError: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "scratch")
			if tc.fileExists {
				require.NoError(t, os.WriteFile(path, []byte("data"), 0600), "Setup: WriteFile should not return an error")
			}
			if tc.isDir {
				require.NoError(t, os.MkdirAll(filepath.Join(path, "child"), 0750), "Setup: MkdirAll should not return an error")
			}

			err := fileutils.RemoveIfExists(path)
			if tc.wantError {
				require.Error(t, err, "RemoveIfExists should return an error")
				return
			}
			require.NoError(t, err, "RemoveIfExists should not return an error")
			require.NoFileExists(t, path, "the file should be gone")
		})
	}
}
