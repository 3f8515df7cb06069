package storage

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage(t *testing.T) {
	for name, newStorage := range map[string]func(t *testing.T) *FileStorage{
		"memory": func(t *testing.T) *FileStorage { return NewMemoryStorage() },
		"local": func(t *testing.T) *FileStorage {
			s, err := NewLocalFileStorage(filepath.Join(t.TempDir(), "songs"))
			require.NoError(t, err)
			return s
		},
	} {
		t.Run(name, func(t *testing.T) {
			s := newStorage(t)

			require.NoError(t, s.WriteFile("a1.pdf", []byte("%PDF-1.4")))
			require.NoError(t, s.WriteFile("nested/b2.doc", []byte("doc")))

			assert.True(t, s.Exists("a1.pdf"))
			assert.True(t, s.Exists("nested/b2.doc"))
			assert.False(t, s.Exists("missing.pdf"))
			assert.False(t, s.Exists("nested"), "directories are not files")

			data, err := s.ReadFile("a1.pdf")
			require.NoError(t, err)
			assert.Equal(t, []byte("%PDF-1.4"), data)

			r, err := s.GetReader("nested/b2.doc")
			require.NoError(t, err)
			streamed, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Equal(t, []byte("doc"), streamed)

			files, err := s.ListFiles("", "")
			require.NoError(t, err)
			assert.Equal(t, []string{"a1.pdf"}, files)

			files, err = s.ListFiles("nested", "b")
			require.NoError(t, err)
			assert.Equal(t, []string{filepath.Join("nested", "b2.doc")}, files)

			require.NoError(t, s.Remove("a1.pdf"))
			require.NoError(t, s.Remove("a1.pdf"))
			assert.False(t, s.Exists("a1.pdf"))

			_, err = s.ReadFile("a1.pdf")
			assert.Error(t, err)
		})
	}
}

func TestListFilesMissingDirectory(t *testing.T) {
	s := NewFileStorage(afero.NewMemMapFs())

	files, err := s.ListFiles("nowhere", "")
	require.NoError(t, err)
	assert.Empty(t, files)
}
