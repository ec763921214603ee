package attachments

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveWritesIntoDir(t *testing.T) {
	dir := t.TempDir()
	s, err := New(Config{Dir: dir})
	require.NoError(t, err)

	path, err := s.Save("report.pdf", strings.NewReader("content"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestSaveStripsDirectoryComponents(t *testing.T) {
	s, err := New(Config{Dir: t.TempDir()})
	require.NoError(t, err)

	path, err := s.Save("../../etc/passwd", strings.NewReader("nope"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "passwd"), path)
}

func TestDefaultDirIsTemp(t *testing.T) {
	s, err := New(Config{})
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(s.Dir()) })

	info, err := os.Stat(s.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
