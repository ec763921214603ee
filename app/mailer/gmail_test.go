package mailer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDropTokenRemovesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"access_token":"stale"}`), 0o600))

	g := NewGmail(Config{TokenPath: path})
	g.dropToken(context.Background())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestDropTokenMissingFileIsHarmless(t *testing.T) {
	g := NewGmail(Config{TokenPath: filepath.Join(t.TempDir(), "token.json")})

	// Nothing to remove; must not panic and must not create the file.
	g.dropToken(context.Background())
	g.dropToken(context.Background())

	_, err := os.Stat(g.cfg.TokenPath)
	assert.True(t, os.IsNotExist(err))
}
