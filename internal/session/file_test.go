package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	sess "github.com/gotd/td/session"
	"github.com/stretchr/testify/assert"
)

func TestFileStorage_LoadSession_notFound(t *testing.T) {
	fs := FileStorage{Path: filepath.Join(t.TempDir(), "session.dat")}
	_, err := fs.LoadSession(context.Background())
	assert.ErrorIs(t, err, sess.ErrNotFound)
}

func TestFileStorage_Reset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.dat")
	if err := os.WriteFile(path, []byte("data"), 0600); err != nil {
		t.Fatal(err)
	}
	fs := FileStorage{Path: path}
	assert.NoError(t, fs.Reset())
	assert.NoFileExists(t, path)
	assert.NoError(t, fs.Reset())
}
