package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	tds "github.com/gotd/td/session"
	"github.com/rusq/dlog"

	"github.com/rusq/purgemychats/internal/session"
)

// plainSignature is the beginning of the unencrypted gotd session file.
const plainSignature = `{"Version":1`

// migrateSession encrypts the plain text session file left by the gotd file
// storage.  It returns true if the file was migrated, false if it did not
// exist or was already encrypted.
func migrateSession(sessfile string) (bool, error) {
	f, err := os.Open(sessfile)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if fi, err := f.Stat(); err != nil {
		return false, err
	} else if fi.Size() == 0 {
		return false, nil
	}
	b := make([]byte, len(plainSignature))
	if _, err := io.ReadFull(f, b); err != nil {
		return false, fmt.Errorf("invalid session file: %w", err)
	}
	if !bytes.Equal(b, []byte(plainSignature)) {
		// already encrypted
		return false, nil
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("close error: %w", err)
	}

	plain := tds.FileStorage{Path: sessfile}
	data, err := plain.LoadSession(context.Background())
	if err != nil {
		return false, fmt.Errorf("failed to load session: %w", err)
	}
	enc := session.FileStorage{Path: sessfile}
	if err := enc.StoreSession(context.Background(), data); err != nil {
		return false, fmt.Errorf("failed to save session: %w", err)
	}
	dlog.Debugf("session file %s encrypted", sessfile)
	return true, nil
}
