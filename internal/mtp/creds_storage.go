package mtp

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/rusq/encio"
)

// credsStorage keeps the API credentials in the encrypted file.
type credsStorage struct {
	filename string
}

var errInvalidCreds = errors.New("invalid credentials")

// creds is the structure of data in the storage.
type creds struct {
	ApiID   int    `json:"api_id,omitempty"`
	ApiHash string `json:"api_hash,omitempty"`
}

func (cs credsStorage) IsAvailable() bool {
	return cs.filename != ""
}

func (cs credsStorage) Save(apiID int, apiHash string) error {
	f, err := encio.Create(cs.filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return cs.write(f, apiID, apiHash)
}

func (cs credsStorage) write(f io.Writer, apiID int, apiHash string) error {
	creds := creds{
		ApiID:   apiID,
		ApiHash: apiHash,
	}

	enc := json.NewEncoder(f)
	if err := enc.Encode(creds); err != nil {
		return err
	}
	return nil
}

func (cs credsStorage) Load() (int, string, error) {
	f, err := encio.Open(cs.filename)
	if err != nil {
		return 0, "", err
	}
	defer f.Close()

	return cs.read(f)
}

func (cs credsStorage) read(r io.Reader) (int, string, error) {
	var creds creds
	dec := json.NewDecoder(r)
	if err := dec.Decode(&creds); err != nil {
		return 0, "", err
	}
	if creds.ApiID <= 0 || creds.ApiHash == "" {
		return 0, "", errInvalidCreds
	}
	return creds.ApiID, creds.ApiHash, nil
}

// Remove removes the credentials file.  Missing file is not an error.
func (cs credsStorage) Remove() error {
	if !cs.IsAvailable() {
		return nil
	}
	if err := os.Remove(cs.filename); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// RemoveCredentials removes the saved API credentials file.
func RemoveCredentials(filename string) error {
	return credsStorage{filename: filename}.Remove()
}
