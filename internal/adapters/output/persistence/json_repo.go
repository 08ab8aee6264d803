package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"ics2000-gateway/internal/domain/model"
)

// JSONCredentialRepository stores the last-known login credentials as a
// single JSON record at a fixed path. Absence of the file is the normal
// first-run state.
type JSONCredentialRepository struct {
	filepath string
	mu       sync.Mutex
}

func NewJSONCredentialRepository(filepath string) *JSONCredentialRepository {
	return &JSONCredentialRepository{filepath: filepath}
}

func (r *JSONCredentialRepository) Load(ctx context.Context) (*model.Credentials, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", model.ErrCorruptCredentials, err)
	}

	var creds model.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrCorruptCredentials, err)
	}
	if !creds.Valid() {
		return nil, fmt.Errorf("%w: record is missing fields", model.ErrCorruptCredentials)
	}

	return &creds, nil
}

// Save writes the record to a temp file in the same directory and renames
// it over the target, so a crash mid-write never leaves a partial record
// that loads as valid.
func (r *JSONCredentialRepository) Save(ctx context.Context, creds model.Credentials) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.filepath)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.filepath)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), r.filepath)
}
