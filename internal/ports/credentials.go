package ports

import (
	"context"
	"ics2000-gateway/internal/domain/model"
)

// CredentialRepository persists the last-known login credentials.
type CredentialRepository interface {
	// Load returns (nil, nil) when no record exists. A record that exists
	// but cannot be parsed yields an error wrapping
	// model.ErrCorruptCredentials.
	Load(ctx context.Context) (*model.Credentials, error)

	// Save overwrites the record. The write is atomic with respect to a
	// process crash: a partial record is never read back as valid.
	Save(ctx context.Context, creds model.Credentials) error
}
