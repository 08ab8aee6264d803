package ports

import (
	"context"
	"ics2000-gateway/internal/domain/model"
)

// GatewayPort is what the HTTP boundary calls. All operations other than
// Login fail with model.ErrNotAuthenticated while no session is held.
type GatewayPort interface {
	// Login authenticates against the hub, replacing any existing session.
	// It returns (false, nil) when the hub rejects the credentials.
	Login(ctx context.Context, creds model.Credentials) (bool, error)

	Devices(ctx context.Context) ([]model.Device, error)
	Rooms(ctx context.Context) ([]model.Room, error)
	Scenes(ctx context.Context) ([]model.Scene, error)

	// Apply executes one state-change intent against the hub.
	Apply(ctx context.Context, intent model.Intent) error
}
