package ports

import (
	"context"
	"ics2000-gateway/internal/domain/model"
)

// HubPort opens authenticated sessions against the ICS-2000 hub. The hub
// tolerates exactly one live session; callers must discard any previous
// HubSession before authenticating again.
type HubPort interface {
	// Authenticate performs a blocking login. It returns
	// model.ErrCredentialsRejected when the hub refuses the account, and a
	// *model.HubError for network or protocol failures.
	Authenticate(ctx context.Context, creds model.Credentials) (HubSession, error)
}

// HubSession is the live authenticated handle to the hub. Every method is a
// blocking, order-sensitive network call; the hub does not support
// interleaved commands, so callers must serialize all use of a session.
type HubSession interface {
	Devices(ctx context.Context) ([]model.Device, error)
	Rooms(ctx context.Context) ([]model.Room, error)
	Scenes(ctx context.Context) ([]model.Scene, error)

	TurnOn(ctx context.Context, deviceID int) error
	TurnOff(ctx context.Context, deviceID int) error
	Dim(ctx context.Context, deviceID, level int) error
	StartScene(ctx context.Context, sceneID int) error
	StopScene(ctx context.Context, sceneID int) error
}
