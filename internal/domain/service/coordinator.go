package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"ics2000-gateway/internal/concurrency"
	"ics2000-gateway/internal/domain/model"
	"ics2000-gateway/internal/ports"
)

const defaultCallTimeout = 30 * time.Second

// SessionCoordinator owns the single hub session and serializes every
// operation against it. The hub accepts one live session and no interleaved
// commands, so the mutex is held for the full duration of each hub call;
// concurrent requests queue behind it in arrival order. The blocking call
// itself runs on the worker pool, never on the caller's goroutine.
type SessionCoordinator struct {
	hub      ports.HubPort
	credRepo ports.CredentialRepository
	pool     *concurrency.Pool
	logger   *log.Logger
	timeout  time.Duration

	mu      sync.Mutex
	session ports.HubSession // nil means unauthenticated
}

func NewSessionCoordinator(hub ports.HubPort, credRepo ports.CredentialRepository, pool *concurrency.Pool, logger *log.Logger) *SessionCoordinator {
	return &SessionCoordinator{
		hub:      hub,
		credRepo: credRepo,
		pool:     pool,
		logger:   logger,
		timeout:  defaultCallTimeout,
	}
}

// SetCallTimeout bounds each individual hub call. Zero keeps the default.
func (c *SessionCoordinator) SetCallTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

// Login authenticates against the hub, replacing any existing session
// wholesale. It returns (false, nil) when the hub rejects the credentials;
// infrastructure failures come back as errors. On success the credentials
// are persisted best-effort: a save failure is logged but does not
// invalidate the now-active session.
func (c *SessionCoordinator) Login(ctx context.Context, creds model.Credentials) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// The prior handle, if any, is discarded before the attempt so a failed
	// re-login never leaves a half-replaced session behind.
	c.session = nil

	var session ports.HubSession
	err := c.run(ctx, func(ctx context.Context) error {
		var err error
		session, err = c.hub.Authenticate(ctx, creds)
		return err
	})
	if errors.Is(err, model.ErrCredentialsRejected) {
		c.logger.Info("hub rejected credentials", "identifier", creds.Identifier)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	c.session = session
	c.logger.Info("authenticated with hub", "identifier", creds.Identifier)

	if err := c.credRepo.Save(ctx, creds); err != nil {
		c.logger.Error("could not persist credentials", "err", err)
	}
	return true, nil
}

// WithSession is the single choke point for every non-login hub operation.
// It fails with model.ErrNotAuthenticated before any hub traffic when no
// session is held; otherwise op runs on the worker pool with the mutex held
// end-to-end.
func (c *SessionCoordinator) WithSession(ctx context.Context, op func(ctx context.Context, s ports.HubSession) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return model.ErrNotAuthenticated
	}
	session := c.session
	return c.run(ctx, func(ctx context.Context) error {
		return op(ctx, session)
	})
}

// run executes fn on the worker pool under the call timeout. Must be called
// with c.mu held. A timeout or a panic inside fn drops the session handle:
// the in-flight call may still be draining on its worker, so the handle
// cannot safely be reused.
func (c *SessionCoordinator) run(ctx context.Context, fn func(ctx context.Context) error) error {
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	err := c.pool.Do(callCtx, fn)
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		c.logger.Warn("hub call exceeded deadline, dropping session handle", "timeout", c.timeout)
		c.session = nil
		return model.ErrHubTimeout
	}

	var pe *concurrency.PanicError
	if errors.As(err, &pe) {
		c.logger.Error("hub call panicked, resetting session", "panic", pe.Value)
		c.session = nil
		return model.NewHubError("call", fmt.Errorf("%v", pe.Value))
	}

	return err
}

// Restore performs the one automatic login attempt at process start. Absent
// or corrupt persisted credentials, or a failed attempt, leave the session
// unauthenticated; none of these abort startup.
func (c *SessionCoordinator) Restore(ctx context.Context) {
	creds, err := c.credRepo.Load(ctx)
	if err != nil {
		c.logger.Warn("ignoring unusable persisted credentials", "err", err)
		return
	}
	if creds == nil {
		c.logger.Info("no persisted credentials, starting unauthenticated")
		return
	}

	ok, err := c.Login(ctx, *creds)
	switch {
	case err != nil:
		c.logger.Error("automatic login failed", "err", err)
	case !ok:
		c.logger.Warn("persisted credentials no longer accepted by hub")
	default:
		c.logger.Info("session restored from persisted credentials")
	}
}

// Devices re-fetches the hub's device list through the current session.
func (c *SessionCoordinator) Devices(ctx context.Context) ([]model.Device, error) {
	var devices []model.Device
	err := c.WithSession(ctx, func(ctx context.Context, s ports.HubSession) error {
		var err error
		devices, err = s.Devices(ctx)
		return err
	})
	return devices, err
}

func (c *SessionCoordinator) Rooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	err := c.WithSession(ctx, func(ctx context.Context, s ports.HubSession) error {
		var err error
		rooms, err = s.Rooms(ctx)
		return err
	})
	return rooms, err
}

func (c *SessionCoordinator) Scenes(ctx context.Context) ([]model.Scene, error) {
	var scenes []model.Scene
	err := c.WithSession(ctx, func(ctx context.Context, s ports.HubSession) error {
		var err error
		scenes, err = s.Scenes(ctx)
		return err
	})
	return scenes, err
}

// Apply executes one state-change intent. Arguments are validated before
// the session is touched, so an invalid intent makes zero hub calls.
func (c *SessionCoordinator) Apply(ctx context.Context, intent model.Intent) error {
	if err := ValidateIntent(intent); err != nil {
		return err
	}
	return c.WithSession(ctx, func(ctx context.Context, s ports.HubSession) error {
		return Dispatch(ctx, s, intent)
	})
}
