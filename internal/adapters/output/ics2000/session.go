package ics2000

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/samber/lo"

	"ics2000-gateway/internal/domain/model"
)

// session is the live authenticated handle. The hub permits one session and
// no interleaved commands; serialization is the coordinator's job, so every
// method here is a plain blocking call.
type session struct {
	client *Client
	creds  model.Credentials
	home   wireHome
}

type wireEntity struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status struct {
		On  bool `json:"on"`
		Dim int  `json:"dim"`
	} `json:"status"`
	DeviceIDs []int `json:"entities"`
}

func (s *session) Devices(ctx context.Context) ([]model.Device, error) {
	entities, err := s.sync(ctx, "sync")
	if err != nil {
		return nil, err
	}
	return lo.Map(entities, func(e wireEntity, _ int) model.Device {
		return model.Device{
			ID:   e.ID,
			Name: e.Name,
			Status: model.DeviceStatus{
				On:       e.Status.On,
				DimLevel: e.Status.Dim,
			},
		}
	}), nil
}

func (s *session) Rooms(ctx context.Context) ([]model.Room, error) {
	entities, err := s.sync(ctx, "rooms")
	if err != nil {
		return nil, err
	}
	return lo.Map(entities, func(e wireEntity, _ int) model.Room {
		return model.Room{ID: e.ID, Name: e.Name, DeviceIDs: e.DeviceIDs}
	}), nil
}

func (s *session) Scenes(ctx context.Context) ([]model.Scene, error) {
	entities, err := s.sync(ctx, "scenes")
	if err != nil {
		return nil, err
	}
	return lo.Map(entities, func(e wireEntity, _ int) model.Scene {
		return model.Scene{ID: e.ID, Name: e.Name}
	}), nil
}

func (s *session) TurnOn(ctx context.Context, deviceID int) error {
	return s.command(ctx, "on", deviceID, nil)
}

func (s *session) TurnOff(ctx context.Context, deviceID int) error {
	return s.command(ctx, "off", deviceID, nil)
}

func (s *session) Dim(ctx context.Context, deviceID, level int) error {
	return s.command(ctx, "dim", deviceID, map[string]string{"level": strconv.Itoa(level)})
}

func (s *session) StartScene(ctx context.Context, sceneID int) error {
	return s.command(ctx, "play", sceneID, nil)
}

func (s *session) StopScene(ctx context.Context, sceneID int) error {
	return s.command(ctx, "stop", sceneID, nil)
}

func (s *session) sync(ctx context.Context, action string) ([]wireEntity, error) {
	form := s.authForm()
	form.Set("action", action)
	form.Set("home_id", s.home.HomeID)

	body, status, err := s.client.postForm(ctx, "/entity.php", form)
	if err != nil {
		return nil, model.NewHubError(action, err)
	}
	if status != http.StatusOK {
		return nil, model.NewHubError(action, fmt.Errorf("unexpected status %d", status))
	}

	var entities []wireEntity
	if err := json.Unmarshal(body, &entities); err != nil {
		return nil, model.NewHubError(action, fmt.Errorf("decoding entity response: %w", err))
	}
	return entities, nil
}

func (s *session) command(ctx context.Context, action string, entityID int, extra map[string]string) error {
	form := s.authForm()
	form.Set("action", action)
	form.Set("home_id", s.home.HomeID)
	form.Set("entity_id", strconv.Itoa(entityID))
	for k, v := range extra {
		form.Set(k, v)
	}

	_, status, err := s.client.postForm(ctx, "/command.php", form)
	if err != nil {
		return model.NewHubError(action, err)
	}
	if status != http.StatusOK {
		return model.NewHubError(action, fmt.Errorf("unexpected status %d", status))
	}
	return nil
}

func (s *session) authForm() url.Values {
	return url.Values{
		"email":         {s.creds.Identifier},
		"password_hash": {passwordHash(s.creds.Secret)},
		"mac":           {s.home.Mac},
	}
}
