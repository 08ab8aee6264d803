package service

import (
	"context"
	"fmt"

	"ics2000-gateway/internal/domain/model"
	"ics2000-gateway/internal/ports"
)

// ValidateIntent rejects arguments the hub would choke on. Dim levels are
// checked here rather than hub-side so a bad request never consumes the
// serialized hub slot.
func ValidateIntent(intent model.Intent) error {
	switch intent.Kind {
	case model.IntentDeviceDim:
		if intent.Level < model.DimLevelMin || intent.Level > model.DimLevelMax {
			return fmt.Errorf("%w: dim level %d outside %d..%d",
				model.ErrInvalidArgument, intent.Level, model.DimLevelMin, model.DimLevelMax)
		}
	case model.IntentDeviceOn, model.IntentDeviceOff, model.IntentScenePlay, model.IntentSceneStop:
	default:
		return fmt.Errorf("%w: unknown intent kind %q", model.ErrInvalidArgument, intent.Kind)
	}
	return nil
}

// Dispatch maps one intent onto the single corresponding hub operation and
// propagates its result unchanged.
func Dispatch(ctx context.Context, s ports.HubSession, intent model.Intent) error {
	switch intent.Kind {
	case model.IntentDeviceOn:
		return s.TurnOn(ctx, intent.ID)
	case model.IntentDeviceOff:
		return s.TurnOff(ctx, intent.ID)
	case model.IntentDeviceDim:
		return s.Dim(ctx, intent.ID, intent.Level)
	case model.IntentScenePlay:
		return s.StartScene(ctx, intent.ID)
	case model.IntentSceneStop:
		return s.StopScene(ctx, intent.ID)
	default:
		return fmt.Errorf("%w: unknown intent kind %q", model.ErrInvalidArgument, intent.Kind)
	}
}
