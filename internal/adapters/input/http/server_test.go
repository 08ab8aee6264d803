package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ics2000-gateway/internal/domain/model"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Login(ctx context.Context, creds model.Credentials) (bool, error) {
	args := m.Called(ctx, creds)
	return args.Bool(0), args.Error(1)
}

func (m *MockGateway) Devices(ctx context.Context) ([]model.Device, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Device), args.Error(1)
}

func (m *MockGateway) Rooms(ctx context.Context) ([]model.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Room), args.Error(1)
}

func (m *MockGateway) Scenes(ctx context.Context) ([]model.Scene, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Scene), args.Error(1)
}

func (m *MockGateway) Apply(ctx context.Context, intent model.Intent) error {
	args := m.Called(ctx, intent)
	return args.Error(0)
}

func doRequest(t *testing.T, gw *MockGateway, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	srv := NewServer(gw, log.New(io.Discard))

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestLoginEndpoint(t *testing.T) {
	creds := model.Credentials{Identifier: "a@b.com", Secret: "x"}

	t.Run("accepted", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Login", mock.Anything, creds).Return(true, nil)

		rec := doRequest(t, gw, "POST", "/login", `{"identifier":"a@b.com","secret":"x"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		gw.AssertExpectations(t)
	})

	t.Run("rejected", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Login", mock.Anything, creds).Return(false, nil)

		rec := doRequest(t, gw, "POST", "/login", `{"identifier":"a@b.com","secret":"x"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("hub failure", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Login", mock.Anything, creds).
			Return(false, model.NewHubError("login", assert.AnError))

		rec := doRequest(t, gw, "POST", "/login", `{"identifier":"a@b.com","secret":"x"}`)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("bad body", func(t *testing.T) {
		gw := new(MockGateway)
		rec := doRequest(t, gw, "POST", "/login", `{"identifier": 42`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		gw.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})

	t.Run("missing fields", func(t *testing.T) {
		gw := new(MockGateway)
		rec := doRequest(t, gw, "POST", "/login", `{"identifier":"a@b.com"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		gw.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})
}

func TestListingEndpoints(t *testing.T) {
	t.Run("devices", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Devices", mock.Anything).Return([]model.Device{{ID: 7, Name: "lamp"}}, nil)

		rec := doRequest(t, gw, "GET", "/devices", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[{"id":7,"name":"lamp","status":{"on":false,"dim_level":0}}]`, rec.Body.String())
	})

	t.Run("rooms while unauthenticated", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Rooms", mock.Anything).Return(nil, model.ErrNotAuthenticated)

		rec := doRequest(t, gw, "GET", "/rooms", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "not authenticated")
	})

	t.Run("scenes hub failure", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Scenes", mock.Anything).Return(nil, model.NewHubError("scenes", assert.AnError))

		rec := doRequest(t, gw, "GET", "/scenes", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "hub error")
	})

	t.Run("devices hub timeout", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Devices", mock.Anything).Return(nil, model.ErrHubTimeout)

		rec := doRequest(t, gw, "GET", "/devices", "")
		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	})
}

func TestDeviceActionEndpoint(t *testing.T) {
	cases := []struct {
		name string
		body string
		want model.Intent
	}{
		{"on", `{"state":"On"}`, model.DeviceOn(7)},
		{"off", `{"state":"Off"}`, model.DeviceOff(7)},
		{"dim", `{"state":{"Dim":10}}`, model.DeviceDim(7, 10)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := new(MockGateway)
			gw.On("Apply", mock.Anything, tc.want).Return(nil).Once()

			rec := doRequest(t, gw, "POST", "/devices/7", tc.body)
			assert.Equal(t, http.StatusOK, rec.Code)
			gw.AssertExpectations(t)
		})
	}

	t.Run("invalid state", func(t *testing.T) {
		gw := new(MockGateway)
		rec := doRequest(t, gw, "POST", "/devices/7", `{"state":"Sideways"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		gw.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything)
	})

	t.Run("non-integer id", func(t *testing.T) {
		gw := new(MockGateway)
		rec := doRequest(t, gw, "POST", "/devices/lamp", `{"state":"On"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("dim level out of range", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Apply", mock.Anything, model.DeviceDim(7, 99)).
			Return(model.ErrInvalidArgument)

		rec := doRequest(t, gw, "POST", "/devices/7", `{"state":{"Dim":99}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSceneActionEndpoint(t *testing.T) {
	t.Run("play", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Apply", mock.Anything, model.ScenePlay(3)).Return(nil).Once()

		rec := doRequest(t, gw, "POST", "/scenes/3", `{"state":"Play"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		gw.AssertExpectations(t)
	})

	t.Run("stop", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Apply", mock.Anything, model.SceneStop(3)).Return(nil).Once()

		rec := doRequest(t, gw, "POST", "/scenes/3", `{"state":"Stop"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		gw.AssertExpectations(t)
	})

	t.Run("unknown state", func(t *testing.T) {
		gw := new(MockGateway)
		rec := doRequest(t, gw, "POST", "/scenes/3", `{"state":"Shuffle"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		gw.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything)
	})
}

func TestHealthNeverTouchesTheGateway(t *testing.T) {
	gw := new(MockGateway)
	rec := doRequest(t, gw, "GET", "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	gw.AssertExpectations(t)
}
