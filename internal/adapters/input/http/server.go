package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"ics2000-gateway/internal/domain/model"
	"ics2000-gateway/internal/ports"
)

// Server is the thin HTTP boundary: it decodes requests into intents,
// delegates to the gateway port, and encodes typed results. No business
// logic lives here.
type Server struct {
	gateway ports.GatewayPort
	logger  *log.Logger
}

func NewServer(gateway ports.GatewayPort, logger *log.Logger) *Server {
	return &Server{gateway: gateway, logger: logger}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Post("/login", s.handleLogin)
	r.Get("/devices", s.handleDevices)
	r.Get("/rooms", s.handleRooms)
	r.Get("/scenes", s.handleScenes)
	r.Post("/devices/{id}", s.handleDeviceAction)
	r.Post("/scenes/{id}", s.handleSceneAction)
	r.Get("/health", s.handleHealth)
	return r
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	creds := model.Credentials{Identifier: req.Identifier, Secret: req.Secret}
	if !creds.Valid() {
		s.writeError(w, http.StatusBadRequest, "identifier and secret are required")
		return
	}

	ok, err := s.gateway.Login(r.Context(), creds)
	if err != nil {
		s.logger.Error("login failed", "err", err)
		s.writeError(w, http.StatusBadGateway, fmt.Sprintf("hub error: %v", err))
		return
	}
	if !ok {
		s.writeError(w, http.StatusForbidden, "credentials rejected")
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.gateway.Devices(r.Context())
	if err != nil {
		s.writeOpError(w, err)
		return
	}
	s.writeJSON(w, devices)
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.gateway.Rooms(r.Context())
	if err != nil {
		s.writeOpError(w, err)
		return
	}
	s.writeJSON(w, rooms)
}

func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := s.gateway.Scenes(r.Context())
	if err != nil {
		s.writeOpError(w, err)
		return
	}
	s.writeJSON(w, scenes)
}

// deviceState is either the string "On"/"Off" or the object {"Dim": level}.
type deviceState struct {
	Kind string
	Dim  int
}

func (d *deviceState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if str != "On" && str != "Off" {
			return fmt.Errorf("unknown device state %q", str)
		}
		d.Kind = str
		return nil
	}

	var obj struct {
		Dim *int `json:"Dim"`
	}
	if err := json.Unmarshal(data, &obj); err != nil || obj.Dim == nil {
		return fmt.Errorf("device state must be \"On\", \"Off\" or {\"Dim\": level}")
	}
	d.Kind = "Dim"
	d.Dim = *obj.Dim
	return nil
}

func (s *Server) handleDeviceAction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "device id must be an integer")
		return
	}

	var req struct {
		State deviceState `json:"state"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	var intent model.Intent
	switch req.State.Kind {
	case "On":
		intent = model.DeviceOn(id)
	case "Off":
		intent = model.DeviceOff(id)
	case "Dim":
		intent = model.DeviceDim(id, req.State.Dim)
	default:
		s.writeError(w, http.StatusBadRequest, "missing device state")
		return
	}

	if err := s.gateway.Apply(r.Context(), intent); err != nil {
		s.writeOpError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleSceneAction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "scene id must be an integer")
		return
	}

	var req struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	var intent model.Intent
	switch req.State {
	case "Play":
		intent = model.ScenePlay(id)
	case "Stop":
		intent = model.SceneStop(id)
	default:
		s.writeError(w, http.StatusBadRequest, "scene state must be \"Play\" or \"Stop\"")
		return
	}

	if err := s.gateway.Apply(r.Context(), intent); err != nil {
		s.writeOpError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// handleHealth answers without touching the hub, so it stays responsive
// while hub calls queue behind the session lock.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// writeOpError maps the domain error taxonomy onto transport responses.
// "Not authenticated" and hub failures stay distinguishable so clients can
// decide between re-login and retry.
func (s *Server) writeOpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotAuthenticated):
		s.writeError(w, http.StatusInternalServerError, "not authenticated")
	case errors.Is(err, model.ErrInvalidArgument):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrHubTimeout):
		s.writeError(w, http.StatusGatewayTimeout, err.Error())
	default:
		s.logger.Error("hub operation failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("hub error: %v", err))
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
