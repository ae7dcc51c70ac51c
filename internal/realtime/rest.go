package realtime

import (
	"encoding/json"
	"errors"
	"net/http"

	"sip-call-api/internal/call"
)

type callRequest struct {
	Destination string `json:"destination"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service":   "sip-call-api",
		"status":    "ok",
		"endpoints": []string{"/call", "/hangup", "/status", "/ws"},
	})
}

func (s *Server) handleStartCall(w http.ResponseWriter, r *http.Request) {
	var req callRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := s.registry.Start(req.Destination)
	switch {
	case err == nil:
	case errors.Is(err, call.ErrEmptyDestination):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case errors.Is(err, call.ErrCallActive):
		writeError(w, http.StatusConflict, err.Error())
		return
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "calling",
		"destination": sess.Destination,
	})
}

func (s *Server) handleHangup(w http.ResponseWriter, r *http.Request) {
	destination, err := s.registry.Hangup()
	switch {
	case err == nil:
	case errors.Is(err, call.ErrNoActiveCall):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "ended",
		"destination": destination,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	destination, active := s.registry.Status()
	if active {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":      "active",
			"destination": destination,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "idle"})
}
