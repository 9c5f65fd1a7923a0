package handlers

import (
	"net/http"
	"time"

	"github.com/AnshRaj112/mindtrack/internal/services"
)

type ServerInfo struct {
	Version       string    `json:"version"`
	Environment   string    `json:"environment"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	Time          time.Time `json:"time"`
}

type HealthResponse struct {
	Success  bool                    `json:"success"`
	Message  string                  `json:"message"`
	Database services.DatabaseStatus `json:"database"`
	Server   *ServerInfo             `json:"server,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

// Health handles GET /health. 503 means the database is not reachable.
func Health(w http.ResponseWriter, r *http.Request) {
	if healthChecker == nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Success:  false,
			Message:  "Database disconnected",
			Database: services.DatabaseStatus{Status: "disconnected"},
		})
		return
	}

	status, err := healthChecker.Check(r.Context())
	if err != nil {
		resp := HealthResponse{
			Success:  false,
			Message:  "Database disconnected",
			Database: services.DatabaseStatus{Status: "disconnected"},
		}
		if opts.ExposeErrors {
			resp.Error = err.Error()
		}
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Success:  true,
		Message:  "Server is healthy",
		Database: status,
		Server: &ServerInfo{
			Version:       opts.Version,
			Environment:   opts.Environment,
			UptimeSeconds: int64(healthChecker.Uptime().Seconds()),
			Time:          time.Now().UTC(),
		},
	})
}
