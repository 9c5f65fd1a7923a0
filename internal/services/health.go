package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/AnshRaj112/mindtrack/pkg/utils"
)

// DatabaseStatus is the database section of the health payload.
type DatabaseStatus struct {
	Status     string    `json:"status"`
	Name       string    `json:"name,omitempty"`
	Version    string    `json:"version,omitempty"`
	ServerTime time.Time `json:"server_time,omitempty"`
}

type HealthService struct {
	db      *sql.DB
	started time.Time
}

func NewHealthService(db *sql.DB) *HealthService {
	return &HealthService{db: db, started: time.Now()}
}

// Uptime is the time since the service was constructed.
func (s *HealthService) Uptime() time.Duration {
	return time.Since(s.started)
}

// Check pings the pool and reads basic server identity. Any failure is
// reported as *utils.UnavailableError.
func (s *HealthService) Check(ctx context.Context) (DatabaseStatus, error) {
	if s.db == nil {
		return DatabaseStatus{Status: "disconnected"}, &utils.UnavailableError{Op: "health check"}
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return DatabaseStatus{Status: "disconnected"}, &utils.UnavailableError{Op: "health check", Err: err}
	}

	status := DatabaseStatus{Status: "connected"}
	err := s.db.QueryRowContext(ctx, `SELECT current_database(), version(), NOW()`).
		Scan(&status.Name, &status.Version, &status.ServerTime)
	if err != nil {
		return DatabaseStatus{Status: "disconnected"}, &utils.UnavailableError{Op: "health check", Err: err}
	}
	return status, nil
}
