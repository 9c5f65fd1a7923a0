package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AnshRaj112/mindtrack/internal/metrics"
	"github.com/AnshRaj112/mindtrack/internal/models"
	"github.com/AnshRaj112/mindtrack/internal/services"
)

// JournalStore is the journal entry storage used by the handlers.
type JournalStore interface {
	Create(ctx context.Context, in models.CreateJournalEntryInput) (models.JournalEntry, error)
	ListByUser(ctx context.Context, userID int) ([]models.JournalEntry, error)
	Delete(ctx context.Context, entryID int64) error
}

// ContactStore is the contact storage used by the handlers.
type ContactStore interface {
	Create(ctx context.Context, in models.CreateContactInput) (models.Contact, error)
	ListByUser(ctx context.Context, userID int) ([]models.Contact, error)
}

type HealthChecker interface {
	Check(ctx context.Context) (services.DatabaseStatus, error)
	Uptime() time.Duration
}

// Options carries the ambient dependencies shared by all handlers.
type Options struct {
	Logger       *zap.Logger
	Metrics      *metrics.Collector
	Version      string
	Environment  string
	ExposeErrors bool // include the underlying cause in error envelopes
}

var (
	journalStore  JournalStore
	contactStore  ContactStore
	healthChecker HealthChecker
	opts          = Options{Logger: zap.NewNop()}
)

// InitServices installs the stores used by the handlers. It must be called
// before the router serves traffic.
func InitServices(journals JournalStore, contacts ContactStore, health HealthChecker, o Options) {
	journalStore = journals
	contactStore = contacts
	healthChecker = health
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	opts = o
}

// ResetServices clears everything installed by InitServices.
func ResetServices() {
	journalStore = nil
	contactStore = nil
	healthChecker = nil
	opts = Options{Logger: zap.NewNop()}
}

const requestTimeout = 5 * time.Second
