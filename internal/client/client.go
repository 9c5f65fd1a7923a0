package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/AnshRaj112/mindtrack/internal/localstore"
	"github.com/AnshRaj112/mindtrack/internal/models"
	"github.com/AnshRaj112/mindtrack/pkg/utils"
)

const (
	DefaultTimeout       = 10 * time.Second
	DefaultUserID        = 1
	defaultBreakerFails  = 5
	defaultBreakerReopen = 30 * time.Second
)

// Options configures a Client. Zero values select the defaults.
type Options struct {
	// Resolver locates the server. Nil means no server: every operation
	// runs against the local store.
	Resolver      EndpointResolver
	HTTPClient    *http.Client
	Timeout       time.Duration
	DefaultUserID int
	Logger        *zap.Logger

	// BreakerFailures consecutive availability failures open the breaker
	// for BreakerTimeout.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// Client is the data access layer: each operation tries the server first
// and falls back to the local store only when the server is unavailable.
type Client struct {
	remote        *RemoteClient
	resolver      EndpointResolver
	local         *localstore.Store
	breaker       *gobreaker.CircuitBreaker
	logger        *zap.Logger
	defaultUserID int

	mu     sync.Mutex
	userID int
}

func New(local *localstore.Store, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.DefaultUserID <= 0 {
		opts.DefaultUserID = DefaultUserID
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Resolver == nil {
		opts.Resolver = FixedResolver("")
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = defaultBreakerFails
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = defaultBreakerReopen
	}

	logger := opts.Logger
	failures := opts.BreakerFailures
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "mindtrack-remote",
		Timeout: opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// Rejections by the server prove it is reachable.
		IsSuccessful: func(err error) bool {
			return err == nil || !utils.IsUnavailable(err)
		},
	})

	return &Client{
		remote:        NewRemoteClient(opts.Resolver, opts.HTTPClient, opts.Timeout),
		resolver:      opts.Resolver,
		local:         local,
		breaker:       breaker,
		logger:        logger,
		defaultUserID: opts.DefaultUserID,
	}
}

// UserID returns the installation's user id, loading it from the local store
// on first use.
func (c *Client) UserID(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.userID > 0 {
		return c.userID, nil
	}
	id, err := c.local.UserID(ctx, c.defaultUserID)
	if err != nil {
		return 0, err
	}
	c.userID = id
	return id, nil
}

// ResetUserID drops the cached user id.
func (c *Client) ResetUserID() {
	c.mu.Lock()
	c.userID = 0
	c.mu.Unlock()
}

// provisionalUserID is used to validate input before any store is touched.
func (c *Client) provisionalUserID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.userID > 0 {
		return c.userID
	}
	return c.defaultUserID
}

// callRemote runs fn through the breaker. An open breaker is reported as an
// availability failure.
func (c *Client) callRemote(op string, fn func() error) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &utils.UnavailableError{Op: op, Err: err}
	}
	if utils.IsUnavailable(err) {
		if r, ok := c.resolver.(interface{ Reset() }); ok {
			r.Reset()
		}
	}
	return err
}

func (c *Client) logFallback(op string, err error) {
	c.logger.Warn("Server unavailable, using local store",
		zap.String("op", op),
		zap.Error(err),
	)
}

// ListEntries returns the user's entries, newest first.
func (c *Client) ListEntries(ctx context.Context) (Result[[]Entry], error) {
	const op = "list journal entries"
	userID, err := c.UserID(ctx)
	if err != nil {
		return Result[[]Entry]{}, err
	}

	var entries []Entry
	remoteErr := c.callRemote(op, func() (err error) {
		entries, err = c.remote.ListEntries(ctx, userID)
		return err
	})
	if remoteErr == nil {
		return Result[[]Entry]{Value: entries, Source: SourceRemote}, nil
	}
	if !utils.IsUnavailable(remoteErr) {
		return Result[[]Entry]{}, remoteErr
	}

	c.logFallback(op, remoteErr)
	entries, err = c.local.ListEntries(ctx, userID)
	if err != nil {
		return Result[[]Entry]{}, err
	}
	return Result[[]Entry]{Value: entries, Source: SourceLocal, RemoteErr: remoteErr}, nil
}

// CreateEntry records a journal entry stamped with the current time.
func (c *Client) CreateEntry(ctx context.Context, text string, mood int) (Result[Entry], error) {
	const op = "create journal entry"
	in := models.CreateJournalEntryInput{UserID: c.provisionalUserID(), EntryText: text, MoodRating: mood}
	if err := in.Validate(); err != nil {
		return Result[Entry]{}, err
	}

	userID, err := c.UserID(ctx)
	if err != nil {
		return Result[Entry]{}, err
	}
	in.UserID = userID
	now := time.Now().UTC()
	in.Timestamp = &now

	var entry Entry
	remoteErr := c.callRemote(op, func() (err error) {
		entry, err = c.remote.CreateEntry(ctx, in)
		return err
	})
	if remoteErr == nil {
		return Result[Entry]{Value: entry, Source: SourceRemote}, nil
	}
	if !utils.IsUnavailable(remoteErr) {
		return Result[Entry]{}, remoteErr
	}

	c.logFallback(op, remoteErr)
	entry, err = c.local.AddEntry(ctx, in)
	if err != nil {
		return Result[Entry]{}, err
	}
	return Result[Entry]{Value: entry, Source: SourceLocal, RemoteErr: remoteErr}, nil
}

// DeleteEntry removes an entry by id. Local ids never reach the server. A
// server id the server does not know, or cannot be asked about, is looked up
// locally. When the local store does not have it either, the server's error
// is returned, so an unreachable server surfaces as unavailable rather than
// not found.
func (c *Client) DeleteEntry(ctx context.Context, id models.RecordID) (Result[struct{}], error) {
	const op = "delete journal entry"
	id = models.RecordID(strings.TrimSpace(id.String()))
	if id == "" {
		return Result[struct{}]{}, &utils.ValidationError{Field: "entry_id", Message: "Invalid entry ID"}
	}

	serverID, numeric := id.Numeric()
	if !numeric {
		if err := c.local.DeleteEntry(ctx, id); err != nil {
			return Result[struct{}]{}, err
		}
		return Result[struct{}]{Source: SourceLocal}, nil
	}

	remoteErr := c.callRemote(op, func() error {
		return c.remote.DeleteEntry(ctx, serverID)
	})
	if remoteErr == nil {
		return Result[struct{}]{Source: SourceRemote}, nil
	}
	switch {
	case utils.IsUnavailable(remoteErr):
		c.logFallback(op, remoteErr)
	case utils.IsNotFound(remoteErr):
	default:
		return Result[struct{}]{}, remoteErr
	}

	if err := c.local.DeleteEntry(ctx, id); err != nil {
		if utils.IsNotFound(err) {
			return Result[struct{}]{}, remoteErr
		}
		return Result[struct{}]{}, err
	}
	return Result[struct{}]{Source: SourceLocal, RemoteErr: remoteErr}, nil
}

// ListContacts returns the user's contacts.
func (c *Client) ListContacts(ctx context.Context) (Result[[]Contact], error) {
	const op = "list contacts"
	userID, err := c.UserID(ctx)
	if err != nil {
		return Result[[]Contact]{}, err
	}

	var contacts []Contact
	remoteErr := c.callRemote(op, func() (err error) {
		contacts, err = c.remote.ListContacts(ctx, userID)
		return err
	})
	if remoteErr == nil {
		return Result[[]Contact]{Value: contacts, Source: SourceRemote}, nil
	}
	if !utils.IsUnavailable(remoteErr) {
		return Result[[]Contact]{}, remoteErr
	}

	c.logFallback(op, remoteErr)
	contacts, err = c.local.ListContacts(ctx, userID)
	if err != nil {
		return Result[[]Contact]{}, err
	}
	return Result[[]Contact]{Value: contacts, Source: SourceLocal, RemoteErr: remoteErr}, nil
}

// CreateContact adds a contact. Duplicates are a ConflictError from either
// store.
func (c *Client) CreateContact(ctx context.Context, name, email string) (Result[Contact], error) {
	const op = "add contact"
	in := models.CreateContactInput{UserID: c.provisionalUserID(), ContactName: name, ContactEmail: email}
	if err := in.Validate(); err != nil {
		return Result[Contact]{}, err
	}

	userID, err := c.UserID(ctx)
	if err != nil {
		return Result[Contact]{}, err
	}
	in.UserID = userID

	var contact Contact
	remoteErr := c.callRemote(op, func() (err error) {
		contact, err = c.remote.CreateContact(ctx, in)
		return err
	})
	if remoteErr == nil {
		return Result[Contact]{Value: contact, Source: SourceRemote}, nil
	}
	if !utils.IsUnavailable(remoteErr) {
		return Result[Contact]{}, remoteErr
	}

	c.logFallback(op, remoteErr)
	contact, err = c.local.AddContact(ctx, in)
	if err != nil {
		return Result[Contact]{}, err
	}
	return Result[Contact]{Value: contact, Source: SourceLocal, RemoteErr: remoteErr}, nil
}
