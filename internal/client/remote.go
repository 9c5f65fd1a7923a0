package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/AnshRaj112/mindtrack/internal/models"
	"github.com/AnshRaj112/mindtrack/pkg/utils"
)

const maxResponseBytes = 4 << 20

// RemoteClient speaks the domain service's JSON API. Every failure comes back
// as one of the utils error types.
type RemoteClient struct {
	resolver   EndpointResolver
	httpClient *http.Client
	timeout    time.Duration
}

func NewRemoteClient(resolver EndpointResolver, httpClient *http.Client, timeout time.Duration) *RemoteClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &RemoteClient{resolver: resolver, httpClient: httpClient, timeout: timeout}
}

// envelope is the part of every response body shared across routes.
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Field   string `json:"field"`
}

// do sends one request and decodes a 2xx body into dest. notFound is
// returned for a 404; when nil a 404 is treated as the route not being
// served, which is an availability failure.
func (c *RemoteClient) do(ctx context.Context, op, method, path string, body, dest interface{}, notFound error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	base, err := c.resolver.BaseURL(ctx)
	if err != nil {
		if utils.IsUnavailable(err) {
			return err
		}
		return &utils.UnavailableError{Op: op, Err: err}
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, reader)
	if err != nil {
		return &utils.UnavailableError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &utils.UnavailableError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &utils.UnavailableError{Op: op, Err: err}
	}

	var env envelope
	envErr := json.Unmarshal(raw, &env)

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		msg := env.Message
		if envErr != nil || msg == "" {
			msg = "Invalid request"
		}
		return &utils.ValidationError{Field: env.Field, Message: msg}
	case resp.StatusCode == http.StatusNotFound:
		if notFound != nil {
			return notFound
		}
		return &utils.UnavailableError{Op: op, Err: fmt.Errorf("route %s %s not served", method, path)}
	case resp.StatusCode == http.StatusConflict:
		msg := env.Message
		if envErr != nil || msg == "" {
			msg = "Conflict"
		}
		return &utils.ConflictError{Message: msg}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &utils.UnavailableError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	if envErr != nil {
		return &utils.UnavailableError{Op: op, Err: fmt.Errorf("malformed response: %w", envErr)}
	}
	if env.Success == nil || !*env.Success {
		return &utils.UnavailableError{Op: op, Err: fmt.Errorf("server reported failure: %s", env.Message)}
	}
	if dest != nil {
		if err := json.Unmarshal(raw, dest); err != nil {
			return &utils.UnavailableError{Op: op, Err: fmt.Errorf("malformed response: %w", err)}
		}
	}
	return nil
}

type createEntryRequest struct {
	UserID     int    `json:"user_id"`
	EntryText  string `json:"entry_text"`
	MoodRating int    `json:"mood_rating"`
	Timestamp  string `json:"timestamp,omitempty"`
}

type createEntryResponse struct {
	EntryID   models.RecordID `json:"entry_id"`
	Timestamp time.Time       `json:"timestamp"`
}

type listEntriesResponse struct {
	Entries []Entry `json:"entries"`
}

type createContactResponse struct {
	ContactID models.RecordID `json:"contact_id"`
	CreatedAt time.Time       `json:"created_at"`
}

type listContactsResponse struct {
	Contacts []Contact `json:"contacts"`
}

func (c *RemoteClient) ListEntries(ctx context.Context, userID int) ([]Entry, error) {
	var out listEntriesResponse
	if err := c.do(ctx, "list journal entries", http.MethodGet, "/journal/user/"+strconv.Itoa(userID), nil, &out, nil); err != nil {
		return nil, err
	}
	if out.Entries == nil {
		out.Entries = []Entry{}
	}
	return out.Entries, nil
}

func (c *RemoteClient) CreateEntry(ctx context.Context, in models.CreateJournalEntryInput) (Entry, error) {
	req := createEntryRequest{UserID: in.UserID, EntryText: in.EntryText, MoodRating: in.MoodRating}
	if in.Timestamp != nil {
		req.Timestamp = in.Timestamp.UTC().Format(time.RFC3339Nano)
	}
	var out createEntryResponse
	if err := c.do(ctx, "create journal entry", http.MethodPost, "/journal/entry", req, &out, nil); err != nil {
		return Entry{}, err
	}
	if out.EntryID == "" {
		return Entry{}, &utils.UnavailableError{Op: "create journal entry", Err: fmt.Errorf("malformed response: missing entry_id")}
	}
	ts := out.Timestamp
	if ts.IsZero() {
		ts = in.TimestampOrNow()
	}
	return Entry{
		ID:         out.EntryID,
		UserID:     in.UserID,
		EntryText:  in.EntryText,
		MoodRating: in.MoodRating,
		Timestamp:  ts,
	}, nil
}

func (c *RemoteClient) DeleteEntry(ctx context.Context, id int64) error {
	notFound := &utils.NotFoundError{Resource: "journal entry", ID: strconv.FormatInt(id, 10)}
	return c.do(ctx, "delete journal entry", http.MethodDelete, "/journal/entry/"+strconv.FormatInt(id, 10), nil, nil, notFound)
}

func (c *RemoteClient) ListContacts(ctx context.Context, userID int) ([]Contact, error) {
	var out listContactsResponse
	if err := c.do(ctx, "list contacts", http.MethodGet, "/contacts/user/"+strconv.Itoa(userID), nil, &out, nil); err != nil {
		return nil, err
	}
	if out.Contacts == nil {
		out.Contacts = []Contact{}
	}
	return out.Contacts, nil
}

func (c *RemoteClient) CreateContact(ctx context.Context, in models.CreateContactInput) (Contact, error) {
	var out createContactResponse
	if err := c.do(ctx, "add contact", http.MethodPost, "/contacts/add", in, &out, nil); err != nil {
		return Contact{}, err
	}
	if out.ContactID == "" {
		return Contact{}, &utils.UnavailableError{Op: "add contact", Err: fmt.Errorf("malformed response: missing contact_id")}
	}
	created := out.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return Contact{
		ID:           out.ContactID,
		UserID:       in.UserID,
		ContactName:  in.ContactName,
		ContactEmail: in.ContactEmail,
		CreatedAt:    created,
	}, nil
}
