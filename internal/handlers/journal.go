package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/mindtrack/internal/models"
	"github.com/AnshRaj112/mindtrack/pkg/utils"
)

type CreateJournalEntryRequest struct {
	UserID     int    `json:"user_id"`
	EntryText  string `json:"entry_text"`
	MoodRating int    `json:"mood_rating"`
	Timestamp  string `json:"timestamp,omitempty"` // RFC 3339; defaults to now
}

type CreateJournalEntryResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	EntryID   int64     `json:"entry_id"`
	Timestamp time.Time `json:"timestamp"`
}

type GetJournalEntriesResponse struct {
	Success bool                  `json:"success"`
	Entries []models.JournalEntry `json:"entries"`
	Count   int                   `json:"count"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CreateJournalEntry handles POST /journal/entry
func CreateJournalEntry(w http.ResponseWriter, r *http.Request) {
	if journalStore == nil {
		writeMessage(w, http.StatusServiceUnavailable, "Journal service not initialized")
		return
	}

	var req CreateJournalEntryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	in := models.CreateJournalEntryInput{
		UserID:     req.UserID,
		EntryText:  req.EntryText,
		MoodRating: req.MoodRating,
	}
	if ts := strings.TrimSpace(req.Timestamp); ts != "" {
		parsed, err := parseTimestamp(ts)
		if err != nil {
			writeError(w, r, &utils.ValidationError{Field: "timestamp", Message: "timestamp must be an ISO 8601 datetime"})
			return
		}
		in.Timestamp = &parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	entry, err := journalStore.Create(ctx, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	opts.Metrics.EntryCreated()

	writeJSON(w, http.StatusCreated, CreateJournalEntryResponse{
		Success:   true,
		Message:   "Journal entry created successfully",
		EntryID:   entry.ID,
		Timestamp: entry.Timestamp,
	})
}

// GetJournalEntries handles GET /journal/user/{userID}, newest first
func GetJournalEntries(w http.ResponseWriter, r *http.Request) {
	if journalStore == nil {
		writeMessage(w, http.StatusServiceUnavailable, "Journal service not initialized")
		return
	}

	userID, err := models.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	entries, err := journalStore.ListByUser(ctx, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, GetJournalEntriesResponse{
		Success: true,
		Entries: entries,
		Count:   len(entries),
	})
}

// DeleteJournalEntry handles DELETE /journal/entry/{entryID}
func DeleteJournalEntry(w http.ResponseWriter, r *http.Request) {
	if journalStore == nil {
		writeMessage(w, http.StatusServiceUnavailable, "Journal service not initialized")
		return
	}

	entryID, err := models.ParseEntryID(chi.URLParam(r, "entryID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := journalStore.Delete(ctx, entryID); err != nil {
		writeError(w, r, err)
		return
	}
	opts.Metrics.EntryDeleted()

	writeJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Journal entry deleted successfully",
	})
}

// localTimestampLayout covers ISO 8601 datetimes sent without an offset.
// Fractional seconds are accepted by time.Parse after the seconds field.
const localTimestampLayout = "2006-01-02T15:04:05"

// parseTimestamp accepts RFC 3339, or an offset-less datetime read as UTC.
func parseTimestamp(ts string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err == nil {
		return parsed, nil
	}
	if local, lerr := time.ParseInLocation(localTimestampLayout, ts, time.UTC); lerr == nil {
		return local, nil
	}
	return time.Time{}, err
}
