package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/mindtrack/internal/models"
	"github.com/AnshRaj112/mindtrack/pkg/utils"
)

type AddContactRequest struct {
	UserID       int    `json:"user_id"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
}

type AddContactResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	ContactID int64     `json:"contact_id"`
	CreatedAt time.Time `json:"created_at"`
}

type GetContactsResponse struct {
	Success  bool             `json:"success"`
	Contacts []models.Contact `json:"contacts"`
	Count    int              `json:"count"`
}

// AddContact handles POST /contacts/add
func AddContact(w http.ResponseWriter, r *http.Request) {
	if contactStore == nil {
		writeMessage(w, http.StatusServiceUnavailable, "Contact service not initialized")
		return
	}

	var req AddContactRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	contact, err := contactStore.Create(ctx, models.CreateContactInput{
		UserID:       req.UserID,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		if utils.IsConflict(err) {
			opts.Metrics.ContactConflict()
		}
		writeError(w, r, err)
		return
	}
	opts.Metrics.ContactCreated()

	writeJSON(w, http.StatusCreated, AddContactResponse{
		Success:   true,
		Message:   "Contact added successfully",
		ContactID: contact.ID,
		CreatedAt: contact.CreatedAt,
	})
}

// GetContacts handles GET /contacts/user/{userID}, ordered by name
func GetContacts(w http.ResponseWriter, r *http.Request) {
	if contactStore == nil {
		writeMessage(w, http.StatusServiceUnavailable, "Contact service not initialized")
		return
	}

	userID, err := models.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	contacts, err := contactStore.ListByUser(ctx, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, GetContactsResponse{
		Success:  true,
		Contacts: contacts,
		Count:    len(contacts),
	})
}
