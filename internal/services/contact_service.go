package services

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/AnshRaj112/mindtrack/internal/models"
	"github.com/AnshRaj112/mindtrack/pkg/utils"
)

const (
	insertContactStatement = `
	INSERT INTO contacts (user_id, contact_name, contact_email)
	VALUES ($1, $2, $3)
	RETURNING id, created_at
	`

	listContactsStatement = `
	SELECT id, user_id, contact_name, contact_email, created_at
	FROM contacts
	WHERE user_id = $1
	ORDER BY contact_name ASC, id ASC
	`
)

type ContactService struct {
	db    *sql.DB
	cache *CacheService
}

func NewContactService(db *sql.DB, cache *CacheService) *ContactService {
	return &ContactService{db: db, cache: cache}
}

func contactsCacheKey(userID int) string {
	return CacheKey("contacts:user", strconv.Itoa(userID))
}

// Create inserts a contact with a lower-cased email. An existing
// (user_id, contact_email) pair yields *utils.ConflictError; rows are never overwritten.
func (s *ContactService) Create(ctx context.Context, in models.CreateContactInput) (models.Contact, error) {
	if err := in.Validate(); err != nil {
		return models.Contact{}, err
	}

	contact := models.Contact{
		UserID:       in.UserID,
		ContactName:  in.ContactName,
		ContactEmail: in.ContactEmail,
	}
	err := s.db.QueryRowContext(ctx, insertContactStatement,
		in.UserID, in.ContactName, in.ContactEmail,
	).Scan(&contact.ID, &contact.CreatedAt)
	if err != nil {
		return models.Contact{}, classifyStorageError("create contact", err)
	}

	s.cache.Invalidate(ctx, contactsCacheKey(in.UserID))
	return contact, nil
}

// ListByUser returns a user's contacts ordered by name.
func (s *ContactService) ListByUser(ctx context.Context, userID int) ([]models.Contact, error) {
	if userID <= 0 {
		return nil, &utils.ValidationError{Field: "user_id", Message: "Invalid user ID"}
	}

	var cached []models.Contact
	scope := contactsCacheKey(userID)
	version, cacheable := s.cache.Version(ctx, scope)
	if cacheable && s.cache.Get(ctx, VersionedKey(scope, version), &cached) {
		return cached, nil
	}

	rows, err := s.db.QueryContext(ctx, listContactsStatement, userID)
	if err != nil {
		return nil, classifyStorageError("list contacts", err)
	}
	defer rows.Close()

	contacts := make([]models.Contact, 0)
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.UserID, &c.ContactName, &c.ContactEmail, &c.CreatedAt); err != nil {
			return nil, classifyStorageError("scan contact", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStorageError("list contacts", err)
	}

	if cacheable {
		s.cache.Set(ctx, VersionedKey(scope, version), contacts)
	}
	return contacts, nil
}
