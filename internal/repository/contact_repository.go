package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/scholars-edge/academy-api/internal/models"
)

// ContactRepository handles persistence of contact-form messages.
type ContactRepository struct {
	db *sqlx.DB
}

// NewContactRepository constructs the repository.
func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create persists a new message, filling the server-assigned fields.
// is_read always starts false regardless of input.
func (r *ContactRepository) Create(ctx context.Context, m *models.ContactMessage) error {
	const query = `INSERT INTO contact_messages (name, email, phone, subject, message)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, is_read, created_at`
	if err := r.db.QueryRowxContext(ctx, query, m.Name, m.Email, m.Phone, m.Subject, m.Message).
		Scan(&m.ID, &m.IsRead, &m.CreatedAt); err != nil {
		return fmt.Errorf("create contact message: %w", err)
	}
	return nil
}

// List returns all messages, most recent first.
func (r *ContactRepository) List(ctx context.Context) ([]models.ContactMessage, error) {
	const query = `SELECT id, name, email, phone, subject, message, is_read, created_at
        FROM contact_messages ORDER BY created_at DESC, id DESC`
	var messages []models.ContactMessage
	if err := r.db.SelectContext(ctx, &messages, query); err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return messages, nil
}

// MarkRead sets is_read true. Idempotent: marking an already-read or missing
// message is a no-op, not an error.
func (r *ContactRepository) MarkRead(ctx context.Context, id int64) error {
	const query = `UPDATE contact_messages SET is_read = TRUE WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	return nil
}
