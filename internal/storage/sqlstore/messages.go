package sqlstore

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/petpals/internal/models"
)

// CreateMessage persists a new chat message.
func (s *SQLStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt == 0 {
		msg.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx, s.q(
		"INSERT INTO messages (id, org_id, author_id, author_name, body, created_at) VALUES (?, ?, ?, ?, ?, ?)"),
		msg.ID, msg.OrgID, msg.AuthorID, msg.AuthorName, msg.Body, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// ListMessages retrieves the newest messages for an organization, returned
// oldest first so they read top to bottom.
func (s *SQLStore) ListMessages(ctx context.Context, orgID string, limit int) ([]*models.Message, error) {
	rows, err := s.db.QueryContext(ctx, s.q(
		`SELECT id, org_id, author_id, author_name, body, created_at
		 FROM messages WHERE org_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`),
		orgID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(&m.ID, &m.OrgID, &m.AuthorID, &m.AuthorName, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	slices.Reverse(messages)
	return messages, nil
}
