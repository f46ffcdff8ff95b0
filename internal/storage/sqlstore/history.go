package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/petpals/internal/models"
)

func fillHistoryDefaults(entry *models.HistoryEntry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt == 0 {
		entry.CreatedAt = time.Now().Unix()
	}
	if entry.Metadata == "" {
		entry.Metadata = "{}"
	}
}

// ListHistory retrieves the newest entries for an organization, newest first.
func (s *SQLStore) ListHistory(ctx context.Context, orgID string, limit int) ([]*models.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, s.q(
		`SELECT id, org_id, interaction_type, entity_type, entity_id, actor_id, actor_name, actor_role, metadata, created_at
		 FROM history_entries WHERE org_id = ? ORDER BY created_at DESC, id LIMIT ?`),
		orgID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []*models.HistoryEntry
	for rows.Next() {
		e := &models.HistoryEntry{}
		var role string
		if err := rows.Scan(&e.ID, &e.OrgID, &e.InteractionType, &e.EntityType, &e.EntityID,
			&e.ActorID, &e.ActorName, &role, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.ActorRole = models.Role(role)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return entries, nil
}
