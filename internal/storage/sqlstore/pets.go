package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/petpals/internal/models"
	"github.com/mmynk/petpals/internal/storage"
)

// GetPet retrieves an organization's pet.
func (s *SQLStore) GetPet(ctx context.Context, orgID string) (*models.Pet, error) {
	pet := &models.Pet{}
	err := s.db.QueryRowContext(ctx, s.q(
		`SELECT org_id, hunger, age, feed_count, species, color, last_fed_at, last_checked_at, version
		 FROM pets WHERE org_id = ?`),
		orgID,
	).Scan(&pet.OrgID, &pet.Hunger, &pet.Age, &pet.FeedCount, &pet.Species, &pet.Color,
		&pet.LastFedAt, &pet.LastCheckedAt, &pet.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pet for organization %s: %w", orgID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pet: %w", err)
	}
	return pet, nil
}

// UpdatePet writes pet when the stored version still equals pet.Version.
// On success pet.Version is incremented to match the stored row.
func (s *SQLStore) UpdatePet(ctx context.Context, pet *models.Pet, entry *models.HistoryEntry) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, s.q(
			`UPDATE pets
			 SET hunger = ?, age = ?, feed_count = ?, species = ?, color = ?,
			     last_fed_at = ?, last_checked_at = ?, version = version + 1
			 WHERE org_id = ? AND version = ?`),
			pet.Hunger, pet.Age, pet.FeedCount, pet.Species, pet.Color,
			pet.LastFedAt, pet.LastCheckedAt, pet.OrgID, pet.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to update pet: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if n == 0 {
			var exists int
			err := tx.QueryRowContext(ctx, s.q("SELECT 1 FROM pets WHERE org_id = ?"), pet.OrgID).Scan(&exists)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("pet for organization %s: %w", pet.OrgID, storage.ErrNotFound)
			}
			if err != nil {
				return fmt.Errorf("failed to check pet existence: %w", err)
			}
			return fmt.Errorf("pet for organization %s at version %d: %w", pet.OrgID, pet.Version, storage.ErrVersionConflict)
		}
		return s.insertHistory(ctx, tx, entry)
	})
	if err != nil {
		return err
	}
	pet.Version++
	return nil
}
