package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/petpals/internal/models"
	"github.com/mmynk/petpals/internal/storage"
)

// CreateOrganization persists an organization, its owner membership and its
// pet in one transaction.
func (s *SQLStore) CreateOrganization(ctx context.Context, org *models.Organization, pet *models.Pet) error {
	if org.ID == "" {
		org.ID = uuid.New().String()
	}
	if org.CreatedAt == 0 {
		org.CreatedAt = time.Now().Unix()
	}
	pet.OrgID = org.ID

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, s.q(
			"INSERT INTO organizations (id, name, created_by, created_at) VALUES (?, ?, ?, ?)"),
			org.ID, org.Name, org.CreatedBy, org.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert organization: %w", err)
		}

		_, err = tx.ExecContext(ctx, s.q(
			"INSERT INTO memberships (org_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)"),
			org.ID, org.CreatedBy, string(models.RoleOwner), org.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert owner membership: %w", err)
		}

		_, err = tx.ExecContext(ctx, s.q(
			`INSERT INTO pets (org_id, hunger, age, feed_count, species, color, last_fed_at, last_checked_at, version)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			pet.OrgID, pet.Hunger, pet.Age, pet.FeedCount, pet.Species, pet.Color,
			pet.LastFedAt, pet.LastCheckedAt, pet.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to insert pet: %w", err)
		}
		return nil
	})
}

// GetOrganization retrieves an organization by ID.
func (s *SQLStore) GetOrganization(ctx context.Context, orgID string) (*models.Organization, error) {
	org := &models.Organization{}
	err := s.db.QueryRowContext(ctx, s.q(
		"SELECT id, name, created_by, created_at FROM organizations WHERE id = ?"),
		orgID,
	).Scan(&org.ID, &org.Name, &org.CreatedBy, &org.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("organization %s: %w", orgID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return org, nil
}

// AddMembership grants a user a role in an organization.
func (s *SQLStore) AddMembership(ctx context.Context, m *models.Membership) error {
	if m.JoinedAt == 0 {
		m.JoinedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx, s.q(
		"INSERT INTO memberships (org_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)"),
		m.OrgID, m.UserID, string(m.Role), m.JoinedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("membership %s/%s: %w", m.OrgID, m.UserID, storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert membership: %w", err)
	}
	return nil
}

const membershipSelect = `
	SELECT m.org_id, m.user_id, m.role, m.joined_at, o.name, u.display_name
	FROM memberships m
	JOIN organizations o ON o.id = m.org_id
	JOIN users u ON u.id = m.user_id`

// GetMembership retrieves a user's membership in an organization.
func (s *SQLStore) GetMembership(ctx context.Context, orgID, userID string) (*models.Membership, error) {
	row := s.db.QueryRowContext(ctx, s.q(membershipSelect+" WHERE m.org_id = ? AND m.user_id = ?"), orgID, userID)
	m, err := scanMembership(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("membership %s/%s: %w", orgID, userID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return m, nil
}

// ListMembershipsByUser retrieves every organization a user belongs to.
func (s *SQLStore) ListMembershipsByUser(ctx context.Context, userID string) ([]*models.Membership, error) {
	rows, err := s.db.QueryContext(ctx, s.q(membershipSelect+" WHERE m.user_id = ? ORDER BY o.name"), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []*models.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memberships: %w", err)
	}
	return memberships, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMembership(row rowScanner) (*models.Membership, error) {
	m := &models.Membership{}
	var role string
	if err := row.Scan(&m.OrgID, &m.UserID, &role, &m.JoinedAt, &m.OrgName, &m.DisplayName); err != nil {
		return nil, err
	}
	m.Role = models.Role(role)
	return m, nil
}
