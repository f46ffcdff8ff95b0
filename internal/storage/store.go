// Package storage provides abstractions for persistent data storage.
//
// Store is the raw persistence layer. It is deliberately tenant-agnostic about
// lookups by ID: callers other than the guard package must not use it for
// tenant data.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/petpals/internal/models"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict is returned by a conditional write when the stored
	// row no longer matches what the caller read.
	ErrVersionConflict = errors.New("version conflict")

	// ErrDuplicate is returned when a unique constraint would be violated.
	ErrDuplicate = errors.New("duplicate")
)

// Store defines the interface for persistence operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the guard layer.
type Store interface {
	UserStore
	OrganizationStore
	TodoStore
	PetStore
	HistoryStore
	MessageStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser persists a new user. user.ID is populated if empty.
	// Returns ErrDuplicate if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// OrganizationStore persists tenants and memberships.
type OrganizationStore interface {
	// CreateOrganization persists org, an owner membership for org.CreatedBy
	// and the organization's pet in one transaction.
	CreateOrganization(ctx context.Context, org *models.Organization, pet *models.Pet) error
	GetOrganization(ctx context.Context, orgID string) (*models.Organization, error)

	// AddMembership grants a user a role in an organization.
	AddMembership(ctx context.Context, m *models.Membership) error
	GetMembership(ctx context.Context, orgID, userID string) (*models.Membership, error)
	ListMembershipsByUser(ctx context.Context, userID string) ([]*models.Membership, error)
}

// TodoStore persists todos. Write methods take an optional history entry that
// is committed in the same transaction.
type TodoStore interface {
	CreateTodo(ctx context.Context, todo *models.Todo, entry *models.HistoryEntry) error

	// GetTodo looks a todo up by ID alone so callers can tell a foreign row
	// from a missing one.
	GetTodo(ctx context.Context, todoID string) (*models.Todo, error)
	ListTodos(ctx context.Context, orgID string) ([]*models.Todo, error)

	// SetTodoCompleted writes completed only if the stored flag is its
	// opposite. Returns ErrVersionConflict if it already equals completed.
	SetTodoCompleted(ctx context.Context, orgID, todoID string, completed bool, entry *models.HistoryEntry) error
	DeleteTodo(ctx context.Context, orgID, todoID string, entry *models.HistoryEntry) error
}

// PetStore persists pets.
type PetStore interface {
	GetPet(ctx context.Context, orgID string) (*models.Pet, error)

	// UpdatePet writes pet if the stored version equals pet.Version and bumps
	// pet.Version on success. Returns ErrVersionConflict otherwise.
	UpdatePet(ctx context.Context, pet *models.Pet, entry *models.HistoryEntry) error
}

// HistoryStore reads the audit trail. Entries are written by the other stores.
type HistoryStore interface {
	ListHistory(ctx context.Context, orgID string, limit int) ([]*models.HistoryEntry, error)
}

// MessageStore persists chat messages.
type MessageStore interface {
	CreateMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, orgID string, limit int) ([]*models.Message, error)
}
