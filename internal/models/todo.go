package models

// Todo is a task on an organization's shared list.
type Todo struct {
	// ID is the unique identifier for the todo (UUID format).
	ID string

	// OrgID is the owning organization.
	OrgID string

	// Text is the task description.
	Text string

	// Completed is flipped by toggle.
	Completed bool

	// CreatedAt is the Unix timestamp when the todo was created.
	CreatedAt int64
}
