package models

// Interaction types recorded in history.
const (
	InteractionTodoCreated = "todo_created"
	InteractionTodoToggled = "todo_toggled"
	InteractionTodoDeleted = "todo_deleted"
	InteractionPetFed      = "pet_fed"
)

// Entity types recorded in history.
const (
	EntityTodo = "todo"
	EntityPet  = "pet"
)

// HistoryEntry is an append-only audit record of an interaction.
// Entries are never updated or deleted.
type HistoryEntry struct {
	ID              string
	OrgID           string
	InteractionType string
	EntityType      string
	EntityID        string

	ActorID   string
	ActorName string
	ActorRole Role

	// Metadata is a small JSON object describing the action
	// (e.g., the todo's text at the time it was deleted).
	Metadata string

	CreatedAt int64
}
