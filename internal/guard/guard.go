package guard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mmynk/petpals/internal/apperr"
	"github.com/mmynk/petpals/internal/live"
	"github.com/mmynk/petpals/internal/models"
	"github.com/mmynk/petpals/internal/permissions"
	"github.com/mmynk/petpals/internal/storage"
	"github.com/mmynk/petpals/internal/tenant"
)

const (
	// DefaultListLimit caps history and message reads when no limit is given.
	DefaultListLimit = 50
	// MaxListLimit is the largest page a caller may ask for.
	MaxListLimit = 200

	maxTodoLength    = 500
	maxMessageLength = 2000
)

// Guard is a per-request view of one tenant's data. It is not safe for
// concurrent use; build one per request.
type Guard struct {
	b        *Backend
	userID   string
	tenantID string
	member   *models.Membership
}

// New builds a guard for tc. It fails with apperr.ErrUnauthorized when no
// user is present and apperr.ErrNoActiveTenant when no tenant is selected.
func New(b *Backend, tc tenant.Context) (*Guard, error) {
	if tc.UserID == "" {
		return nil, apperr.ErrUnauthorized
	}
	if tc.TenantID == "" {
		return nil, apperr.ErrNoActiveTenant
	}
	return &Guard{b: b, userID: tc.UserID, tenantID: tc.TenantID}, nil
}

// TenantID returns the tenant every operation is scoped to.
func (g *Guard) TenantID() string { return g.tenantID }

// UserID returns the acting user.
func (g *Guard) UserID() string { return g.userID }

// Member returns the caller's membership in the guard's tenant.
// System guards act as owner.
func (g *Guard) Member(ctx context.Context) (*models.Membership, error) {
	if g.member != nil {
		return g.member, nil
	}

	if g.userID == tenant.SystemUserID {
		g.member = &models.Membership{
			UserID:      tenant.SystemUserID,
			OrgID:       g.tenantID,
			Role:        models.RoleOwner,
			DisplayName: "system",
		}
		return g.member, nil
	}

	m, err := g.b.store.GetMembership(ctx, g.tenantID, g.userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("user %s in organization %s: %w", g.userID, g.tenantID, apperr.ErrNotMember)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}
	if m.OrgID != g.tenantID {
		return nil, apperr.ErrNotMember
	}
	g.member = m
	return m, nil
}

// Require returns the caller's membership if its role grants capability.
func (g *Guard) Require(ctx context.Context, capability permissions.Capability) (*models.Membership, error) {
	m, err := g.Member(ctx)
	if err != nil {
		return nil, err
	}
	if err := permissions.Check(m.Role, capability); err != nil {
		return nil, err
	}
	return m, nil
}

// ListTodos returns the tenant's todos, oldest first.
func (g *Guard) ListTodos(ctx context.Context) ([]*models.Todo, error) {
	if _, err := g.Member(ctx); err != nil {
		return nil, err
	}

	todos, err := g.b.store.ListTodos(ctx, g.tenantID)
	if err != nil {
		return nil, err
	}
	return scoped(todos, g.tenantID, func(t *models.Todo) string { return t.OrgID }), nil
}

// CreateTodo adds a todo to the tenant's list.
func (g *Guard) CreateTodo(ctx context.Context, text string) (*models.Todo, error) {
	m, err := g.Require(ctx, permissions.TodoCreate)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if err := validateText("todo text", text, maxTodoLength); err != nil {
		return nil, err
	}

	now := g.b.now().Unix()
	todo := &models.Todo{
		OrgID:     g.tenantID,
		Text:      text,
		CreatedAt: now,
	}
	entry := g.entry(m, models.InteractionTodoCreated, models.EntityTodo, "", now, map[string]any{
		"text": text,
	})
	if err := g.b.store.CreateTodo(ctx, todo, entry); err != nil {
		return nil, err
	}

	g.b.metrics.RecordMutation("create_todo")
	g.b.notify(ctx, g.tenantID, live.ResourceTodos, live.ResourceHistory)
	return todo, nil
}

// ToggleTodo flips a todo's completed flag.
func (g *Guard) ToggleTodo(ctx context.Context, todoID string) (*models.Todo, error) {
	m, err := g.Require(ctx, permissions.TodoUpdate)
	if err != nil {
		return nil, err
	}

	todo, err := g.toggleTodo(ctx, m, todoID)
	if err != nil {
		return nil, err
	}

	g.b.metrics.RecordMutation("toggle_todo")
	g.b.notify(ctx, g.tenantID, live.ResourceTodos, live.ResourceHistory)
	return todo, nil
}

// toggleTodo flips the stored flag. The write only lands if the flag still
// holds the value that was read; otherwise the todo is re-read and flipped
// again so no concurrent toggle is lost.
func (g *Guard) toggleTodo(ctx context.Context, m *models.Membership, todoID string) (*models.Todo, error) {
	lock := g.b.lockFor("todo/" + todoID)
	lock.Lock()
	defer lock.Unlock()

	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		todo, err := g.ownedTodo(ctx, todoID)
		if err != nil {
			return nil, err
		}

		completed := !todo.Completed
		entry := g.entry(m, models.InteractionTodoToggled, models.EntityTodo, todo.ID, g.b.now().Unix(), map[string]any{
			"text":      todo.Text,
			"completed": completed,
		})
		err = g.b.store.SetTodoCompleted(ctx, g.tenantID, todo.ID, completed, entry)
		if errors.Is(err, storage.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, storeError(err)
		}
		todo.Completed = completed
		return todo, nil
	}
	return nil, fmt.Errorf("failed to toggle todo %s after %d attempts: %w",
		todoID, maxWriteAttempts, storage.ErrVersionConflict)
}

// DeleteTodo permanently removes a todo.
func (g *Guard) DeleteTodo(ctx context.Context, todoID string) error {
	m, err := g.Require(ctx, permissions.TodoDelete)
	if err != nil {
		return err
	}

	todo, err := g.ownedTodo(ctx, todoID)
	if err != nil {
		return err
	}

	now := g.b.now().Unix()
	entry := g.entry(m, models.InteractionTodoDeleted, models.EntityTodo, todo.ID, now, map[string]any{
		"text": todo.Text,
	})
	if err := g.b.store.DeleteTodo(ctx, g.tenantID, todo.ID, entry); err != nil {
		return storeError(err)
	}

	g.b.metrics.RecordMutation("delete_todo")
	g.b.notify(ctx, g.tenantID, live.ResourceTodos, live.ResourceHistory)
	return nil
}

// ownedTodo loads a todo and checks it belongs to the guard's tenant.
// A foreign row is reported as cross-tenant access, never as not found.
func (g *Guard) ownedTodo(ctx context.Context, todoID string) (*models.Todo, error) {
	if todoID == "" {
		return nil, fmt.Errorf("todo id is required: %w", apperr.ErrInvalidArgument)
	}

	todo, err := g.b.store.GetTodo(ctx, todoID)
	if err != nil {
		return nil, storeError(err)
	}
	if todo.OrgID != g.tenantID {
		return nil, fmt.Errorf("todo %s: %w", todoID, apperr.ErrCrossTenantAccess)
	}
	return todo, nil
}

// History returns the newest history entries, newest first.
func (g *Guard) History(ctx context.Context, limit int) ([]*models.HistoryEntry, error) {
	if _, err := g.Member(ctx); err != nil {
		return nil, err
	}

	entries, err := g.b.store.ListHistory(ctx, g.tenantID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	return scoped(entries, g.tenantID, func(e *models.HistoryEntry) string { return e.OrgID }), nil
}

// Messages returns the newest chat messages, oldest first.
func (g *Guard) Messages(ctx context.Context, limit int) ([]*models.Message, error) {
	if _, err := g.Member(ctx); err != nil {
		return nil, err
	}

	msgs, err := g.b.store.ListMessages(ctx, g.tenantID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	return scoped(msgs, g.tenantID, func(m *models.Message) string { return m.OrgID }), nil
}

// PostMessage appends a chat message authored by the caller.
func (g *Guard) PostMessage(ctx context.Context, body string) (*models.Message, error) {
	m, err := g.Require(ctx, permissions.MessageCreate)
	if err != nil {
		return nil, err
	}

	body = strings.TrimSpace(body)
	if err := validateText("message body", body, maxMessageLength); err != nil {
		return nil, err
	}

	msg := &models.Message{
		OrgID:      g.tenantID,
		AuthorID:   g.userID,
		AuthorName: m.DisplayName,
		Body:       body,
		CreatedAt:  g.b.now().Unix(),
	}
	if err := g.b.store.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	g.b.metrics.RecordMutation("post_message")
	g.b.notify(ctx, g.tenantID, live.ResourceMessages)
	return msg, nil
}

func (g *Guard) entry(m *models.Membership, interaction, entity, entityID string, at int64, meta map[string]any) *models.HistoryEntry {
	return &models.HistoryEntry{
		OrgID:           g.tenantID,
		InteractionType: interaction,
		EntityType:      entity,
		EntityID:        entityID,
		ActorID:         m.UserID,
		ActorName:       m.DisplayName,
		ActorRole:       m.Role,
		Metadata:        encodeMetadata(meta),
		CreatedAt:       at,
	}
}

func encodeMetadata(meta map[string]any) string {
	data, err := json.Marshal(meta)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// scoped drops any row not owned by tenantID.
func scoped[T any](rows []T, tenantID string, owner func(T) string) []T {
	out := rows[:0]
	for _, r := range rows {
		if owner(r) == tenantID {
			out = append(out, r)
		}
	}
	return out
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

func validateText(field, s string, maxLen int) error {
	if s == "" {
		return fmt.Errorf("%s is required: %w", field, apperr.ErrInvalidArgument)
	}
	if utf8.RuneCountInString(s) > maxLen {
		return fmt.Errorf("%s exceeds %d characters: %w", field, maxLen, apperr.ErrInvalidArgument)
	}
	return nil
}

// storeError translates storage sentinels into the user-facing taxonomy.
func storeError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %v", apperr.ErrNotFound, err)
	}
	return err
}
