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

// CreateTodo persists a new todo and, if given, its history entry.
func (s *SQLStore) CreateTodo(ctx context.Context, todo *models.Todo, entry *models.HistoryEntry) error {
	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	if todo.CreatedAt == 0 {
		todo.CreatedAt = time.Now().Unix()
	}
	if entry != nil {
		entry.EntityID = todo.ID
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, s.q(
			"INSERT INTO todos (id, org_id, text, completed, created_at) VALUES (?, ?, ?, ?, ?)"),
			todo.ID, todo.OrgID, todo.Text, todo.Completed, todo.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert todo: %w", err)
		}
		return s.insertHistory(ctx, tx, entry)
	})
}

// GetTodo retrieves a todo by ID regardless of organization.
func (s *SQLStore) GetTodo(ctx context.Context, todoID string) (*models.Todo, error) {
	todo := &models.Todo{}
	err := s.db.QueryRowContext(ctx, s.q(
		"SELECT id, org_id, text, completed, created_at FROM todos WHERE id = ?"),
		todoID,
	).Scan(&todo.ID, &todo.OrgID, &todo.Text, &todo.Completed, &todo.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("todo %s: %w", todoID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}
	return todo, nil
}

// ListTodos retrieves all todos for an organization, oldest first.
func (s *SQLStore) ListTodos(ctx context.Context, orgID string) ([]*models.Todo, error) {
	rows, err := s.db.QueryContext(ctx, s.q(
		"SELECT id, org_id, text, completed, created_at FROM todos WHERE org_id = ? ORDER BY created_at, id"),
		orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	var todos []*models.Todo
	for rows.Next() {
		todo := &models.Todo{}
		if err := rows.Scan(&todo.ID, &todo.OrgID, &todo.Text, &todo.Completed, &todo.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}
	return todos, nil
}

// SetTodoCompleted sets a todo's completed flag within orgID if it currently
// holds the opposite value.
func (s *SQLStore) SetTodoCompleted(ctx context.Context, orgID, todoID string, completed bool, entry *models.HistoryEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, s.q(
			"UPDATE todos SET completed = ? WHERE id = ? AND org_id = ? AND completed = ?"),
			completed, todoID, orgID, !completed,
		)
		if err != nil {
			return fmt.Errorf("failed to update todo: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if n == 0 {
			var current bool
			err := tx.QueryRowContext(ctx, s.q(
				"SELECT completed FROM todos WHERE id = ? AND org_id = ?"), todoID, orgID,
			).Scan(&current)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("todo %s: %w", todoID, storage.ErrNotFound)
			}
			if err != nil {
				return fmt.Errorf("failed to get todo: %w", err)
			}
			return fmt.Errorf("todo %s already completed=%t: %w", todoID, current, storage.ErrVersionConflict)
		}
		return s.insertHistory(ctx, tx, entry)
	})
}

// DeleteTodo removes a todo within orgID.
func (s *SQLStore) DeleteTodo(ctx context.Context, orgID, todoID string, entry *models.HistoryEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, s.q("DELETE FROM todos WHERE id = ? AND org_id = ?"), todoID, orgID)
		if err != nil {
			return fmt.Errorf("failed to delete todo: %w", err)
		}
		if err := expectOneRow(res, "todo", todoID); err != nil {
			return err
		}
		return s.insertHistory(ctx, tx, entry)
	})
}

func expectOneRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}
