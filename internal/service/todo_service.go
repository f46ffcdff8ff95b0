package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/petpals/internal/apperr"
	"github.com/mmynk/petpals/internal/guard"
	"github.com/mmynk/petpals/pkg/api"
)

// TodoService implements the Connect TodoService.
type TodoService struct {
	backend *guard.Backend
}

var _ api.TodoServiceHandler = (*TodoService)(nil)

// NewTodoService creates a TodoService over the guard backend.
func NewTodoService(backend *guard.Backend) *TodoService {
	return &TodoService{backend: backend}
}

// ListTodos returns the active organization's todos.
func (s *TodoService) ListTodos(ctx context.Context, req *connect.Request[api.ListTodosRequest]) (*connect.Response[api.ListTodosResponse], error) {
	g, err := guardFor(ctx, s.backend)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	slog.Debug("ListTodos request received", "org_id", g.TenantID())

	todos, err := g.ListTodos(ctx)
	if err != nil {
		slog.Error("ListTodos failed", "org_id", g.TenantID(), "error", err)
		return nil, apperr.ToConnect(err)
	}

	return connect.NewResponse(&api.ListTodosResponse{Todos: todosToAPI(todos)}), nil
}

// CreateTodo adds a todo.
func (s *TodoService) CreateTodo(ctx context.Context, req *connect.Request[api.CreateTodoRequest]) (*connect.Response[api.CreateTodoResponse], error) {
	g, err := guardFor(ctx, s.backend)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	slog.Info("CreateTodo request received", "org_id", g.TenantID(), "user_id", g.UserID())

	todo, err := g.CreateTodo(ctx, req.Msg.Text)
	if err != nil {
		slog.Error("CreateTodo failed", "org_id", g.TenantID(), "error", err)
		return nil, apperr.ToConnect(err)
	}

	slog.Info("Todo created", "org_id", g.TenantID(), "todo_id", todo.ID)
	return connect.NewResponse(&api.CreateTodoResponse{Todo: todoToAPI(todo)}), nil
}

// ToggleTodo flips a todo's completed flag.
func (s *TodoService) ToggleTodo(ctx context.Context, req *connect.Request[api.ToggleTodoRequest]) (*connect.Response[api.ToggleTodoResponse], error) {
	g, err := guardFor(ctx, s.backend)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	slog.Info("ToggleTodo request received", "org_id", g.TenantID(), "todo_id", req.Msg.TodoID)

	todo, err := g.ToggleTodo(ctx, req.Msg.TodoID)
	if err != nil {
		slog.Error("ToggleTodo failed", "org_id", g.TenantID(), "todo_id", req.Msg.TodoID, "error", err)
		return nil, apperr.ToConnect(err)
	}

	slog.Info("Todo toggled", "org_id", g.TenantID(), "todo_id", todo.ID, "completed", todo.Completed)
	return connect.NewResponse(&api.ToggleTodoResponse{Todo: todoToAPI(todo)}), nil
}

// DeleteTodo removes a todo.
func (s *TodoService) DeleteTodo(ctx context.Context, req *connect.Request[api.DeleteTodoRequest]) (*connect.Response[api.DeleteTodoResponse], error) {
	g, err := guardFor(ctx, s.backend)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	slog.Info("DeleteTodo request received", "org_id", g.TenantID(), "todo_id", req.Msg.TodoID)

	if err := g.DeleteTodo(ctx, req.Msg.TodoID); err != nil {
		slog.Error("DeleteTodo failed", "org_id", g.TenantID(), "todo_id", req.Msg.TodoID, "error", err)
		return nil, apperr.ToConnect(err)
	}

	slog.Info("Todo deleted", "org_id", g.TenantID(), "todo_id", req.Msg.TodoID)
	return connect.NewResponse(&api.DeleteTodoResponse{}), nil
}
