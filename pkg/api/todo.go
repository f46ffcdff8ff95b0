package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// TodoServiceName is the fully-qualified name of the TodoService.
const TodoServiceName = "petpals.v1.TodoService"

// Procedure paths, suitable for http.ServeMux patterns and interceptor checks.
const (
	TodoServiceListTodosProcedure  = "/petpals.v1.TodoService/ListTodos"
	TodoServiceCreateTodoProcedure = "/petpals.v1.TodoService/CreateTodo"
	TodoServiceToggleTodoProcedure = "/petpals.v1.TodoService/ToggleTodo"
	TodoServiceDeleteTodoProcedure = "/petpals.v1.TodoService/DeleteTodo"
)

// TodoServiceHandler is implemented by the server. The service
// manages the active organization's todo list.
type TodoServiceHandler interface {
	ListTodos(context.Context, *connect.Request[ListTodosRequest]) (*connect.Response[ListTodosResponse], error)
	CreateTodo(context.Context, *connect.Request[CreateTodoRequest]) (*connect.Response[CreateTodoResponse], error)
	ToggleTodo(context.Context, *connect.Request[ToggleTodoRequest]) (*connect.Response[ToggleTodoResponse], error)
	DeleteTodo(context.Context, *connect.Request[DeleteTodoRequest]) (*connect.Response[DeleteTodoResponse], error)
}

// NewTodoServiceHandler builds an HTTP handler for svc and returns the path to
// mount it on.
func NewTodoServiceHandler(svc TodoServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	listTodos := connect.NewUnaryHandler(TodoServiceListTodosProcedure, svc.ListTodos, opts...)
	createTodo := connect.NewUnaryHandler(TodoServiceCreateTodoProcedure, svc.CreateTodo, opts...)
	toggleTodo := connect.NewUnaryHandler(TodoServiceToggleTodoProcedure, svc.ToggleTodo, opts...)
	deleteTodo := connect.NewUnaryHandler(TodoServiceDeleteTodoProcedure, svc.DeleteTodo, opts...)
	return "/" + TodoServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case TodoServiceListTodosProcedure:
			listTodos.ServeHTTP(w, r)
		case TodoServiceCreateTodoProcedure:
			createTodo.ServeHTTP(w, r)
		case TodoServiceToggleTodoProcedure:
			toggleTodo.ServeHTTP(w, r)
		case TodoServiceDeleteTodoProcedure:
			deleteTodo.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// TodoServiceClient calls the TodoService.
type TodoServiceClient interface {
	ListTodos(context.Context, *connect.Request[ListTodosRequest]) (*connect.Response[ListTodosResponse], error)
	CreateTodo(context.Context, *connect.Request[CreateTodoRequest]) (*connect.Response[CreateTodoResponse], error)
	ToggleTodo(context.Context, *connect.Request[ToggleTodoRequest]) (*connect.Response[ToggleTodoResponse], error)
	DeleteTodo(context.Context, *connect.Request[DeleteTodoRequest]) (*connect.Response[DeleteTodoResponse], error)
}

type todoServiceClient struct {
	listTodos  *connect.Client[ListTodosRequest, ListTodosResponse]
	createTodo *connect.Client[CreateTodoRequest, CreateTodoResponse]
	toggleTodo *connect.Client[ToggleTodoRequest, ToggleTodoResponse]
	deleteTodo *connect.Client[DeleteTodoRequest, DeleteTodoResponse]
}

// NewTodoServiceClient creates a client for the service at baseURL.
func NewTodoServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TodoServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &todoServiceClient{
		listTodos: connect.NewClient[ListTodosRequest, ListTodosResponse](httpClient, baseURL+TodoServiceListTodosProcedure, opts...),
		createTodo: connect.NewClient[CreateTodoRequest, CreateTodoResponse](httpClient, baseURL+TodoServiceCreateTodoProcedure, opts...),
		toggleTodo: connect.NewClient[ToggleTodoRequest, ToggleTodoResponse](httpClient, baseURL+TodoServiceToggleTodoProcedure, opts...),
		deleteTodo: connect.NewClient[DeleteTodoRequest, DeleteTodoResponse](httpClient, baseURL+TodoServiceDeleteTodoProcedure, opts...),
	}
}

func (c *todoServiceClient) ListTodos(ctx context.Context, req *connect.Request[ListTodosRequest]) (*connect.Response[ListTodosResponse], error) {
	return c.listTodos.CallUnary(ctx, req)
}

func (c *todoServiceClient) CreateTodo(ctx context.Context, req *connect.Request[CreateTodoRequest]) (*connect.Response[CreateTodoResponse], error) {
	return c.createTodo.CallUnary(ctx, req)
}

func (c *todoServiceClient) ToggleTodo(ctx context.Context, req *connect.Request[ToggleTodoRequest]) (*connect.Response[ToggleTodoResponse], error) {
	return c.toggleTodo.CallUnary(ctx, req)
}

func (c *todoServiceClient) DeleteTodo(ctx context.Context, req *connect.Request[DeleteTodoRequest]) (*connect.Response[DeleteTodoResponse], error) {
	return c.deleteTodo.CallUnary(ctx, req)
}
