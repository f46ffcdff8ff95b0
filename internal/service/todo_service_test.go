package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/petpals/internal/models"
	"github.com/mmynk/petpals/pkg/api"
)

// twoTenants sets up org A with an owner and a plain member, and org B with
// its own owner. It returns session tokens scoped to each user's org.
func twoTenants(t *testing.T, env *testEnv) (ownerA, memberA, ownerB string) {
	t.Helper()
	ctx := context.Background()

	annUser, annToken := env.register(t, "ann@example.com", "Ann")
	catUser, catToken := env.register(t, "cat@example.com", "Cat")
	bobUser, bobToken := env.register(t, "bob@example.com", "Bob")

	orgA := env.provision(t, annUser.ID, "Flatmates")
	orgB := env.provision(t, bobUser.ID, "Platform Team")
	require.NoError(t, env.store.AddMembership(ctx, &models.Membership{
		UserID: catUser.ID,
		OrgID:  orgA.ID,
		Role:   models.RoleMember,
	}))

	return env.switchOrg(t, annToken, orgA.ID),
		env.switchOrg(t, catToken, orgA.ID),
		env.switchOrg(t, bobToken, orgB.ID)
}

func TestTodoService(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	ownerA, memberA, ownerB := twoTenants(t, env)

	owner := env.clients(ownerA).todo
	member := env.clients(memberA).todo
	outsider := env.clients(ownerB).todo

	created, err := member.CreateTodo(ctx, connect.NewRequest(&api.CreateTodoRequest{Text: "buy cat food"}))
	require.NoError(t, err)
	todo := created.Msg.Todo
	assert.NotEmpty(t, todo.ID)
	assert.Equal(t, "buy cat food", todo.Text)
	assert.False(t, todo.Completed)

	t.Run("list", func(t *testing.T) {
		resp, err := owner.ListTodos(ctx, connect.NewRequest(&api.ListTodosRequest{}))
		require.NoError(t, err)
		require.Len(t, resp.Msg.Todos, 1)
		assert.Equal(t, todo.ID, resp.Msg.Todos[0].ID)

		resp, err = outsider.ListTodos(ctx, connect.NewRequest(&api.ListTodosRequest{}))
		require.NoError(t, err)
		assert.Empty(t, resp.Msg.Todos)
	})

	t.Run("toggle", func(t *testing.T) {
		resp, err := member.ToggleTodo(ctx, connect.NewRequest(&api.ToggleTodoRequest{TodoID: todo.ID}))
		require.NoError(t, err)
		assert.True(t, resp.Msg.Todo.Completed)
	})

	t.Run("cross-tenant toggle and delete", func(t *testing.T) {
		_, err := outsider.ToggleTodo(ctx, connect.NewRequest(&api.ToggleTodoRequest{TodoID: todo.ID}))
		assertCode(t, connect.CodePermissionDenied, err)

		_, err = outsider.DeleteTodo(ctx, connect.NewRequest(&api.DeleteTodoRequest{TodoID: todo.ID}))
		assertCode(t, connect.CodePermissionDenied, err)

		resp, err := owner.ListTodos(ctx, connect.NewRequest(&api.ListTodosRequest{}))
		require.NoError(t, err)
		require.Len(t, resp.Msg.Todos, 1)
		assert.True(t, resp.Msg.Todos[0].Completed)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := member.CreateTodo(ctx, connect.NewRequest(&api.CreateTodoRequest{Text: "  "}))
		assertCode(t, connect.CodeInvalidArgument, err)

		_, err = member.ToggleTodo(ctx, connect.NewRequest(&api.ToggleTodoRequest{TodoID: "missing"}))
		assertCode(t, connect.CodeNotFound, err)
	})

	t.Run("delete requires admin", func(t *testing.T) {
		_, err := member.DeleteTodo(ctx, connect.NewRequest(&api.DeleteTodoRequest{TodoID: todo.ID}))
		assertCode(t, connect.CodePermissionDenied, err)

		_, err = owner.DeleteTodo(ctx, connect.NewRequest(&api.DeleteTodoRequest{TodoID: todo.ID}))
		require.NoError(t, err)

		resp, err := owner.ListTodos(ctx, connect.NewRequest(&api.ListTodosRequest{}))
		require.NoError(t, err)
		assert.Empty(t, resp.Msg.Todos)
	})
}

func TestPetAndActivityServices(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	ownerA, memberA, ownerB := twoTenants(t, env)

	pets := env.clients(memberA).pet
	activity := env.clients(memberA).activity

	got, err := pets.GetPet(ctx, connect.NewRequest(&api.GetPetRequest{}))
	require.NoError(t, err)
	assert.Equal(t, "egg", got.Msg.Pet.Stage)
	assert.Equal(t, int32(0), got.Msg.Pet.FeedCount)

	fed, err := pets.FeedPet(ctx, connect.NewRequest(&api.FeedPetRequest{}))
	require.NoError(t, err)
	assert.Equal(t, "hatched", fed.Msg.Transition)
	assert.Equal(t, "baby", fed.Msg.Pet.Stage)
	assert.Equal(t, int32(7), fed.Msg.Pet.Hunger)
	assert.Equal(t, int32(1), fed.Msg.Pet.FeedCount)

	decayed, err := pets.UpdatePetHunger(ctx, connect.NewRequest(&api.UpdatePetHungerRequest{}))
	require.NoError(t, err)
	assert.Equal(t, "none", decayed.Msg.Transition)
	assert.Equal(t, int32(7), decayed.Msg.Pet.Hunger)

	other, err := env.clients(ownerB).pet.GetPet(ctx, connect.NewRequest(&api.GetPetRequest{}))
	require.NoError(t, err)
	assert.Equal(t, "egg", other.Msg.Pet.Stage)

	posted, err := activity.PostMessage(ctx, connect.NewRequest(&api.PostMessageRequest{Body: "fed the blob"}))
	require.NoError(t, err)
	assert.Equal(t, "Cat", posted.Msg.Message.AuthorName)

	msgs, err := env.clients(ownerA).activity.ListMessages(ctx, connect.NewRequest(&api.ListMessagesRequest{}))
	require.NoError(t, err)
	require.Len(t, msgs.Msg.Messages, 1)
	assert.Equal(t, "fed the blob", msgs.Msg.Messages[0].Body)

	history, err := env.clients(ownerA).activity.ListHistory(ctx, connect.NewRequest(&api.ListHistoryRequest{Limit: 10}))
	require.NoError(t, err)
	require.Len(t, history.Msg.Entries, 1)
	entry := history.Msg.Entries[0]
	assert.Equal(t, models.InteractionPetFed, entry.InteractionType)
	assert.Equal(t, "Cat", entry.ActorName)
	assert.Equal(t, "member", entry.ActorRole)

	foreign, err := env.clients(ownerB).activity.ListHistory(ctx, connect.NewRequest(&api.ListHistoryRequest{}))
	require.NoError(t, err)
	assert.Empty(t, foreign.Msg.Entries)
}

func TestStorageFailureIsNotExposed(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	ownerA, _, _ := twoTenants(t, env)

	require.NoError(t, env.store.Close())

	_, err := env.clients(ownerA).todo.ListTodos(ctx, connect.NewRequest(&api.ListTodosRequest{}))
	assertCode(t, connect.CodeInternal, err)

	var connectErr *connect.Error
	require.ErrorAs(t, err, &connectErr)
	assert.Equal(t, "internal error", connectErr.Message())
	assert.NotContains(t, err.Error(), "sql")
}
