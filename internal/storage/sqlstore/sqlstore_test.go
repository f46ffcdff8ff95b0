package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/petpals/internal/models"
	"github.com/mmynk/petpals/internal/storage"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func seedOrg(t *testing.T, store *SQLStore, name string) (*models.User, *models.Organization) {
	t.Helper()
	ctx := context.Background()

	owner := models.NewUser(name+"@example.com", name+" Owner", "hash")
	require.NoError(t, store.CreateUser(ctx, owner))

	org := &models.Organization{Name: name, CreatedBy: owner.ID}
	pet := &models.Pet{Hunger: 7, Species: "cat", Color: "#fff"}
	require.NoError(t, store.CreateOrganization(ctx, org, pet))
	return owner, org
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser generates ID and timestamps", func(t *testing.T) {
		user := &models.User{Email: "alice@example.com", DisplayName: "Alice", PasswordHash: "x"}
		require.NoError(t, store.CreateUser(ctx, user))
		assert.NotEmpty(t, user.ID)
		assert.NotZero(t, user.CreatedAt)
		assert.Equal(t, user.CreatedAt, user.UpdatedAt)

		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)

		byID, err := store.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", byID.DisplayName)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := store.CreateUser(ctx, &models.User{Email: "alice@example.com", DisplayName: "Other", PasswordHash: "y"})
		assert.ErrorIs(t, err, storage.ErrDuplicate)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := store.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = store.GetUserByID(ctx, "nope")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestOrganizations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner, org := seedOrg(t, store, "Flatmates")

	t.Run("CreateOrganization creates owner membership and pet", func(t *testing.T) {
		got, err := store.GetOrganization(ctx, org.ID)
		require.NoError(t, err)
		assert.Equal(t, "Flatmates", got.Name)

		m, err := store.GetMembership(ctx, org.ID, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RoleOwner, m.Role)
		assert.Equal(t, "Flatmates", m.OrgName)
		assert.Equal(t, "Flatmates Owner", m.DisplayName)

		pet, err := store.GetPet(ctx, org.ID)
		require.NoError(t, err)
		assert.Equal(t, 7, pet.Hunger)
		assert.Equal(t, "cat", pet.Species)
	})

	t.Run("AddMembership and ListMembershipsByUser", func(t *testing.T) {
		bob := models.NewUser("bob@example.com", "Bob", "hash")
		require.NoError(t, store.CreateUser(ctx, bob))
		require.NoError(t, store.AddMembership(ctx, &models.Membership{OrgID: org.ID, UserID: bob.ID, Role: models.RoleMember}))

		err := store.AddMembership(ctx, &models.Membership{OrgID: org.ID, UserID: bob.ID, Role: models.RoleAdmin})
		assert.ErrorIs(t, err, storage.ErrDuplicate)

		list, err := store.ListMembershipsByUser(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, models.RoleMember, list[0].Role)
	})

	t.Run("missing membership", func(t *testing.T) {
		_, err := store.GetMembership(ctx, org.ID, "stranger")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestTodos(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner, org := seedOrg(t, store, "Flatmates")
	_, other := seedOrg(t, store, "Neighbours")

	entry := &models.HistoryEntry{
		OrgID:           org.ID,
		InteractionType: models.InteractionTodoCreated,
		EntityType:      models.EntityTodo,
		ActorID:         owner.ID,
		ActorName:       owner.DisplayName,
		ActorRole:       models.RoleOwner,
	}
	todo := &models.Todo{OrgID: org.ID, Text: "Buy milk"}
	require.NoError(t, store.CreateTodo(ctx, todo, entry))
	assert.NotEmpty(t, todo.ID)
	assert.Equal(t, todo.ID, entry.EntityID)

	t.Run("GetTodo returns the owning org", func(t *testing.T) {
		got, err := store.GetTodo(ctx, todo.ID)
		require.NoError(t, err)
		assert.Equal(t, org.ID, got.OrgID)
		assert.False(t, got.Completed)
	})

	t.Run("ListTodos filters by org", func(t *testing.T) {
		require.NoError(t, store.CreateTodo(ctx, &models.Todo{OrgID: other.ID, Text: "Mow lawn"}, nil))

		mine, err := store.ListTodos(ctx, org.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, "Buy milk", mine[0].Text)
	})

	t.Run("SetTodoCompleted scoped to org", func(t *testing.T) {
		require.NoError(t, store.SetTodoCompleted(ctx, org.ID, todo.ID, true, nil))
		got, err := store.GetTodo(ctx, todo.ID)
		require.NoError(t, err)
		assert.True(t, got.Completed)

		err = store.SetTodoCompleted(ctx, other.ID, todo.ID, false, nil)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("SetTodoCompleted rejects a stale flip", func(t *testing.T) {
		err := store.SetTodoCompleted(ctx, org.ID, todo.ID, true, nil)
		assert.ErrorIs(t, err, storage.ErrVersionConflict)

		got, err := store.GetTodo(ctx, todo.ID)
		require.NoError(t, err)
		assert.True(t, got.Completed)
	})

	t.Run("DeleteTodo appends history atomically", func(t *testing.T) {
		del := &models.HistoryEntry{
			OrgID:           org.ID,
			InteractionType: models.InteractionTodoDeleted,
			EntityType:      models.EntityTodo,
			EntityID:        todo.ID,
			ActorID:         owner.ID,
			ActorName:       owner.DisplayName,
			ActorRole:       models.RoleOwner,
			Metadata:        `{"text":"Buy milk"}`,
		}
		require.NoError(t, store.DeleteTodo(ctx, org.ID, todo.ID, del))

		_, err := store.GetTodo(ctx, todo.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		history, err := store.ListHistory(ctx, org.ID, 10)
		require.NoError(t, err)
		assert.Len(t, history, 2)

		err = store.DeleteTodo(ctx, org.ID, todo.ID, &models.HistoryEntry{OrgID: org.ID})
		assert.ErrorIs(t, err, storage.ErrNotFound)

		history, err = store.ListHistory(ctx, org.ID, 10)
		require.NoError(t, err)
		assert.Len(t, history, 2, "failed delete must not leave a history entry")
	})
}

func TestUpdatePetVersioning(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	_, org := seedOrg(t, store, "Flatmates")

	pet, err := store.GetPet(ctx, org.ID)
	require.NoError(t, err)
	stale := *pet

	pet.Hunger = 5
	pet.FeedCount = 1
	require.NoError(t, store.UpdatePet(ctx, pet, nil))
	assert.Equal(t, int64(1), pet.Version)

	stale.Hunger = 2
	err = store.UpdatePet(ctx, &stale, nil)
	assert.ErrorIs(t, err, storage.ErrVersionConflict)

	got, err := store.GetPet(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Hunger)
	assert.Equal(t, int64(1), got.Version)

	err = store.UpdatePet(ctx, &models.Pet{OrgID: "missing"}, nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMessages(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner, org := seedOrg(t, store, "Flatmates")

	for i, body := range []string{"first", "second", "third"} {
		require.NoError(t, store.CreateMessage(ctx, &models.Message{
			OrgID:      org.ID,
			AuthorID:   owner.ID,
			AuthorName: owner.DisplayName,
			Body:       body,
			CreatedAt:  int64(1000 + i),
		}))
	}

	msgs, err := store.ListMessages(ctx, org.ID, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "second", msgs[0].Body)
	assert.Equal(t, "third", msgs[1].Body)
}

func TestRebind(t *testing.T) {
	pg := &SQLStore{driver: DriverPostgres}
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.q("SELECT * FROM t WHERE a = ? AND b = ?"))

	lite := &SQLStore{driver: DriverSQLite}
	assert.Equal(t, "a = ?", lite.q("a = ?"))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "x")
	assert.Error(t, err)
}
