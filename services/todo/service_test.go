package todo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasknest/tasknest/models"
	"github.com/tasknest/tasknest/testutils"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	db := testutils.SetupTestDB(t, &models.User{}, &models.Todo{})
	return NewService(db, nil), db
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestCreateAndList(t *testing.T) {
	service, db := newTestService(t)
	owner := testutils.CreateTestUser(t, db, "owner@example.com", "Password123", testutils.Verified)

	first, err := service.Create(owner.ID, "first", "")
	require.NoError(t, err)
	assert.Equal(t, "first", first.Title)
	assert.Empty(t, first.Description)
	assert.False(t, first.Done)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := service.Create(owner.ID, "second", "details")
	require.NoError(t, err)

	todos, err := service.ListByOwner(owner.ID)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, second.ID, todos[0].ID, "newest first")
	assert.Equal(t, first.ID, todos[1].ID)
}

func TestOwnershipScoping(t *testing.T) {
	service, db := newTestService(t)
	alice := testutils.CreateTestUser(t, db, "alice@example.com", "Password123", testutils.Verified)
	bob := testutils.CreateTestUser(t, db, "bob@example.com", "Password123", testutils.Verified)

	item, err := service.Create(alice.ID, "private", "")
	require.NoError(t, err)

	t.Run("other user cannot get", func(t *testing.T) {
		_, err := service.GetOwned(bob.ID, item.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("other user cannot update", func(t *testing.T) {
		_, err := service.UpdateOwned(bob.ID, item.ID, Update{Done: boolPtr(true)})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("other user cannot delete", func(t *testing.T) {
		err := service.DeleteOwned(bob.ID, item.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = service.GetOwned(alice.ID, item.ID)
		assert.NoError(t, err)
	})

	t.Run("admin variants bypass the owner filter", func(t *testing.T) {
		got, err := service.GetAny(item.ID)
		require.NoError(t, err)
		assert.Equal(t, item.ID, got.ID)

		all, err := service.ListAll()
		require.NoError(t, err)
		require.Len(t, all, 1)
		require.NotNil(t, all[0].Owner)
		assert.Equal(t, alice.Email, all[0].Owner.Email)

		require.NoError(t, service.DeleteAny(item.ID))
		_, err = service.GetAny(item.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPartialUpdate(t *testing.T) {
	service, db := newTestService(t)
	owner := testutils.CreateTestUser(t, db, "owner@example.com", "Password123", testutils.Verified)

	item, err := service.Create(owner.ID, "title", "description")
	require.NoError(t, err)

	// make sure the updated_at bump is observable
	require.NoError(t, db.Model(&models.Todo{}).Where("id = ?", item.ID).
		Update("updated_at", time.Now().Add(-time.Minute)).Error)
	before, err := service.GetOwned(owner.ID, item.ID)
	require.NoError(t, err)

	t.Run("done only", func(t *testing.T) {
		updated, err := service.UpdateOwned(owner.ID, item.ID, Update{Done: boolPtr(true)})
		require.NoError(t, err)

		assert.True(t, updated.Done)
		assert.Equal(t, "title", updated.Title)
		assert.Equal(t, "description", updated.Description)
		assert.True(t, updated.UpdatedAt.After(before.UpdatedAt))
	})

	t.Run("title and description", func(t *testing.T) {
		updated, err := service.UpdateOwned(owner.ID, item.ID, Update{
			Title:       strPtr("new title"),
			Description: strPtr(""),
		})
		require.NoError(t, err)

		assert.Equal(t, "new title", updated.Title)
		assert.Empty(t, updated.Description)
		assert.True(t, updated.Done, "done untouched")
	})

	t.Run("empty update still succeeds", func(t *testing.T) {
		updated, err := service.UpdateOwned(owner.ID, item.ID, Update{})
		require.NoError(t, err)
		assert.Equal(t, "new title", updated.Title)
	})

	t.Run("missing todo", func(t *testing.T) {
		_, err := service.UpdateOwned(owner.ID, 99999, Update{Done: boolPtr(true)})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
