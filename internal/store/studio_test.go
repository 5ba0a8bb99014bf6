package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-service/internal/apperr"
	"studio-service/internal/model"
	"studio-service/internal/testutil"
)

func TestStudioAdd(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewStudioStore(db)
	teacher := testutil.SeedUser(t, db, "teacher@example.com")

	first, err := store.Add(teacher.ID, "Jazz Studio", "")
	require.NoError(t, err)
	assert.Equal(t, "jazz-studio", first.Slug)
	assert.Equal(t, teacher.ID, first.TeacherID)
	assert.Equal(t, model.IDList{teacher.ID}, first.MemberIDs)
	assert.True(t, first.DefaultStudio)

	var user model.User
	require.NoError(t, db.First(&user, teacher.ID).Error)
	assert.Equal(t, "jazz-studio", user.DefaultStudioSlug)

	t.Run("same name gets a suffixed slug", func(t *testing.T) {
		second, err := store.Add(teacher.ID, "Jazz Studio", "")
		require.NoError(t, err)
		assert.Equal(t, "jazz-studio-1", second.Slug)
		assert.False(t, second.DefaultStudio)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := store.Add(teacher.ID, "", "")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestStudioUpdate(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewStudioStore(db)
	teacher := testutil.SeedUser(t, db, "teacher@example.com")
	student := testutil.SeedUser(t, db, "student@example.com")
	studio := testutil.SeedStudio(t, db, "Jazz Studio", "jazz-studio", teacher.ID, student.ID)

	got, err := store.Update(teacher.ID, studio.ID, "Blues Studio", "https://cdn.example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "Blues Studio", got.Name)
	assert.Equal(t, "jazz-studio", got.Slug, "slug never changes after creation")

	_, err = store.Update(student.ID, studio.ID, "Hijacked", "")
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
}

func TestStudioGetAllForUser(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewStudioStore(db)
	teacher := testutil.SeedUser(t, db, "teacher@example.com")
	student := testutil.SeedUser(t, db, "student@example.com")
	testutil.SeedStudio(t, db, "Jazz Studio", "jazz-studio", teacher.ID, student.ID)
	testutil.SeedStudio(t, db, "Folk Studio", "folk-studio", teacher.ID)

	mine, err := store.GetAllForUser(student.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "jazz-studio", mine[0].Slug)

	all, err := store.GetAllForUser(teacher.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStudioRemoveMember(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewStudioStore(db)
	teacher := testutil.SeedUser(t, db, "teacher@example.com")
	student := testutil.SeedUser(t, db, "student@example.com")
	studio := testutil.SeedStudio(t, db, "Jazz Studio", "jazz-studio", teacher.ID, student.ID)

	t.Run("member cannot remove anyone", func(t *testing.T) {
		err := store.RemoveMember(student.ID, studio.ID, teacher.ID)
		assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
	})

	t.Run("teacher cannot remove themselves", func(t *testing.T) {
		err := store.RemoveMember(teacher.ID, studio.ID, teacher.ID)
		assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
	})

	t.Run("teacher removes a member", func(t *testing.T) {
		require.NoError(t, store.RemoveMember(teacher.ID, studio.ID, student.ID))

		var got model.Studio
		require.NoError(t, db.First(&got, studio.ID).Error)
		assert.False(t, got.MemberIDs.Contains(student.ID))
	})
}

func TestStudioSubscriptionState(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewStudioStore(db)
	teacher := testutil.SeedUser(t, db, "teacher@example.com")
	studio := testutil.SeedStudio(t, db, "Jazz Studio", "jazz-studio", teacher.ID)

	got, err := store.MarkSubscribed(teacher.ID, studio.ID, "sub_123")
	require.NoError(t, err)
	assert.True(t, got.SubscriptionActive)
	assert.Equal(t, "sub_123", got.SubscriptionID)

	_, err = store.MarkSubscribed(teacher.ID, studio.ID, "sub_456")
	assert.ErrorIs(t, err, apperr.ErrConflict)

	got, err = store.MarkSubscriptionCancelled(teacher.ID, studio.ID)
	require.NoError(t, err)
	assert.False(t, got.SubscriptionActive)

	_, err = store.MarkSubscriptionCancelled(teacher.ID, studio.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}
