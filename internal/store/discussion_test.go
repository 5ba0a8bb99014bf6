package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-service/internal/apperr"
	"studio-service/internal/model"
	"studio-service/internal/testutil"
)

func TestDiscussionAdd(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewDiscussionStore(db)
	teacher := testutil.SeedUser(t, db, "teacher@example.com")
	student := testutil.SeedUser(t, db, "student@example.com")
	outsider := testutil.SeedUser(t, db, "outsider@example.com")
	studio := testutil.SeedStudio(t, db, "Jazz Studio", "jazz-studio", teacher.ID, student.ID)

	d, err := store.Add(teacher.ID, studio.ID, "Practice Notes", []uint{student.ID}, "")
	require.NoError(t, err)
	assert.Equal(t, "practice-notes", d.Slug)
	assert.Equal(t, model.NotificationDefault, d.NotificationType)
	assert.True(t, d.MemberIDs.Contains(teacher.ID), "creator is always a member")
	assert.True(t, d.MemberIDs.Contains(student.ID))

	t.Run("slug is unique per studio", func(t *testing.T) {
		again, err := store.Add(teacher.ID, studio.ID, "Practice Notes", nil, "")
		require.NoError(t, err)
		assert.Equal(t, "practice-notes-1", again.Slug)

		other := testutil.SeedStudio(t, db, "Folk Studio", "folk-studio", teacher.ID)
		elsewhere, err := store.Add(teacher.ID, other.ID, "Practice Notes", nil, "")
		require.NoError(t, err)
		assert.Equal(t, "practice-notes", elsewhere.Slug)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := store.Add(teacher.ID, studio.ID, "", nil, "")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("unknown notification type rejected", func(t *testing.T) {
		_, err := store.Add(teacher.ID, studio.ID, "Recitals", nil, "carrier-pigeon")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("listed member outside the studio denied", func(t *testing.T) {
		_, err := store.Add(teacher.ID, studio.ID, "Recitals", []uint{outsider.ID}, "")
		assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
	})
}

func TestDiscussionEdit(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewDiscussionStore(db)
	teacher := testutil.SeedUser(t, db, "teacher@example.com")
	student := testutil.SeedUser(t, db, "student@example.com")
	other := testutil.SeedUser(t, db, "other@example.com")
	studio := testutil.SeedStudio(t, db, "Jazz Studio", "jazz-studio", teacher.ID, student.ID, other.ID)

	d, err := store.Add(student.ID, studio.ID, "Practice Notes", nil, "")
	require.NoError(t, err)

	t.Run("creator edits", func(t *testing.T) {
		got, err := store.Edit(student.ID, d.ID, "Renamed", []uint{other.ID}, model.NotificationEmail)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		assert.Equal(t, "practice-notes", got.Slug, "slug never changes after creation")
		assert.Equal(t, model.NotificationEmail, got.NotificationType)
		assert.True(t, got.MemberIDs.Contains(student.ID), "creator stays a member")
		assert.True(t, got.MemberIDs.Contains(other.ID))
	})

	t.Run("teacher edits someone else's discussion", func(t *testing.T) {
		got, err := store.Edit(teacher.ID, d.ID, "Teacher Renamed", nil, "")
		require.NoError(t, err)
		assert.True(t, got.MemberIDs.Contains(teacher.ID), "editing actor stays a member")
		assert.True(t, got.MemberIDs.Contains(student.ID), "creator stays a member")
	})

	t.Run("empty name keeps the current one", func(t *testing.T) {
		got, err := store.Edit(student.ID, d.ID, "", nil, "")
		require.NoError(t, err)
		assert.Equal(t, "Teacher Renamed", got.Name)
	})

	t.Run("plain member cannot edit", func(t *testing.T) {
		_, err := store.Edit(other.ID, d.ID, "Hijacked", nil, "")
		assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
	})

	t.Run("missing discussion", func(t *testing.T) {
		_, err := store.Edit(student.ID, 9999, "Nothing", nil, "")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestDiscussionDeleteCascadesPosts(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewDiscussionStore(db)
	posts := NewPostStore(db)
	teacher := testutil.SeedUser(t, db, "teacher@example.com")
	student := testutil.SeedUser(t, db, "student@example.com")
	studio := testutil.SeedStudio(t, db, "Jazz Studio", "jazz-studio", teacher.ID, student.ID)

	d, err := store.Add(teacher.ID, studio.ID, "Practice Notes", []uint{student.ID}, "")
	require.NoError(t, err)

	_, err = posts.Add(student.ID, d.ID, "first")
	require.NoError(t, err)
	_, err = posts.Add(teacher.ID, d.ID, "second")
	require.NoError(t, err)

	t.Run("plain member cannot delete", func(t *testing.T) {
		_, err := store.Delete(student.ID, d.ID)
		assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
	})

	deleted, err := store.Delete(teacher.ID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, studio.ID, deleted.StudioID)

	var count int64
	require.NoError(t, db.Model(&model.Post{}).Where("discussion_id = ?", d.ID).Count(&count).Error)
	assert.Zero(t, count)

	_, err = store.Delete(teacher.ID, d.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDiscussionListFiltersByMembership(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewDiscussionStore(db)
	teacher := testutil.SeedUser(t, db, "teacher@example.com")
	student := testutil.SeedUser(t, db, "student@example.com")
	studio := testutil.SeedStudio(t, db, "Jazz Studio", "jazz-studio", teacher.ID, student.ID)

	_, err := store.Add(teacher.ID, studio.ID, "Teachers Only", nil, "")
	require.NoError(t, err)
	_, err = store.Add(teacher.ID, studio.ID, "Everyone", []uint{student.ID}, "")
	require.NoError(t, err)

	visible, err := store.List(student.ID, studio.ID)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Everyone", visible[0].Name)

	all, err := store.List(teacher.ID, studio.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
