package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-service/internal/apperr"
	"studio-service/internal/model"
	"studio-service/internal/testutil"
)

func window(day, start, end string) model.AvailabilityWindow {
	return model.AvailabilityWindow{DayOfWeek: day, StartTime: start, EndTime: end}
}

func TestScheduleCreate(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewScheduleStore(db)
	teacher := testutil.SeedUser(t, db, "teacher@example.com")
	student := testutil.SeedUser(t, db, "student@example.com")
	studio := testutil.SeedStudio(t, db, "Jazz Studio", "jazz-studio", teacher.ID, student.ID)

	schedule, err := store.Create(teacher.ID, studio.ID)
	require.NoError(t, err)
	assert.Equal(t, studio.ID, schedule.StudioID)
	assert.Equal(t, teacher.ID, schedule.TeacherID)
	assert.NotEmpty(t, schedule.Slug)
	assert.Empty(t, schedule.Availability)

	t.Run("second schedule for the same pair conflicts", func(t *testing.T) {
		_, err := store.Create(teacher.ID, studio.ID)
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("plain member cannot create", func(t *testing.T) {
		other := testutil.SeedStudio(t, db, "Folk Studio", "folk-studio", teacher.ID, student.ID)
		_, err := store.Create(student.ID, other.ID)
		assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
	})
}

func TestScheduleGet(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewScheduleStore(db)
	teacher := testutil.SeedUser(t, db, "teacher@example.com")
	student := testutil.SeedUser(t, db, "student@example.com")
	outsider := testutil.SeedUser(t, db, "outsider@example.com")
	studio := testutil.SeedStudio(t, db, "Jazz Studio", "jazz-studio", teacher.ID, student.ID)

	_, err := store.Get(student.ID, studio.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	created, err := store.Create(teacher.ID, studio.ID)
	require.NoError(t, err)

	got, err := store.Get(student.ID, studio.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = store.Get(outsider.ID, studio.ID)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
}

func TestReplaceAvailabilityKeepsUnmentionedDays(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewScheduleStore(db)
	teacher := testutil.SeedUser(t, db, "teacher@example.com")
	studio := testutil.SeedStudio(t, db, "Jazz Studio", "jazz-studio", teacher.ID)

	_, err := store.Create(teacher.ID, studio.ID)
	require.NoError(t, err)

	_, err = store.ReplaceAvailability(teacher.ID, studio.ID, []model.AvailabilityWindow{
		window("monday", "09:00", "12:00"),
		window("tuesday", "10:00", "11:00"),
		window("thursday", "14:00", "17:00"),
	})
	require.NoError(t, err)

	// Only monday and wednesday are mentioned; tuesday and thursday must
	// survive untouched.
	got, err := store.ReplaceAvailability(teacher.ID, studio.ID, []model.AvailabilityWindow{
		window("monday", "08:00", "10:00"),
		window("wednesday", "13:00", "15:00"),
	})
	require.NoError(t, err)

	byDay := make(map[string][]model.AvailabilityWindow)
	for _, w := range got.Availability {
		byDay[w.DayOfWeek] = append(byDay[w.DayOfWeek], w)
	}
	require.Len(t, byDay["monday"], 1)
	assert.Equal(t, "08:00", byDay["monday"][0].StartTime)
	require.Len(t, byDay["tuesday"], 1)
	assert.Equal(t, "10:00", byDay["tuesday"][0].StartTime)
	require.Len(t, byDay["wednesday"], 1)
	assert.Equal(t, "13:00", byDay["wednesday"][0].StartTime)
	require.Len(t, byDay["thursday"], 1)
	assert.Equal(t, "14:00", byDay["thursday"][0].StartTime)

	// The merged windows must round-trip through the serialized column.
	var stored model.Schedule
	require.NoError(t, db.First(&stored, got.ID).Error)
	assert.Equal(t, got.Availability, stored.Availability)
}

func TestReplaceAvailabilityRejectsUnknownDay(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewScheduleStore(db)
	teacher := testutil.SeedUser(t, db, "teacher@example.com")
	studio := testutil.SeedStudio(t, db, "Jazz Studio", "jazz-studio", teacher.ID)

	_, err := store.Create(teacher.ID, studio.ID)
	require.NoError(t, err)

	_, err = store.ReplaceAvailability(teacher.ID, studio.ID, []model.AvailabilityWindow{
		window("funday", "09:00", "12:00"),
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestAppendWindowIsNotIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewScheduleStore(db)
	teacher := testutil.SeedUser(t, db, "teacher@example.com")
	studio := testutil.SeedStudio(t, db, "Jazz Studio", "jazz-studio", teacher.ID)

	_, err := store.Create(teacher.ID, studio.ID)
	require.NoError(t, err)

	w := window("friday", "09:00", "10:00")
	_, err = store.AppendWindow(teacher.ID, studio.ID, w)
	require.NoError(t, err)

	// Appending the identical window again stores a second copy.
	got, err := store.AppendWindow(teacher.ID, studio.ID, w)
	require.NoError(t, err)
	require.Len(t, got.Availability, 2)
	assert.Equal(t, got.Availability[0], got.Availability[1])

	var stored model.Schedule
	require.NoError(t, db.First(&stored, got.ID).Error)
	assert.Len(t, stored.Availability, 2)
}

func TestUpdateStudents(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewScheduleStore(db)
	teacher := testutil.SeedUser(t, db, "teacher@example.com")
	alice := testutil.SeedUser(t, db, "alice@example.com")
	bob := testutil.SeedUser(t, db, "bob@example.com")
	outsider := testutil.SeedUser(t, db, "outsider@example.com")
	studio := testutil.SeedStudio(t, db, "Jazz Studio", "jazz-studio", teacher.ID, alice.ID, bob.ID)

	schedule, err := store.Create(teacher.ID, studio.ID)
	require.NoError(t, err)

	t.Run("union with existing students", func(t *testing.T) {
		got, err := store.UpdateStudents(teacher.ID, schedule.ID, []uint{alice.ID})
		require.NoError(t, err)
		assert.Equal(t, model.IDList{alice.ID}, got.StudentIDs)

		got, err = store.UpdateStudents(teacher.ID, schedule.ID, []uint{alice.ID, bob.ID})
		require.NoError(t, err)
		assert.Equal(t, model.IDList{alice.ID, bob.ID}, got.StudentIDs)

		var stored model.Schedule
		require.NoError(t, db.First(&stored, schedule.ID).Error)
		assert.Equal(t, model.IDList{alice.ID, bob.ID}, stored.StudentIDs)
	})

	t.Run("non-member student denied", func(t *testing.T) {
		_, err := store.UpdateStudents(teacher.ID, schedule.ID, []uint{outsider.ID})
		assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
	})

	t.Run("missing schedule", func(t *testing.T) {
		_, err := store.UpdateStudents(teacher.ID, 9999, []uint{alice.ID})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}
