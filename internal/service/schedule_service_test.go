package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studsovet/selection_api/internal/apperr"
	"github.com/studsovet/selection_api/internal/model"
)

func newScheduleService(store *memStore) *ScheduleService {
	return NewScheduleService(store, memSlots{store}, memAvailability{store}, testLogger())
}

func tomorrow() time.Time {
	return time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour)
}

func TestCreateDayBuildsSlotWindow(t *testing.T) {
	store := newMemStore()
	svc := newScheduleService(store)

	view, err := svc.CreateDay(context.Background(), 1, 10, tomorrow(), "аудитория 101")
	require.NoError(t, err)
	require.Len(t, view.Slots, 13)
	assert.Equal(t, "10:00", view.Slots[0].Slot.Time)
	assert.Equal(t, "22:00", view.Slots[len(view.Slots)-1].Slot.Time)

	// Новые слоты закрыты для записи, пока админ не выставит места
	for _, sv := range view.Slots {
		assert.Equal(t, 0, sv.Slot.MaxParticipants)
	}
}

func TestCreateDayRejectsPastDate(t *testing.T) {
	store := newMemStore()
	svc := newScheduleService(store)

	_, err := svc.CreateDay(context.Background(), 1, 10, time.Now().AddDate(0, 0, -1), "")
	assert.True(t, apperr.IsValidation(err))
}

func TestCreateDayDuplicateDateConflict(t *testing.T) {
	store := newMemStore()
	svc := newScheduleService(store)
	date := tomorrow()

	_, err := svc.CreateDay(context.Background(), 1, 10, date, "")
	require.NoError(t, err)

	_, err = svc.CreateDay(context.Background(), 1, 10, date, "")
	assert.True(t, apperr.IsConflict(err))

	// Та же дата на другом факультете — не дубликат
	_, err = svc.CreateDay(context.Background(), 2, 10, date, "")
	assert.NoError(t, err)
}

func TestDeleteDayWithBookingsConflict(t *testing.T) {
	store := newMemStore()
	svc := newScheduleService(store)

	day, slot := store.addDayWithSlot(1, tomorrow(), 2)
	user := store.addUser(100, 1)

	_, err := memInterviews{store}.Book(context.Background(), user.ID, slot.ID)
	require.NoError(t, err)

	err = svc.DeleteDay(context.Background(), day.ID)
	assert.True(t, apperr.IsConflict(err))

	// После отмены записи день удаляется
	require.NoError(t, memInterviews{store}.CancelBooking(context.Background(), user.ID, slot.ID))
	assert.NoError(t, svc.DeleteDay(context.Background(), day.ID))
}

func TestSetSlotCapacity(t *testing.T) {
	store := newMemStore()
	svc := newScheduleService(store)
	_, slot := store.addDayWithSlot(1, tomorrow(), 0)

	updated, err := svc.SetSlotCapacity(context.Background(), slot.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.MaxParticipants)

	_, err = svc.SetSlotCapacity(context.Background(), slot.ID, -1)
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.SetSlotCapacity(context.Background(), slot.ID, model.MaxSlotCapacity+1)
	assert.True(t, apperr.IsValidation(err))
}

func TestSetSlotCapacityBelowCurrentConflict(t *testing.T) {
	store := newMemStore()
	svc := newScheduleService(store)
	_, slot := store.addDayWithSlot(1, tomorrow(), 3)

	for i := int64(0); i < 2; i++ {
		user := store.addUser(200+i, 1)
		_, err := memInterviews{store}.Book(context.Background(), user.ID, slot.ID)
		require.NoError(t, err)
	}

	_, err := svc.SetSlotCapacity(context.Background(), slot.ID, 1)
	assert.True(t, apperr.IsConflict(err))

	// Уменьшение до текущего числа записей допустимо
	updated, err := svc.SetSlotCapacity(context.Background(), slot.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.MaxParticipants)
}

func TestListDaysForReviewerShowsMyAvailability(t *testing.T) {
	store := newMemStore()
	svc := newScheduleService(store)
	_, slot := store.addDayWithSlot(1, tomorrow(), 2)

	reviewer := &model.Administrator{ID: 7, FacultyID: 1, Role: model.RoleReviewer}
	_, err := memAvailability{store}.Mark(context.Background(), slot.ID, reviewer.ID)
	require.NoError(t, err)

	views, err := svc.ListDays(context.Background(), 1, reviewer)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Len(t, views[0].Slots, 1)

	sv := views[0].Slots[0]
	require.NotNil(t, sv.MyAvailability)
	assert.True(t, *sv.MyAvailability)
	assert.Nil(t, sv.AvailableInterviewers)
}

func TestListDaysForHeadAdminShowsInterviewers(t *testing.T) {
	store := newMemStore()
	svc := newScheduleService(store)
	_, slot := store.addDayWithSlot(1, tomorrow(), 2)

	_, err := memAvailability{store}.Mark(context.Background(), slot.ID, 7)
	require.NoError(t, err)

	head := &model.Administrator{ID: 1, FacultyID: 1, Role: model.RoleHeadAdmin}
	views, err := svc.ListDays(context.Background(), 1, head)
	require.NoError(t, err)
	require.Len(t, views, 1)

	sv := views[0].Slots[0]
	assert.Nil(t, sv.MyAvailability)
	require.Len(t, sv.AvailableInterviewers, 1)
	assert.Equal(t, int64(7), sv.AvailableInterviewers[0].ID)
}
