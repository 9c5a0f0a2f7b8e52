package service

import (
	"context"
	"fmt"
	"time"

	"github.com/studsovet/selection_api/internal/apperr"
	"github.com/studsovet/selection_api/internal/model"
	"go.uber.org/zap"
)

// DayStore — дни собеседований
type DayStore interface {
	CreateWithSlots(ctx context.Context, day *model.InterviewDay, slotTimes []string) error
	GetByID(ctx context.Context, id int64) (*model.InterviewDay, error)
	ListByFaculty(ctx context.Context, facultyID int64) ([]*model.InterviewDay, error)
	CountBookings(ctx context.Context, dayID int64) (int, error)
	Delete(ctx context.Context, id int64) error
	SetActive(ctx context.Context, id int64, active bool) error
}

// SlotStore — временные слоты
type SlotStore interface {
	GetByID(ctx context.Context, id int64) (*model.TimeSlot, error)
	ListByDay(ctx context.Context, dayID int64) ([]*model.TimeSlot, error)
	SetCapacity(ctx context.Context, id int64, maxParticipants int) (*model.TimeSlot, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

// AvailabilityStore — отметки доступности проверяющих
type AvailabilityStore interface {
	Mark(ctx context.Context, slotID, interviewerID int64) (bool, error)
	Unmark(ctx context.Context, slotID, interviewerID int64) (bool, error)
	ListBySlot(ctx context.Context, slotID int64) ([]*model.SlotInterviewer, error)
	ListSlotIDsForInterviewer(ctx context.Context, facultyID, interviewerID int64) ([]int64, error)
}

// SlotView — слот с дополнениями, зависящими от роли наблюдателя
type SlotView struct {
	Slot                  *model.TimeSlot
	AvailableInterviewers []*model.SlotInterviewer // для head_admin
	MyAvailability        *bool                    // для reviewer
}

// DayView — день с вложенными слотами
type DayView struct {
	Day   *model.InterviewDay
	Slots []*SlotView
}

type ScheduleService struct {
	days         DayStore
	slots        SlotStore
	availability AvailabilityStore
	logger       *zap.Logger
}

func NewScheduleService(days DayStore, slots SlotStore, availability AvailabilityStore, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		days:         days,
		slots:        slots,
		availability: availability,
		logger:       logger,
	}
}

// CreateDay создаёт день собеседований со слотами дневного окна.
// Прошедшие даты отклоняются, дубликат даты — конфликт из хранилища.
func (s *ScheduleService) CreateDay(ctx context.Context, facultyID, adminID int64, date time.Time, location string) (*DayView, error) {
	today := time.Now()
	day := &model.InterviewDay{
		FacultyID: facultyID,
		Date:      date,
		Location:  location,
		CreatedBy: adminID,
	}
	if day.IsPast(today) {
		return nil, apperr.Validation("cannot create interview days in the past")
	}

	if err := s.days.CreateWithSlots(ctx, day, model.DefaultSlotTimes()); err != nil {
		return nil, err
	}

	slots, err := s.slots.ListByDay(ctx, day.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Interview day created",
		zap.Int64("day_id", day.ID),
		zap.Int64("faculty_id", facultyID),
		zap.Time("date", day.Date),
		zap.Int("slots", len(slots)),
	)

	views := make([]*SlotView, 0, len(slots))
	for _, slot := range slots {
		views = append(views, &SlotView{Slot: slot})
	}
	return &DayView{Day: day, Slots: views}, nil
}

// ListDays возвращает дни факультета со слотами; наполнение зависит от роли:
// head_admin видит доступных проверяющих, reviewer — свою доступность.
func (s *ScheduleService) ListDays(ctx context.Context, facultyID int64, viewer *model.Administrator) ([]*DayView, error) {
	days, err := s.days.ListByFaculty(ctx, facultyID)
	if err != nil {
		return nil, err
	}

	var marked map[int64]bool
	if !viewer.IsHeadAdmin() {
		slotIDs, err := s.availability.ListSlotIDsForInterviewer(ctx, facultyID, viewer.ID)
		if err != nil {
			return nil, err
		}
		marked = make(map[int64]bool, len(slotIDs))
		for _, id := range slotIDs {
			marked[id] = true
		}
	}

	views := make([]*DayView, 0, len(days))
	for _, day := range days {
		slots, err := s.slots.ListByDay(ctx, day.ID)
		if err != nil {
			return nil, err
		}

		slotViews := make([]*SlotView, 0, len(slots))
		for _, slot := range slots {
			view := &SlotView{Slot: slot}
			if viewer.IsHeadAdmin() {
				interviewers, err := s.availability.ListBySlot(ctx, slot.ID)
				if err != nil {
					return nil, err
				}
				view.AvailableInterviewers = interviewers
			} else {
				mine := marked[slot.ID]
				view.MyAvailability = &mine
			}
			slotViews = append(slotViews, view)
		}
		views = append(views, &DayView{Day: day, Slots: slotViews})
	}

	return views, nil
}

// GetDay возвращает день по id (для проверок прав)
func (s *ScheduleService) GetDay(ctx context.Context, dayID int64) (*model.InterviewDay, error) {
	day, err := s.days.GetByID(ctx, dayID)
	if err != nil {
		return nil, err
	}
	if day == nil {
		return nil, apperr.NotFound("interview day %d", dayID)
	}
	return day, nil
}

// GetSlotDay получает слот вместе с его днём (для проверок прав)
func (s *ScheduleService) GetSlotDay(ctx context.Context, slotID int64) (*model.TimeSlot, *model.InterviewDay, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, nil, err
	}
	if slot == nil {
		return nil, nil, apperr.NotFound("time slot %d", slotID)
	}

	day, err := s.days.GetByID(ctx, slot.DayID)
	if err != nil {
		return nil, nil, err
	}
	if day == nil {
		return nil, nil, fmt.Errorf("day %d of slot %d missing", slot.DayID, slotID)
	}

	return slot, day, nil
}

// DeleteDay удаляет день без записей; день с записями удалить нельзя
func (s *ScheduleService) DeleteDay(ctx context.Context, dayID int64) error {
	day, err := s.days.GetByID(ctx, dayID)
	if err != nil {
		return err
	}
	if day == nil {
		return apperr.NotFound("interview day %d", dayID)
	}

	booked, err := s.days.CountBookings(ctx, dayID)
	if err != nil {
		return err
	}
	if booked > 0 {
		return apperr.Conflict("cannot delete a day with %d active bookings", booked)
	}

	if err := s.days.Delete(ctx, dayID); err != nil {
		return err
	}

	s.logger.Info("Interview day deleted", zap.Int64("day_id", dayID))
	return nil
}

// SetSlotCapacity устанавливает количество мест слота (0..10)
func (s *ScheduleService) SetSlotCapacity(ctx context.Context, slotID int64, maxParticipants int) (*model.TimeSlot, error) {
	if maxParticipants < 0 || maxParticipants > model.MaxSlotCapacity {
		return nil, apperr.Validation("max_participants must be between 0 and %d", model.MaxSlotCapacity)
	}

	slot, err := s.slots.SetCapacity(ctx, slotID, maxParticipants)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Slot capacity updated",
		zap.Int64("slot_id", slotID),
		zap.Int("max_participants", maxParticipants),
	)
	return slot, nil
}

// SetSlotActive мягко отключает или включает слот
func (s *ScheduleService) SetSlotActive(ctx context.Context, slotID int64, active bool) error {
	return s.slots.SetActive(ctx, slotID, active)
}

// SetDayActive мягко отключает или включает день
func (s *ScheduleService) SetDayActive(ctx context.Context, dayID int64, active bool) error {
	return s.days.SetActive(ctx, dayID, active)
}
