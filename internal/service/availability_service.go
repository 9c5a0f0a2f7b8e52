package service

import (
	"context"
	"time"

	"github.com/studsovet/selection_api/internal/apperr"
	"github.com/studsovet/selection_api/internal/model"
	"go.uber.org/zap"
)

// AvailabilityService управляет отметками доступности проверяющих
type AvailabilityService struct {
	days         DayStore
	slots        SlotStore
	availability AvailabilityStore
	logger       *zap.Logger
}

func NewAvailabilityService(days DayStore, slots SlotStore, availability AvailabilityStore, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		days:         days,
		slots:        slots,
		availability: availability,
		logger:       logger,
	}
}

// SetAvailability отмечает или снимает доступность проверяющего в слоте.
// Обе операции идемпотентны: повторная отметка и снятие отсутствующей
// отметки завершаются успешно без изменений.
func (s *AvailabilityService) SetAvailability(ctx context.Context, slotID int64, interviewer *model.Administrator, available bool) (bool, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return false, err
	}
	if slot == nil {
		return false, apperr.NotFound("time slot %d", slotID)
	}

	day, err := s.days.GetByID(ctx, slot.DayID)
	if err != nil {
		return false, err
	}
	if day == nil {
		return false, apperr.NotFound("interview day %d", slot.DayID)
	}

	// Менять доступность для прошедших дней нельзя
	if day.IsPast(time.Now()) {
		return false, apperr.Validation("cannot change availability for past days")
	}

	var changed bool
	if available {
		changed, err = s.availability.Mark(ctx, slotID, interviewer.ID)
	} else {
		changed, err = s.availability.Unmark(ctx, slotID, interviewer.ID)
	}
	if err != nil {
		return false, err
	}

	if changed {
		s.logger.Info("Availability changed",
			zap.Int64("slot_id", slotID),
			zap.Int64("interviewer_id", interviewer.ID),
			zap.Bool("available", available),
		)
	}
	return changed, nil
}

// ListSlotInterviewers возвращает доступных проверяющих слота
func (s *AvailabilityService) ListSlotInterviewers(ctx context.Context, slotID int64) (*model.TimeSlot, *model.InterviewDay, []*model.SlotInterviewer, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, nil, nil, err
	}
	if slot == nil {
		return nil, nil, nil, apperr.NotFound("time slot %d", slotID)
	}

	day, err := s.days.GetByID(ctx, slot.DayID)
	if err != nil {
		return nil, nil, nil, err
	}

	interviewers, err := s.availability.ListBySlot(ctx, slotID)
	if err != nil {
		return nil, nil, nil, err
	}

	return slot, day, interviewers, nil
}
