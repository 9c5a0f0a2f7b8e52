package service

import (
	"context"

	"github.com/studsovet/selection_api/internal/apperr"
	"github.com/studsovet/selection_api/internal/model"
	"go.uber.org/zap"
)

// InterviewStore — записи участников на собеседования.
// Book обязан выполнять проверку и инкремент счётчика мест атомарно.
type InterviewStore interface {
	Book(ctx context.Context, userID, slotID int64) (*model.Interview, error)
	CancelBooking(ctx context.Context, userID, slotID int64) error
	GetByUser(ctx context.Context, userID int64) (*model.Interview, error)
	AssignInterviewer(ctx context.Context, interviewID, interviewerID int64) error
}

// UserDirectory — участники отбора
type UserDirectory interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
}

// UserStore расширяет справочник поиском по внутреннему ID
type UserStore interface {
	UserDirectory
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// InterviewerDirectory — поиск проверяющих для назначения на собеседование
type InterviewerDirectory interface {
	GetByID(ctx context.Context, id int64) (*model.Administrator, error)
}

type BookingService struct {
	users      UserStore
	interviews InterviewStore
	days       DayStore
	slots      SlotStore
	admins     InterviewerDirectory
	logger     *zap.Logger
}

func NewBookingService(users UserStore, interviews InterviewStore, days DayStore, slots SlotStore, admins InterviewerDirectory, logger *zap.Logger) *BookingService {
	return &BookingService{
		users:      users,
		interviews: interviews,
		days:       days,
		slots:      slots,
		admins:     admins,
		logger:     logger,
	}
}

// BookSlot записывает участника в слот. Проверка вместимости и инкремент
// выполняются атомарно в хранилище; при переполнении возвращается конфликт.
func (s *BookingService) BookSlot(ctx context.Context, telegramID, slotID int64) (*model.Interview, error) {
	user, err := s.resolveUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, apperr.NotFound("time slot %d", slotID)
	}

	day, err := s.days.GetByID(ctx, slot.DayID)
	if err != nil {
		return nil, err
	}
	if day == nil {
		return nil, apperr.NotFound("interview day %d", slot.DayID)
	}

	// Записаться можно только на собеседование своего факультета
	if user.FacultyID == nil || *user.FacultyID != day.FacultyID {
		return nil, apperr.Forbidden("slot belongs to another faculty")
	}

	interview, err := s.interviews.Book(ctx, user.ID, slotID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Slot booked",
		zap.Int64("interview_id", interview.ID),
		zap.Int64("user_id", user.ID),
		zap.Int64("slot_id", slotID),
	)
	return interview, nil
}

// CancelBooking снимает участника со слота и возвращает место
func (s *BookingService) CancelBooking(ctx context.Context, telegramID, slotID int64) error {
	user, err := s.resolveUser(ctx, telegramID)
	if err != nil {
		return err
	}

	if err := s.interviews.CancelBooking(ctx, user.ID, slotID); err != nil {
		return err
	}

	s.logger.Info("Booking cancelled",
		zap.Int64("user_id", user.ID),
		zap.Int64("slot_id", slotID),
	)
	return nil
}

// GetMyBooking возвращает текущую запись участника, nil если записи нет
func (s *BookingService) GetMyBooking(ctx context.Context, telegramID int64) (*model.Interview, error) {
	user, err := s.resolveUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	return s.interviews.GetByUser(ctx, user.ID)
}

// AssignInterviewer закрепляет проверяющего за записью участника.
// Проверяющий должен быть активным администратором того же факультета.
func (s *BookingService) AssignInterviewer(ctx context.Context, facultyID, userID, interviewerID int64) (*model.Interview, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.FacultyID == nil || *user.FacultyID != facultyID {
		return nil, apperr.NotFound("user %d", userID)
	}

	interview, err := s.interviews.GetByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if interview == nil || !interview.IsBooked() {
		return nil, apperr.NotFound("booking for user %d", userID)
	}

	admin, err := s.admins.GetByID(ctx, interviewerID)
	if err != nil {
		return nil, err
	}
	if admin == nil || !admin.IsActive || admin.FacultyID != facultyID {
		return nil, apperr.Validation("interviewer must be an active administrator of the faculty")
	}

	if err := s.interviews.AssignInterviewer(ctx, interview.ID, admin.ID); err != nil {
		return nil, err
	}
	interview.InterviewerID = &admin.ID

	s.logger.Info("Interviewer assigned",
		zap.Int64("interview_id", interview.ID),
		zap.Int64("interviewer_id", admin.ID),
	)
	return interview, nil
}

func (s *BookingService) resolveUser(ctx context.Context, telegramID int64) (*model.User, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user is not registered")
	}
	return user, nil
}
