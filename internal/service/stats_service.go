package service

import (
	"context"
	"time"

	"github.com/studsovet/selection_api/internal/apperr"
	"github.com/studsovet/selection_api/internal/model"
	"github.com/studsovet/selection_api/internal/repository"
	"go.uber.org/zap"
)

const statsWindowDays = 14

// StatsStore — агрегаты по анкетам для дашборда
type StatsStore interface {
	CountSubmissions(ctx context.Context, facultyID int64) (int, error)
	CountProgressByStatus(ctx context.Context, facultyID int64, stage model.StageType) (map[model.SubmissionStatus]int, error)
	DailySubmissions(ctx context.Context, facultyID int64, since time.Time) (map[string]int, error)
}

// ResponseStore — просмотр отправленных анкет
type ResponseStore interface {
	ListByFaculty(ctx context.Context, facultyID int64) ([]*repository.SubmissionRow, error)
}

// ApprovalStore — очередь проверки анкет
type ApprovalStore interface {
	ListPending(ctx context.Context, facultyID int64) ([]*model.ApprovalItem, error)
	GetByID(ctx context.Context, id int64) (*model.ApprovalItem, error)
	Review(ctx context.Context, id int64, status model.ApprovalStatus, reviewerID int64, notes string) error
}

// UserCounter считает зарегистрированных участников факультета
type UserCounter interface {
	CountByFaculty(ctx context.Context, facultyID int64) (int, error)
}

type StatsService struct {
	faculties FacultyStore
	stats     StatsStore
	responses ResponseStore
	approvals ApprovalStore
	users     UserCounter
	logger    *zap.Logger
	now       func() time.Time
}

func NewStatsService(
	faculties FacultyStore,
	stats StatsStore,
	responses ResponseStore,
	approvals ApprovalStore,
	users UserCounter,
	logger *zap.Logger,
) *StatsService {
	return &StatsService{
		faculties: faculties,
		stats:     stats,
		responses: responses,
		approvals: approvals,
		users:     users,
		logger:    logger,
		now:       time.Now,
	}
}

// GetFacultyStats собирает агрегаты для дашборда. График по дням
// всегда покрывает последние 14 суток, дни без отправок идут нулями.
func (s *StatsService) GetFacultyStats(ctx context.Context, facultyID int64) (*model.FacultyStats, error) {
	faculty, err := s.faculties.GetByID(ctx, facultyID)
	if err != nil {
		return nil, err
	}
	if faculty == nil {
		return nil, apperr.NotFound("faculty %d", facultyID)
	}

	total, err := s.stats.CountSubmissions(ctx, facultyID)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.users.CountByFaculty(ctx, facultyID)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.stats.CountProgressByStatus(ctx, facultyID, model.StageQuestionnaire)
	if err != nil {
		return nil, err
	}

	today := s.now().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(statsWindowDays - 1))
	daily, err := s.stats.DailySubmissions(ctx, facultyID, since)
	if err != nil {
		return nil, err
	}

	dailyCounts := make([]model.DailyCount, 0, statsWindowDays)
	for i := 0; i < statsWindowDays; i++ {
		day := since.AddDate(0, 0, i)
		dailyCounts = append(dailyCounts, model.DailyCount{
			Date:  day.Format("02.01"),
			Count: daily[day.Format("2006-01-02")],
		})
	}

	return &model.FacultyStats{
		FacultyID:        faculty.ID,
		FacultyName:      faculty.Name,
		TotalSubmissions: total,
		TotalUsers:       totalUsers,
		PendingCount:     byStatus[model.SubmissionSubmitted],
		ApprovedCount:    byStatus[model.SubmissionApproved],
		RejectedCount:    byStatus[model.SubmissionRejected],
		DailySubmissions: dailyCounts,
		CurrentStage:     faculty.CurrentStage,
		StageStatus:      faculty.StageStatus,
	}, nil
}

// ListResponses возвращает все отправленные анкеты факультета
func (s *StatsService) ListResponses(ctx context.Context, facultyID int64) ([]*repository.SubmissionRow, error) {
	return s.responses.ListByFaculty(ctx, facultyID)
}

// ListPendingApprovals возвращает очередь непроверенных анкет
func (s *StatsService) ListPendingApprovals(ctx context.Context, facultyID int64) ([]*model.ApprovalItem, error) {
	return s.approvals.ListPending(ctx, facultyID)
}

// ReviewSubmission одобряет или отклоняет анкету из очереди.
// Уже проверенная анкета второй раз не проверяется.
func (s *StatsService) ReviewSubmission(ctx context.Context, itemID int64, reviewer *model.Administrator, approve bool, notes string) (*model.ApprovalItem, error) {
	status := model.ApprovalRejected
	if approve {
		status = model.ApprovalApproved
	}

	if err := s.approvals.Review(ctx, itemID, status, reviewer.ID, notes); err != nil {
		return nil, err
	}

	s.logger.Info("Submission reviewed",
		zap.Int64("approval_id", itemID),
		zap.String("status", string(status)),
		zap.Int64("reviewer_id", reviewer.ID),
	)
	return s.approvals.GetByID(ctx, itemID)
}
