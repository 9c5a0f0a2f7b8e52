package service

import (
	"context"
	"strings"

	"github.com/studsovet/selection_api/internal/apperr"
	"github.com/studsovet/selection_api/internal/model"
	"go.uber.org/zap"
)

// VideoStore — домашние видео участников
type VideoStore interface {
	Upsert(ctx context.Context, video *model.HomeVideo) error
	GetByUser(ctx context.Context, userID, facultyID int64) (*model.HomeVideo, error)
	SetStatus(ctx context.Context, id int64, status model.VideoStatus) error
}

type VideoService struct {
	users     UserDirectory
	faculties FacultyStore
	videos    VideoStore
	logger    *zap.Logger
}

func NewVideoService(users UserDirectory, faculties FacultyStore, videos VideoStore, logger *zap.Logger) *VideoService {
	return &VideoService{
		users:     users,
		faculties: faculties,
		videos:    videos,
		logger:    logger,
	}
}

// Submit принимает видео участника. Повторная отправка заменяет предыдущую.
// Приём открыт только на этапе video и только пока включён video_submission_open.
func (s *VideoService) Submit(ctx context.Context, telegramID, facultyID int64, videoFileID string) (*model.HomeVideo, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user is not registered, start the bot first")
	}

	faculty, err := s.faculties.GetByID(ctx, facultyID)
	if err != nil {
		return nil, err
	}
	if faculty == nil {
		return nil, apperr.NotFound("faculty %d", facultyID)
	}
	if !faculty.StageIsOpen(model.StageVideo) {
		return nil, apperr.Validation("video stage is not open")
	}
	if !faculty.VideoSubmissionOpen {
		return nil, apperr.Validation("video submissions are closed")
	}

	videoFileID = strings.TrimSpace(videoFileID)
	if videoFileID == "" {
		return nil, apperr.Validation("video_file_id is required")
	}

	video := &model.HomeVideo{
		UserID:      user.ID,
		FacultyID:   facultyID,
		VideoFileID: videoFileID,
	}
	if err := s.videos.Upsert(ctx, video); err != nil {
		return nil, err
	}

	s.logger.Info("Home video submitted",
		zap.Int64("user_id", user.ID),
		zap.Int64("faculty_id", facultyID),
	)
	return video, nil
}

// GetMyVideo возвращает последнее видео участника, nil если его нет
func (s *VideoService) GetMyVideo(ctx context.Context, telegramID, facultyID int64) (*model.HomeVideo, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user is not registered, start the bot first")
	}
	return s.videos.GetByUser(ctx, user.ID, facultyID)
}

// SetSubmissionOpen включает или выключает приём видео на факультете
func (s *VideoService) SetSubmissionOpen(ctx context.Context, facultyID int64, open bool) error {
	faculty, err := s.faculties.GetByID(ctx, facultyID)
	if err != nil {
		return err
	}
	if faculty == nil {
		return apperr.NotFound("faculty %d", facultyID)
	}

	if err := s.faculties.SetVideoSubmissionOpen(ctx, facultyID, open); err != nil {
		return err
	}

	s.logger.Info("Video submission flag changed",
		zap.Int64("faculty_id", facultyID),
		zap.Bool("open", open),
	)
	return nil
}

// SetChatID настраивает чат факультета для пересылки домашних видео.
// nil сбрасывает настройку.
func (s *VideoService) SetChatID(ctx context.Context, facultyID int64, chatID *int64) error {
	faculty, err := s.faculties.GetByID(ctx, facultyID)
	if err != nil {
		return err
	}
	if faculty == nil {
		return apperr.NotFound("faculty %d", facultyID)
	}

	return s.faculties.SetVideoChatID(ctx, facultyID, chatID)
}

// ReviewVideo помечает видео одобренным или отклонённым
func (s *VideoService) ReviewVideo(ctx context.Context, userID, facultyID int64, approve bool) (*model.HomeVideo, error) {
	video, err := s.videos.GetByUser(ctx, userID, facultyID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, apperr.NotFound("video for user %d", userID)
	}

	status := model.VideoStatusRejected
	if approve {
		status = model.VideoStatusApproved
	}
	if err := s.videos.SetStatus(ctx, video.ID, status); err != nil {
		return nil, err
	}
	video.Status = status
	return video, nil
}
