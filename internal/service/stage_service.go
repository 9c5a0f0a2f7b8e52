package service

import (
	"context"
	"time"

	"github.com/studsovet/selection_api/internal/apperr"
	"github.com/studsovet/selection_api/internal/model"
	"go.uber.org/zap"
)

// StageService управляет жизненным циклом этапов отбора факультета.
type StageService struct {
	faculties FacultyStore
	logger    *zap.Logger
	now       func() time.Time
}

func NewStageService(faculties FacultyStore, logger *zap.Logger) *StageService {
	return &StageService{
		faculties: faculties,
		logger:    logger,
		now:       time.Now,
	}
}

// GetFaculty возвращает факультет с текущим состоянием этапа
func (s *StageService) GetFaculty(ctx context.Context, facultyID int64) (*model.Faculty, error) {
	return s.getFaculty(ctx, facultyID)
}

// OpenStage открывает текущий этап для участников
func (s *StageService) OpenStage(ctx context.Context, facultyID int64) (*model.Faculty, error) {
	faculty, err := s.getFaculty(ctx, facultyID)
	if err != nil {
		return nil, err
	}

	if err := faculty.OpenStage(s.now()); err != nil {
		return nil, apperr.Conflict("%s", err.Error())
	}
	if err := s.faculties.UpdateStage(ctx, faculty); err != nil {
		return nil, err
	}

	s.logger.Info("Stage opened",
		zap.Int64("faculty_id", facultyID),
		zap.String("stage", string(faculty.CurrentStage)),
	)
	return faculty, nil
}

// CloseStage закрывает приём на текущем этапе
func (s *StageService) CloseStage(ctx context.Context, facultyID int64) (*model.Faculty, error) {
	faculty, err := s.getFaculty(ctx, facultyID)
	if err != nil {
		return nil, err
	}

	if err := faculty.CloseStage(); err != nil {
		return nil, apperr.Conflict("%s", err.Error())
	}
	if err := s.faculties.UpdateStage(ctx, faculty); err != nil {
		return nil, err
	}

	s.logger.Info("Stage closed",
		zap.Int64("faculty_id", facultyID),
		zap.String("stage", string(faculty.CurrentStage)),
	)
	return faculty, nil
}

// AdvanceStage переводит факультет на следующий этап.
// Текущий этап должен быть закрыт; переход с последнего этапа запрещён.
func (s *StageService) AdvanceStage(ctx context.Context, facultyID int64) (*model.Faculty, error) {
	faculty, err := s.getFaculty(ctx, facultyID)
	if err != nil {
		return nil, err
	}

	previous := faculty.CurrentStage
	if err := faculty.AdvanceStage(); err != nil {
		return nil, apperr.Conflict("%s", err.Error())
	}
	if err := s.faculties.UpdateStage(ctx, faculty); err != nil {
		return nil, err
	}

	s.logger.Info("Faculty advanced to next stage",
		zap.Int64("faculty_id", facultyID),
		zap.String("from", string(previous)),
		zap.String("to", string(faculty.CurrentStage)),
	)
	return faculty, nil
}

func (s *StageService) getFaculty(ctx context.Context, facultyID int64) (*model.Faculty, error) {
	faculty, err := s.faculties.GetByID(ctx, facultyID)
	if err != nil {
		return nil, err
	}
	if faculty == nil {
		return nil, apperr.NotFound("faculty %d", facultyID)
	}
	return faculty, nil
}
