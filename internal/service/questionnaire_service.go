package service

import (
	"context"
	"errors"

	"github.com/studsovet/selection_api/internal/apperr"
	"github.com/studsovet/selection_api/internal/model"
	"go.uber.org/zap"
)

// FacultyStore — факультеты и состояние их этапов
type FacultyStore interface {
	GetByID(ctx context.Context, id int64) (*model.Faculty, error)
	UpdateStage(ctx context.Context, faculty *model.Faculty) error
	SetVideoSubmissionOpen(ctx context.Context, facultyID int64, open bool) error
	SetVideoChatID(ctx context.Context, facultyID int64, chatID *int64) error
}

// TemplateStore — шаблоны вопросов этапов
type TemplateStore interface {
	GetActive(ctx context.Context, facultyID int64, stage model.StageType) (*model.StageTemplate, error)
	GetByID(ctx context.Context, id int64) (*model.StageTemplate, error)
	Create(ctx context.Context, template *model.StageTemplate) error
}

// SubmissionStore — отправленные анкеты и прогресс
type SubmissionStore interface {
	CreateSubmission(ctx context.Context, q *model.Questionnaire) error
	GetByUserAndFaculty(ctx context.Context, userID, facultyID int64) (*model.Questionnaire, error)
	GetProgress(ctx context.Context, userID, facultyID int64, stage model.StageType) (*model.UserProgress, error)
}

// DraftKeeper — черновики анкет
type DraftKeeper interface {
	Save(ctx context.Context, telegramID, facultyID, templateID int64, answers map[string]any) error
	Get(ctx context.Context, telegramID, facultyID int64) (*model.Draft, error)
	Delete(ctx context.Context, telegramID, facultyID int64) (bool, error)
}

// FormView — форма анкеты: шаблон + черновик + статус этапа
type FormView struct {
	Faculty     *model.Faculty
	Template    *model.StageTemplate
	Draft       *model.Draft
	StageStatus model.StageStatus
	CanSubmit   bool
}

// StatusView — статус анкеты участника
type StatusView struct {
	Faculty    *model.Faculty
	UserStatus model.SubmissionStatus
	HasDraft   bool
	CanSubmit  bool
}

type QuestionnaireService struct {
	users       UserDirectory
	faculties   FacultyStore
	templates   TemplateStore
	submissions SubmissionStore
	drafts      DraftKeeper
	logger      *zap.Logger
}

func NewQuestionnaireService(
	users UserDirectory,
	faculties FacultyStore,
	templates TemplateStore,
	submissions SubmissionStore,
	drafts DraftKeeper,
	logger *zap.Logger,
) *QuestionnaireService {
	return &QuestionnaireService{
		users:       users,
		faculties:   faculties,
		templates:   templates,
		submissions: submissions,
		drafts:      drafts,
		logger:      logger,
	}
}

// CreateTemplate сохраняет новую версию шаблона анкеты и делает её активной.
// Предыдущая активная версия деактивируется хранилищем, старые черновики
// отклоняются при отправке проверкой template_id.
func (s *QuestionnaireService) CreateTemplate(ctx context.Context, actor *model.Administrator, facultyID int64, questions []model.Question) (*model.StageTemplate, error) {
	faculty, err := s.faculties.GetByID(ctx, facultyID)
	if err != nil {
		return nil, err
	}
	if faculty == nil {
		return nil, apperr.NotFound("faculty %d", facultyID)
	}

	if err := model.ValidateQuestions(questions); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	version := 1
	previous, err := s.templates.GetActive(ctx, facultyID, model.StageQuestionnaire)
	if err != nil {
		return nil, err
	}
	if previous != nil {
		version = previous.Version + 1
	}

	template := &model.StageTemplate{
		FacultyID: facultyID,
		StageType: model.StageQuestionnaire,
		Version:   version,
		Questions: questions,
	}
	if actor != nil && actor.ID != 0 {
		template.CreatedBy = &actor.ID
	}

	if err := s.templates.Create(ctx, template); err != nil {
		return nil, err
	}

	s.logger.Info("Questionnaire template created",
		zap.Int64("template_id", template.ID),
		zap.Int64("faculty_id", facultyID),
		zap.Int("version", template.Version),
	)
	return template, nil
}

// GetForm возвращает шаблон вопросов и черновик участника
func (s *QuestionnaireService) GetForm(ctx context.Context, telegramID, facultyID int64) (*FormView, error) {
	if _, err := s.resolveUser(ctx, telegramID); err != nil {
		return nil, err
	}

	faculty, template, err := s.facultyWithTemplate(ctx, facultyID)
	if err != nil {
		return nil, err
	}

	draft, err := s.drafts.Get(ctx, telegramID, facultyID)
	if err != nil {
		return nil, err
	}

	return &FormView{
		Faculty:     faculty,
		Template:    template,
		Draft:       draft,
		StageStatus: faculty.StageStatus,
		CanSubmit:   faculty.StageIsOpen(model.StageQuestionnaire),
	}, nil
}

// SaveDraft сохраняет черновик. Всегда разрешено, пока шаблон существует:
// повторные сохранения перезаписывают (last-writer-wins).
func (s *QuestionnaireService) SaveDraft(ctx context.Context, telegramID, facultyID, templateID int64, answers map[string]any) error {
	if _, err := s.resolveUser(ctx, telegramID); err != nil {
		return err
	}

	template, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return err
	}
	if template == nil || template.FacultyID != facultyID {
		return apperr.Validation("invalid template_id")
	}

	return s.drafts.Save(ctx, telegramID, facultyID, templateID, answers)
}

// DeleteDraft удаляет черновик участника
func (s *QuestionnaireService) DeleteDraft(ctx context.Context, telegramID, facultyID int64) error {
	if _, err := s.resolveUser(ctx, telegramID); err != nil {
		return err
	}

	_, err := s.drafts.Delete(ctx, telegramID, facultyID)
	return err
}

// Submit валидирует и сохраняет финальную анкету.
// Повторная отправка отклоняется конфликтом; ответы первой не меняются.
func (s *QuestionnaireService) Submit(ctx context.Context, telegramID, facultyID, templateID int64, answers map[string]any) (*model.Questionnaire, error) {
	user, err := s.resolveUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	faculty, template, err := s.facultyWithTemplate(ctx, facultyID)
	if err != nil {
		return nil, err
	}

	if faculty.CurrentStage != model.StageQuestionnaire {
		return nil, apperr.Validation("questionnaire stage has not started or is already over")
	}
	if faculty.StageStatus != model.StageStatusOpen {
		return nil, apperr.Validation("questionnaire submissions are closed")
	}
	if templateID != template.ID {
		return nil, apperr.Validation("template is outdated, reload the form")
	}

	if err := template.ValidateAnswers(answers); err != nil {
		var answersErr *model.AnswerValidationError
		if errors.As(err, &answersErr) {
			return nil, apperr.Validation("%s", answersErr.Error())
		}
		return nil, err
	}

	questionnaire := &model.Questionnaire{
		UserID:     user.ID,
		FacultyID:  facultyID,
		TemplateID: template.ID,
		Answers:    answers,
	}
	if err := s.submissions.CreateSubmission(ctx, questionnaire); err != nil {
		return nil, err
	}

	// Черновик больше не нужен; сбой удаления не отменяет отправку
	if _, err := s.drafts.Delete(ctx, telegramID, facultyID); err != nil {
		s.logger.Warn("Failed to delete draft after submit",
			zap.Int64("telegram_id", telegramID),
			zap.Int64("faculty_id", facultyID),
			zap.Error(err),
		)
	}

	s.logger.Info("Questionnaire submitted",
		zap.Int64("questionnaire_id", questionnaire.ID),
		zap.Int64("user_id", user.ID),
		zap.Int64("faculty_id", facultyID),
	)
	return questionnaire, nil
}

// Status возвращает статус анкеты участника
func (s *QuestionnaireService) Status(ctx context.Context, telegramID, facultyID int64) (*StatusView, *model.UserProgress, error) {
	user, err := s.resolveUser(ctx, telegramID)
	if err != nil {
		return nil, nil, err
	}

	faculty, err := s.faculties.GetByID(ctx, facultyID)
	if err != nil {
		return nil, nil, err
	}
	if faculty == nil {
		return nil, nil, apperr.NotFound("faculty %d", facultyID)
	}

	progress, err := s.submissions.GetProgress(ctx, user.ID, facultyID, model.StageQuestionnaire)
	if err != nil {
		return nil, nil, err
	}

	userStatus := model.SubmissionNotStarted
	if progress != nil {
		userStatus = progress.Status
	}

	draft, err := s.drafts.Get(ctx, telegramID, facultyID)
	if err != nil {
		return nil, nil, err
	}

	canSubmit := faculty.StageIsOpen(model.StageQuestionnaire) &&
		userStatus == model.SubmissionNotStarted

	return &StatusView{
		Faculty:    faculty,
		UserStatus: userStatus,
		HasDraft:   draft != nil,
		CanSubmit:  canSubmit,
	}, progress, nil
}

func (s *QuestionnaireService) resolveUser(ctx context.Context, telegramID int64) (*model.User, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user is not registered, start the bot first")
	}
	return user, nil
}

func (s *QuestionnaireService) facultyWithTemplate(ctx context.Context, facultyID int64) (*model.Faculty, *model.StageTemplate, error) {
	faculty, err := s.faculties.GetByID(ctx, facultyID)
	if err != nil {
		return nil, nil, err
	}
	if faculty == nil {
		return nil, nil, apperr.NotFound("faculty %d", facultyID)
	}

	template, err := s.templates.GetActive(ctx, facultyID, model.StageQuestionnaire)
	if err != nil {
		return nil, nil, err
	}
	if template == nil {
		return nil, nil, apperr.NotFound("questionnaire template is not configured yet")
	}

	return faculty, template, nil
}
