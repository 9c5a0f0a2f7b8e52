package service

import (
	"context"
	"strings"

	"github.com/studsovet/selection_api/internal/apperr"
	"github.com/studsovet/selection_api/internal/model"
	"go.uber.org/zap"
)

// FacultyCatalog — справочник факультетов
type FacultyCatalog interface {
	List(ctx context.Context) ([]*model.Faculty, error)
	GetByID(ctx context.Context, id int64) (*model.Faculty, error)
	Create(ctx context.Context, faculty *model.Faculty) error
}

// UserRegistry — регистрация участников отбора
type UserRegistry interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}

// AdminStore — управление администраторами факультета
type AdminStore interface {
	GetActiveByTelegram(ctx context.Context, telegramID, facultyID int64) (*model.Administrator, error)
	GetByID(ctx context.Context, id int64) (*model.Administrator, error)
	ListByFaculty(ctx context.Context, facultyID int64) ([]*model.Administrator, error)
	Create(ctx context.Context, admin *model.Administrator) error
	Deactivate(ctx context.Context, id int64) error
}

// RegistrationInput — данные регистрации абитуриента (приходят от бота)
type RegistrationInput struct {
	TelegramID    int64
	FirstName     string
	SecondName    string
	Surname       string
	CourseOfStudy *int
	StudyGroup    string
	FacultyID     int64
}

// AdminInput — данные нового администратора факультета
type AdminInput struct {
	TelegramID int64
	Username   string
	FullName   string
	Role       model.AdminRole
}

// DirectoryService ведёт справочник факультетов, участников
// и администраторов.
type DirectoryService struct {
	faculties FacultyCatalog
	users     UserRegistry
	admins    AdminStore
	logger    *zap.Logger
}

func NewDirectoryService(faculties FacultyCatalog, users UserRegistry, admins AdminStore, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{
		faculties: faculties,
		users:     users,
		admins:    admins,
		logger:    logger,
	}
}

// ListFaculties возвращает все факультеты
func (s *DirectoryService) ListFaculties(ctx context.Context) ([]*model.Faculty, error) {
	return s.faculties.List(ctx)
}

// CreateFaculty создаёт факультет. Этап и статус выставляет хранилище.
func (s *DirectoryService) CreateFaculty(ctx context.Context, name, description string) (*model.Faculty, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("faculty name is required")
	}

	faculty := &model.Faculty{Name: name, Description: description}
	if err := s.faculties.Create(ctx, faculty); err != nil {
		return nil, err
	}

	s.logger.Info("Faculty created",
		zap.Int64("faculty_id", faculty.ID),
		zap.String("name", faculty.Name),
	)
	return faculty, nil
}

// RegisterApplicant регистрирует абитуриента на факультет.
// Повторная регистрация того же telegram_id отклоняется конфликтом.
func (s *DirectoryService) RegisterApplicant(ctx context.Context, input RegistrationInput) (*model.User, error) {
	faculty, err := s.faculties.GetByID(ctx, input.FacultyID)
	if err != nil {
		return nil, err
	}
	if faculty == nil {
		return nil, apperr.NotFound("faculty %d", input.FacultyID)
	}

	existing, err := s.users.GetByTelegramID(ctx, input.TelegramID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("user is already registered")
	}

	facultyID := input.FacultyID
	user := &model.User{
		TelegramID:    input.TelegramID,
		FirstName:     strings.TrimSpace(input.FirstName),
		SecondName:    strings.TrimSpace(input.SecondName),
		Surname:       strings.TrimSpace(input.Surname),
		CourseOfStudy: input.CourseOfStudy,
		StudyGroup:    strings.TrimSpace(input.StudyGroup),
		FacultyID:     &facultyID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Applicant registered",
		zap.Int64("user_id", user.ID),
		zap.Int64("telegram_id", user.TelegramID),
		zap.Int64("faculty_id", facultyID),
	)
	return user, nil
}

// ListAdmins возвращает администраторов факультета, включая деактивированных
func (s *DirectoryService) ListAdmins(ctx context.Context, facultyID int64) ([]*model.Administrator, error) {
	return s.admins.ListByFaculty(ctx, facultyID)
}

// AddAdmin добавляет администратора факультета
func (s *DirectoryService) AddAdmin(ctx context.Context, actor *model.Administrator, facultyID int64, input AdminInput) (*model.Administrator, error) {
	if input.Role != model.RoleHeadAdmin && input.Role != model.RoleReviewer {
		return nil, apperr.Validation("unknown role %q", input.Role)
	}

	existing, err := s.admins.GetActiveByTelegram(ctx, input.TelegramID, facultyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("administrator already exists on this faculty")
	}

	admin := &model.Administrator{
		TelegramID: input.TelegramID,
		Username:   input.Username,
		FullName:   input.FullName,
		FacultyID:  facultyID,
		Role:       input.Role,
	}
	// У виртуальных суперадминов нет записи в БД
	if actor != nil && actor.ID != 0 {
		admin.AddedBy = &actor.ID
	}

	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info("Administrator added",
		zap.Int64("admin_id", admin.ID),
		zap.Int64("faculty_id", facultyID),
		zap.String("role", string(admin.Role)),
	)
	return admin, nil
}

// DeactivateAdmin отключает администратора факультета.
// Повторная деактивация завершается успешно без изменений.
func (s *DirectoryService) DeactivateAdmin(ctx context.Context, facultyID, adminID int64) error {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if admin == nil || admin.FacultyID != facultyID {
		return apperr.NotFound("administrator %d", adminID)
	}
	if !admin.IsActive {
		return nil
	}

	if err := s.admins.Deactivate(ctx, admin.ID); err != nil {
		return err
	}

	s.logger.Info("Administrator deactivated",
		zap.Int64("admin_id", admin.ID),
		zap.Int64("faculty_id", facultyID),
	)
	return nil
}
