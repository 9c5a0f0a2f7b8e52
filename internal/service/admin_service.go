package service

import (
	"context"
	"fmt"

	"github.com/studsovet/selection_api/internal/apperr"
	"github.com/studsovet/selection_api/internal/model"
)

// AdminDirectory — доступ к администраторам факультетов
type AdminDirectory interface {
	GetActiveByTelegram(ctx context.Context, telegramID, facultyID int64) (*model.Administrator, error)
}

// AdminService проверяет права администраторов по telegram_id запроса.
// Суперадмины из конфигурации имеют права head_admin на любом факультете.
type AdminService struct {
	admins      AdminDirectory
	superAdmins map[int64]struct{}
}

func NewAdminService(admins AdminDirectory, superAdminIDs []int64) *AdminService {
	super := make(map[int64]struct{}, len(superAdminIDs))
	for _, id := range superAdminIDs {
		super[id] = struct{}{}
	}
	return &AdminService{admins: admins, superAdmins: super}
}

func (s *AdminService) isSuperAdmin(telegramID int64) bool {
	_, ok := s.superAdmins[telegramID]
	return ok
}

// VerifySuperAdmin проверяет, что telegram_id входит в список суперадминов
func (s *AdminService) VerifySuperAdmin(telegramID int64) error {
	if !s.isSuperAdmin(telegramID) {
		return apperr.Forbidden("this action is available only to super administrators")
	}
	return nil
}

// VerifyFacultyAdmin проверяет, что пользователь — активный админ факультета
// (head_admin или reviewer) либо суперадмин.
func (s *AdminService) VerifyFacultyAdmin(ctx context.Context, facultyID, telegramID int64) (*model.Administrator, error) {
	if s.isSuperAdmin(telegramID) {
		return s.virtualAdmin(telegramID, facultyID), nil
	}

	admin, err := s.admins.GetActiveByTelegram(ctx, telegramID, facultyID)
	if err != nil {
		return nil, fmt.Errorf("verify faculty admin: %w", err)
	}
	if admin == nil {
		return nil, apperr.Forbidden("no access to this faculty")
	}

	return admin, nil
}

// VerifyHeadAdmin проверяет, что пользователь — head_admin факультета либо суперадмин
func (s *AdminService) VerifyHeadAdmin(ctx context.Context, facultyID, telegramID int64) (*model.Administrator, error) {
	admin, err := s.VerifyFacultyAdmin(ctx, facultyID, telegramID)
	if err != nil {
		return nil, err
	}
	if !admin.IsHeadAdmin() {
		return nil, apperr.Forbidden("this action is available only to head administrators")
	}

	return admin, nil
}

// virtualAdmin — представление суперадмина в рамках факультета
func (s *AdminService) virtualAdmin(telegramID, facultyID int64) *model.Administrator {
	return &model.Administrator{
		TelegramID: telegramID,
		FacultyID:  facultyID,
		Role:       model.RoleHeadAdmin,
		IsActive:   true,
	}
}
