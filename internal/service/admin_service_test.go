package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studsovet/selection_api/internal/apperr"
	"github.com/studsovet/selection_api/internal/model"
)

type memAdmins struct {
	admins []*model.Administrator
}

func (m *memAdmins) GetActiveByTelegram(_ context.Context, telegramID, facultyID int64) (*model.Administrator, error) {
	for _, a := range m.admins {
		if a.TelegramID == telegramID && a.FacultyID == facultyID && a.IsActive {
			return a, nil
		}
	}
	return nil, nil
}

func (m *memAdmins) GetByID(_ context.Context, id int64) (*model.Administrator, error) {
	for _, a := range m.admins {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (m *memAdmins) ListByFaculty(_ context.Context, facultyID int64) ([]*model.Administrator, error) {
	var out []*model.Administrator
	for _, a := range m.admins {
		if a.FacultyID == facultyID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAdmins) Create(_ context.Context, admin *model.Administrator) error {
	admin.ID = int64(len(m.admins) + 1)
	admin.IsActive = true
	m.admins = append(m.admins, admin)
	return nil
}

func (m *memAdmins) Deactivate(_ context.Context, id int64) error {
	for _, a := range m.admins {
		if a.ID == id {
			a.IsActive = false
			return nil
		}
	}
	return apperr.NotFound("administrator %d", id)
}

func TestVerifyFacultyAdmin(t *testing.T) {
	dir := &memAdmins{admins: []*model.Administrator{
		{ID: 1, TelegramID: 500, FacultyID: 1, Role: model.RoleReviewer, IsActive: true},
		{ID: 2, TelegramID: 501, FacultyID: 1, Role: model.RoleHeadAdmin, IsActive: false},
	}}
	svc := NewAdminService(dir, nil)
	ctx := context.Background()

	admin, err := svc.VerifyFacultyAdmin(ctx, 1, 500)
	require.NoError(t, err)
	assert.Equal(t, model.RoleReviewer, admin.Role)

	// Деактивированный админ не проходит
	_, err = svc.VerifyFacultyAdmin(ctx, 1, 501)
	assert.True(t, apperr.IsForbidden(err))

	// Чужой факультет
	_, err = svc.VerifyFacultyAdmin(ctx, 2, 500)
	assert.True(t, apperr.IsForbidden(err))
}

func TestVerifyHeadAdmin(t *testing.T) {
	dir := &memAdmins{admins: []*model.Administrator{
		{ID: 1, TelegramID: 500, FacultyID: 1, Role: model.RoleReviewer, IsActive: true},
		{ID: 2, TelegramID: 501, FacultyID: 1, Role: model.RoleHeadAdmin, IsActive: true},
	}}
	svc := NewAdminService(dir, nil)
	ctx := context.Background()

	admin, err := svc.VerifyHeadAdmin(ctx, 1, 501)
	require.NoError(t, err)
	assert.True(t, admin.IsHeadAdmin())

	// Reviewer не head_admin
	_, err = svc.VerifyHeadAdmin(ctx, 1, 500)
	assert.True(t, apperr.IsForbidden(err))
}

func TestSuperAdminHasFullAccess(t *testing.T) {
	svc := NewAdminService(&memAdmins{}, []int64{777})
	ctx := context.Background()

	admin, err := svc.VerifyHeadAdmin(ctx, 5, 777)
	require.NoError(t, err)
	assert.True(t, admin.IsHeadAdmin())
	assert.Equal(t, int64(5), admin.FacultyID)

	_, err = svc.VerifyHeadAdmin(ctx, 5, 778)
	assert.True(t, apperr.IsForbidden(err))
}
