package model

import "time"

// AdminRole — роль администратора факультета
type AdminRole string

const (
	RoleHeadAdmin AdminRole = "head_admin" // полные права на расписание и этапы
	RoleReviewer  AdminRole = "reviewer"   // проводит собеседования, отмечает доступность
)

type Administrator struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Username   string    `json:"username"`
	FullName   string    `json:"full_name"`
	FacultyID  int64     `json:"faculty_id"`
	Role       AdminRole `json:"role"`
	AddedBy    *int64    `json:"added_by"` // nil для bootstrap-админов
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func (a *Administrator) IsHeadAdmin() bool {
	return a.Role == RoleHeadAdmin
}

// DisplayName возвращает имя для списков проверяющих
func (a *Administrator) DisplayName() string {
	if a.FullName != "" {
		return a.FullName
	}
	if a.Username != "" {
		return a.Username
	}
	return "ID " + formatID(a.TelegramID)
}
