package model

import (
	"strconv"
	"strings"
	"time"
)

// User — абитуриент, проходящий отбор
type User struct {
	ID            int64     `json:"id"`
	TelegramID    int64     `json:"telegram_id"`
	FirstName     string    `json:"first_name"`
	SecondName    string    `json:"second_name"`
	Surname       string    `json:"surname"`
	CourseOfStudy *int      `json:"course_of_study"`
	StudyGroup    string    `json:"group"`
	FacultyID     *int64    `json:"faculty_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// FullName собирает ФИО из заполненных частей
func (u *User) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.Surname, u.FirstName, u.SecondName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "ID " + formatID(u.TelegramID)
	}
	return strings.Join(parts, " ")
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
