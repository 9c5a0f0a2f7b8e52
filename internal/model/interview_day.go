package model

import "time"

// InterviewDay — день собеседований факультета.
// Уникален по (faculty_id, date); после создания меняется только is_active.
type InterviewDay struct {
	ID        int64     `json:"id"`
	FacultyID int64     `json:"faculty_id"`
	Date      time.Time `json:"date"`
	Location  string    `json:"location"`
	CreatedBy int64     `json:"created_by"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`

	// Заполняется при выборке списка дней, не из таблицы
	TimeSlots []*TimeSlot `json:"time_slots,omitempty"`
}

// IsPast проверяет, прошла ли дата дня относительно today
func (d *InterviewDay) IsPast(today time.Time) bool {
	y1, m1, d1 := d.Date.Date()
	y2, m2, d2 := today.Date()
	return time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC).Before(time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC))
}
