package model

import "time"

// TimeSlotAvailability — отметка доступности проверяющего в слоте.
// Наличие строки означает "доступен", отсутствие — "недоступен/не отвечал".
// Уникальна по (time_slot_id, interviewer_id).
type TimeSlotAvailability struct {
	ID            int64     `json:"id"`
	TimeSlotID    int64     `json:"time_slot_id"`
	InterviewerID int64     `json:"interviewer_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// SlotInterviewer — проверяющий, доступный в слоте (для списков Head Admin)
type SlotInterviewer struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	TelegramID int64  `json:"telegram_id"`
}
