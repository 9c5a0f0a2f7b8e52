package model

import "time"

type InterviewStatus string

const (
	InterviewStatusScheduled InterviewStatus = "scheduled"
	InterviewStatusCompleted InterviewStatus = "completed"
	InterviewStatusCancelled InterviewStatus = "cancelled"
)

// Interview — запись абитуриента на собеседование.
// TimeSlotID nullable: запись может быть ещё не привязана к слоту.
type Interview struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	TimeSlotID    *int64          `json:"time_slot_id"`
	InterviewerID *int64          `json:"interviewer_id"` // назначенный проверяющий
	Status        InterviewStatus `json:"status"`
	Notes         string          `json:"notes"`
	Score         *int            `json:"score"`
	CreatedAt     time.Time       `json:"created_at"`
}

// IsBooked проверяет, привязана ли запись к слоту
func (i *Interview) IsBooked() bool {
	return i.TimeSlotID != nil && i.Status == InterviewStatusScheduled
}
