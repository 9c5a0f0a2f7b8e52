package model

import "time"

type VideoStatus string

const (
	VideoStatusSubmitted VideoStatus = "submitted"
	VideoStatusApproved  VideoStatus = "approved"
	VideoStatusRejected  VideoStatus = "rejected"
)

// HomeVideo — домашнее видео участника для этапа video.
// Повторная отправка заменяет предыдущую (одна активная на участника).
type HomeVideo struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	FacultyID   int64       `json:"faculty_id"`
	VideoFileID string      `json:"video_file_id"` // telegram file_id или URL
	Status      VideoStatus `json:"status"`
	SubmittedAt time.Time   `json:"submitted_at"`
	CreatedAt   time.Time   `json:"created_at"`
}
