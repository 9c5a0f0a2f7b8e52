package model

import "time"

// SubmissionStatus — статус прохождения этапа участником
type SubmissionStatus string

const (
	SubmissionNotStarted SubmissionStatus = "not_started"
	SubmissionSubmitted  SubmissionStatus = "submitted"
	SubmissionApproved   SubmissionStatus = "approved"
	SubmissionRejected   SubmissionStatus = "rejected"
)

// Questionnaire — финальная отправленная анкета.
// Неизменяема; не больше одной на (user_id, faculty_id).
type Questionnaire struct {
	ID          int64          `json:"id"`
	UserID      int64          `json:"user_id"`
	FacultyID   int64          `json:"faculty_id"`
	TemplateID  int64          `json:"template_id"`
	Answers     map[string]any `json:"answers"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

// UserProgress — прогресс участника по этапам отбора
type UserProgress struct {
	ID          int64            `json:"id"`
	UserID      int64            `json:"user_id"`
	FacultyID   int64            `json:"faculty_id"`
	StageType   StageType        `json:"stage_type"`
	Status      SubmissionStatus `json:"status"`
	SubmittedAt *time.Time       `json:"submitted_at"`
	ApprovedAt  *time.Time       `json:"approved_at"`
}

// ApprovalStatus — статус заявки в очереди проверки
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// ApprovalItem — заявка в очереди на проверку админом факультета
type ApprovalItem struct {
	ID          int64          `json:"id"`
	UserID      int64          `json:"user_id"`
	FacultyID   int64          `json:"faculty_id"`
	StageType   StageType      `json:"stage_type"`
	Answers     map[string]any `json:"answers"`
	Status      ApprovalStatus `json:"status"`
	SubmittedAt time.Time      `json:"submitted_at"`
	ReviewedAt  *time.Time     `json:"reviewed_at"`
	ReviewedBy  *int64         `json:"reviewed_by"`
	Notes       string         `json:"notes"`
}

// Draft — черновик анкеты (автосохранение, живёт в Redis с TTL)
type Draft struct {
	TemplateID int64          `json:"template_id"`
	Answers    map[string]any `json:"answers"`
	UpdatedAt  time.Time      `json:"updated_at"`
	TTLSeconds int64          `json:"ttl_seconds"`
}
