package model

// DailyCount — число отправленных анкет за день
type DailyCount struct {
	Date  string `json:"date"` // "DD.MM"
	Count int    `json:"count"`
}

// FacultyStats — агрегаты факультета для админского дашборда
type FacultyStats struct {
	FacultyID        int64        `json:"faculty_id"`
	FacultyName      string       `json:"faculty_name"`
	TotalSubmissions int          `json:"total_submissions"`
	TotalUsers       int          `json:"total_users"`
	PendingCount     int          `json:"pending_count"`
	ApprovedCount    int          `json:"approved_count"`
	RejectedCount    int          `json:"rejected_count"`
	DailySubmissions []DailyCount `json:"daily_submissions"` // последние 14 дней, включая нулевые
	CurrentStage     StageType    `json:"current_stage"`
	StageStatus      StageStatus  `json:"stage_status"`
}
