package model

import (
	"fmt"
	"time"
)

// StageType — этап отбора факультета
type StageType string

const (
	StageQuestionnaire StageType = "questionnaire"
	StageVideo         StageType = "video"
	StageInterview     StageType = "interview"
	StageDone          StageType = "done"
)

// StageStatus — состояние текущего этапа
type StageStatus string

const (
	StageStatusNotStarted StageStatus = "not_started"
	StageStatusOpen       StageStatus = "open"
	StageStatusClosed     StageStatus = "closed"
	StageStatusCompleted  StageStatus = "completed"
)

type Faculty struct {
	ID                  int64       `json:"id"`
	Name                string      `json:"name"`
	Description         string      `json:"description"`
	CurrentStage        StageType   `json:"current_stage"`
	StageStatus         StageStatus `json:"stage_status"`
	StageOpenedAt       *time.Time  `json:"stage_opened_at"`
	VideoChatID         *int64      `json:"video_chat_id"`         // чат для домашних видео
	VideoSubmissionOpen bool        `json:"video_submission_open"` // открыт ли приём видео
	CreatedAt           time.Time   `json:"created_at"`
}

// stageOrder задаёт последовательность этапов отбора
var stageOrder = []StageType{StageQuestionnaire, StageVideo, StageInterview, StageDone}

// Next возвращает следующий этап. Для последнего этапа возвращает false.
func (s StageType) Next() (StageType, bool) {
	for i, stage := range stageOrder {
		if stage == s && i < len(stageOrder)-1 {
			return stageOrder[i+1], true
		}
	}
	return s, false
}

func (s StageType) Valid() bool {
	for _, stage := range stageOrder {
		if stage == s {
			return true
		}
	}
	return false
}

// StageIsOpen проверяет, открыт ли указанный этап для участников
func (f *Faculty) StageIsOpen(stage StageType) bool {
	return f.CurrentStage == stage && f.StageStatus == StageStatusOpen
}

// OpenStage открывает текущий этап для участников
func (f *Faculty) OpenStage(now time.Time) error {
	switch f.StageStatus {
	case StageStatusNotStarted, StageStatusClosed:
		f.StageStatus = StageStatusOpen
		f.StageOpenedAt = &now
		return nil
	default:
		return fmt.Errorf("stage %s is already %s", f.CurrentStage, f.StageStatus)
	}
}

// CloseStage закрывает приём на текущем этапе
func (f *Faculty) CloseStage() error {
	if f.StageStatus != StageStatusOpen {
		return fmt.Errorf("stage %s is not open", f.CurrentStage)
	}
	f.StageStatus = StageStatusClosed
	return nil
}

// AdvanceStage переводит факультет на следующий этап.
// Разрешено только когда текущий этап закрыт или завершён.
func (f *Faculty) AdvanceStage() error {
	if f.StageStatus != StageStatusClosed && f.StageStatus != StageStatusCompleted {
		return fmt.Errorf("stage %s must be closed before advancing, current status: %s", f.CurrentStage, f.StageStatus)
	}
	next, ok := f.CurrentStage.Next()
	if !ok {
		return fmt.Errorf("stage %s is the final stage", f.CurrentStage)
	}
	f.CurrentStage = next
	f.StageStatus = StageStatusNotStarted
	f.StageOpenedAt = nil
	return nil
}
