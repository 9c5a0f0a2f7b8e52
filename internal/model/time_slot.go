package model

import (
	"fmt"
	"time"
)

// Дневное окно слотов: при создании дня автоматически создаются
// часовые слоты с 10:00 по 22:00 включительно.
const (
	SlotWindowStartHour = 10
	SlotWindowEndHour   = 22

	// MaxSlotCapacity — верхняя граница мест в одном слоте
	MaxSlotCapacity = 10
)

// TimeSlot — временной слот внутри дня собеседований.
// Уникален по (day_id, time). Инвариант: 0 <= current_participants <= max_participants.
type TimeSlot struct {
	ID                  int64     `json:"id"`
	DayID               int64     `json:"day_id"`
	Time                string    `json:"time"` // "HH:MM"
	MaxParticipants     int       `json:"max_participants"`
	CurrentParticipants int       `json:"current_participants"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
}

// AvailablePlaces возвращает число свободных мест
func (t *TimeSlot) AvailablePlaces() int {
	if n := t.MaxParticipants - t.CurrentParticipants; n > 0 {
		return n
	}
	return 0
}

// DefaultSlotTimes возвращает времена слотов дневного окна
func DefaultSlotTimes() []string {
	times := make([]string, 0, SlotWindowEndHour-SlotWindowStartHour+1)
	for h := SlotWindowStartHour; h <= SlotWindowEndHour; h++ {
		times = append(times, fmt.Sprintf("%02d:00", h))
	}
	return times
}
