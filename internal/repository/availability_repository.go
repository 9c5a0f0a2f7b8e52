package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studsovet/selection_api/internal/model"
)

type AvailabilityRepository struct {
	pool *pgxpool.Pool
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{pool: pool}
}

// Mark отмечает доступность проверяющего в слоте.
// Идемпотентна: повторная отметка — no-op за счёт уникального ограничения.
func (r *AvailabilityRepository) Mark(ctx context.Context, slotID, interviewerID int64) (bool, error) {
	query := `
		INSERT INTO time_slot_availability (time_slot_id, interviewer_id)
		VALUES ($1, $2)
		ON CONFLICT (time_slot_id, interviewer_id) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query, slotID, interviewerID)
	if err != nil {
		return false, fmt.Errorf("mark availability: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// Unmark снимает отметку доступности. Отсутствие строки — no-op, не ошибка.
func (r *AvailabilityRepository) Unmark(ctx context.Context, slotID, interviewerID int64) (bool, error) {
	query := `
		DELETE FROM time_slot_availability
		WHERE time_slot_id = $1 AND interviewer_id = $2
	`

	result, err := r.pool.Exec(ctx, query, slotID, interviewerID)
	if err != nil {
		return false, fmt.Errorf("unmark availability: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// ListBySlot получает доступных проверяющих слота
func (r *AvailabilityRepository) ListBySlot(ctx context.Context, slotID int64) ([]*model.SlotInterviewer, error) {
	query := `
		SELECT a.id, a.full_name, a.username, a.telegram_id
		FROM time_slot_availability av
		JOIN administrators a ON a.id = av.interviewer_id
		WHERE av.time_slot_id = $1
		ORDER BY av.created_at
	`

	rows, err := r.pool.Query(ctx, query, slotID)
	if err != nil {
		return nil, fmt.Errorf("list slot interviewers: %w", err)
	}
	defer rows.Close()

	var interviewers []*model.SlotInterviewer
	for rows.Next() {
		var (
			iv       model.SlotInterviewer
			fullName string
			username string
		)
		if err := rows.Scan(&iv.ID, &fullName, &username, &iv.TelegramID); err != nil {
			return nil, fmt.Errorf("scan slot interviewer: %w", err)
		}
		iv.Name = interviewerName(fullName, username, iv.TelegramID)
		interviewers = append(interviewers, &iv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slot interviewers: %w", err)
	}

	return interviewers, nil
}

// ListSlotIDsForInterviewer получает ID слотов факультета, отмеченных проверяющим
func (r *AvailabilityRepository) ListSlotIDsForInterviewer(ctx context.Context, facultyID, interviewerID int64) ([]int64, error) {
	query := `
		SELECT av.time_slot_id
		FROM time_slot_availability av
		JOIN time_slots ts ON ts.id = av.time_slot_id
		JOIN interview_days d ON d.id = ts.day_id
		WHERE d.faculty_id = $1 AND av.interviewer_id = $2
	`

	rows, err := r.pool.Query(ctx, query, facultyID, interviewerID)
	if err != nil {
		return nil, fmt.Errorf("list marked slots: %w", err)
	}
	defer rows.Close()

	var slotIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan slot id: %w", err)
		}
		slotIDs = append(slotIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slot ids: %w", err)
	}

	return slotIDs, nil
}

func interviewerName(fullName, username string, telegramID int64) string {
	if fullName != "" {
		return fullName
	}
	if username != "" {
		return username
	}
	return fmt.Sprintf("ID %d", telegramID)
}
