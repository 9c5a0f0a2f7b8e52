package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studsovet/selection_api/internal/apperr"
	"github.com/studsovet/selection_api/internal/model"
)

type InterviewRepository struct {
	pool *pgxpool.Pool
}

func NewInterviewRepository(pool *pgxpool.Pool) *InterviewRepository {
	return &InterviewRepository{pool: pool}
}

const interviewColumns = `id, user_id, time_slot_id, interviewer_id, status, notes, score, created_at`

func scanInterview(row pgx.Row) (*model.Interview, error) {
	var i model.Interview
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.TimeSlotID,
		&i.InterviewerID,
		&i.Status,
		&i.Notes,
		&i.Score,
		&i.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// Book записывает участника в слот одной транзакцией.
// Сначала участник захватывает свою строку interviews через upsert:
// уникальный индекс user_id сериализует конкурентные бронирования,
// поэтому двойное бронирование и двойной инкремент счётчика исключены.
// Проверка и инкремент счётчика мест выполняются одним условным UPDATE.
func (r *InterviewRepository) Book(ctx context.Context, userID, slotID int64) (*model.Interview, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Захватываем строку участника; DO UPDATE нужен, чтобы RETURNING
	// вернул строку и при конфликте, удерживая на ней блокировку
	var (
		interviewID  int64
		existingSlot *int64
	)
	err = tx.QueryRow(ctx, `
		INSERT INTO interviews (user_id, status)
		VALUES ($1, 'scheduled')
		ON CONFLICT (user_id) DO UPDATE
		SET user_id = EXCLUDED.user_id
		RETURNING id, time_slot_id
	`, userID).Scan(&interviewID, &existingSlot)
	if err != nil {
		return nil, fmt.Errorf("claim interview row: %w", err)
	}
	if existingSlot != nil {
		return nil, apperr.Conflict("user is already booked into a slot")
	}

	result, err := tx.Exec(ctx, `
		UPDATE time_slots ts
		SET current_participants = ts.current_participants + 1
		FROM interview_days d
		WHERE ts.id = $1
		  AND d.id = ts.day_id
		  AND ts.is_active
		  AND d.is_active
		  AND ts.current_participants < ts.max_participants
	`, slotID)
	if err != nil {
		return nil, fmt.Errorf("increment slot counter: %w", err)
	}

	if result.RowsAffected() == 0 {
		return nil, r.diagnoseBookFailure(ctx, tx, slotID)
	}

	interview, err := scanInterview(tx.QueryRow(ctx, `
		UPDATE interviews
		SET time_slot_id = $2, status = 'scheduled'
		WHERE id = $1
		RETURNING `+interviewColumns, interviewID, slotID))
	if err != nil {
		return nil, fmt.Errorf("update interview: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return interview, nil
}

// diagnoseBookFailure выясняет, почему условный UPDATE не затронул строк
func (r *InterviewRepository) diagnoseBookFailure(ctx context.Context, tx pgx.Tx, slotID int64) error {
	var (
		slotActive, dayActive bool
		current, max          int
	)
	err := tx.QueryRow(ctx, `
		SELECT ts.is_active, d.is_active, ts.current_participants, ts.max_participants
		FROM time_slots ts
		JOIN interview_days d ON d.id = ts.day_id
		WHERE ts.id = $1
	`, slotID).Scan(&slotActive, &dayActive, &current, &max)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperr.NotFound("time slot %d", slotID)
		}
		return fmt.Errorf("inspect slot: %w", err)
	}

	if !slotActive || !dayActive {
		return apperr.Conflict("time slot is not active")
	}
	return apperr.Conflict("no places left in this slot")
}

// CancelBooking снимает участника со слота и возвращает место
func (r *InterviewRepository) CancelBooking(ctx context.Context, userID, slotID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE interviews
		SET time_slot_id = NULL
		WHERE user_id = $1 AND time_slot_id = $2
	`, userID, slotID)
	if err != nil {
		return fmt.Errorf("unlink interview: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("booking for this slot")
	}

	// current_participants > 0 страхует счётчик от ухода в минус
	if _, err := tx.Exec(ctx, `
		UPDATE time_slots
		SET current_participants = current_participants - 1
		WHERE id = $1 AND current_participants > 0
	`, slotID); err != nil {
		return fmt.Errorf("decrement slot counter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByUser получает запись участника на собеседование
func (r *InterviewRepository) GetByUser(ctx context.Context, userID int64) (*model.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE user_id = $1`

	interview, err := scanInterview(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get interview by user: %w", err)
	}

	return interview, nil
}

// AssignInterviewer назначает проверяющего на собеседование
func (r *InterviewRepository) AssignInterviewer(ctx context.Context, interviewID, interviewerID int64) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE interviews SET interviewer_id = $1 WHERE id = $2
	`, interviewerID, interviewID)
	if err != nil {
		return fmt.Errorf("assign interviewer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("interview %d", interviewID)
	}

	return nil
}
