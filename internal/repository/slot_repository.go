package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studsovet/selection_api/internal/apperr"
	"github.com/studsovet/selection_api/internal/repository/base"
	"github.com/studsovet/selection_api/internal/model"
)

type SlotRepository struct {
	pool *pgxpool.Pool
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

const slotColumns = `id, day_id, to_char(time, 'HH24:MI'), max_participants, current_participants, is_active, created_at`

func scanSlot(row pgx.Row) (*model.TimeSlot, error) {
	var s model.TimeSlot
	err := row.Scan(
		&s.ID,
		&s.DayID,
		&s.Time,
		&s.MaxParticipants,
		&s.CurrentParticipants,
		&s.IsActive,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID получает слот по ID
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*model.TimeSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots WHERE id = $1`

	slot, err := scanSlot(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get time slot: %w", err)
	}

	return slot, nil
}

// ListByDay получает слоты дня по возрастанию времени
func (r *SlotRepository) ListByDay(ctx context.Context, dayID int64) ([]*model.TimeSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots WHERE day_id = $1 ORDER BY time`

	rows, err := r.pool.Query(ctx, query, dayID)
	if err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.TimeSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan time slot: %w", err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate time slots: %w", err)
	}

	return slots, nil
}

// SetCapacity устанавливает количество мест слота.
// Условный UPDATE: снижение ниже текущих записей отклоняется конфликтом.
func (r *SlotRepository) SetCapacity(ctx context.Context, id int64, maxParticipants int) (*model.TimeSlot, error) {
	query := `
		UPDATE time_slots
		SET max_participants = $1
		WHERE id = $2 AND current_participants <= $1
		RETURNING ` + slotColumns

	slot, err := scanSlot(r.pool.QueryRow(ctx, query, maxParticipants, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			// Либо слот не существует, либо мест меньше текущих записей
			existing, getErr := r.GetByID(ctx, id)
			if getErr != nil {
				return nil, getErr
			}
			if existing == nil {
				return nil, apperr.NotFound("time slot %d", id)
			}
			return nil, apperr.Conflict("cannot set capacity below current bookings (%d)", existing.CurrentParticipants)
		}
		if base.IsCheckViolation(err) {
			return nil, apperr.Validation("capacity out of allowed range")
		}
		return nil, fmt.Errorf("set slot capacity: %w", err)
	}

	return slot, nil
}

// SetActive включает или отключает слот, сохраняя историю
func (r *SlotRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.pool.Exec(ctx, `UPDATE time_slots SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("set time slot active: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("time slot %d", id)
	}

	return nil
}
