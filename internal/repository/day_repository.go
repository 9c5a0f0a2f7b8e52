package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studsovet/selection_api/internal/apperr"
	"github.com/studsovet/selection_api/internal/model"
	"github.com/studsovet/selection_api/internal/repository/base"
)

type DayRepository struct {
	pool *pgxpool.Pool
}

func NewDayRepository(pool *pgxpool.Pool) *DayRepository {
	return &DayRepository{pool: pool}
}

const dayColumns = `id, faculty_id, date, location, created_by, is_active, created_at`

func scanDay(row pgx.Row) (*model.InterviewDay, error) {
	var d model.InterviewDay
	err := row.Scan(
		&d.ID,
		&d.FacultyID,
		&d.Date,
		&d.Location,
		&d.CreatedBy,
		&d.IsActive,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateWithSlots создаёт день собеседований и его временные слоты
// одной транзакцией. Дубликат (faculty_id, date) отклоняется конфликтом.
func (r *DayRepository) CreateWithSlots(ctx context.Context, day *model.InterviewDay, slotTimes []string) error {
	day.Date = dateOnly(day.Date)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO interview_days (faculty_id, date, location, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at
	`

	err = tx.QueryRow(ctx, query,
		day.FacultyID,
		day.Date,
		day.Location,
		day.CreatedBy,
	).Scan(&day.ID, &day.IsActive, &day.CreatedAt)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return apperr.Conflict("interview day for this date already exists")
		}
		return fmt.Errorf("create interview day: %w", err)
	}

	slotQuery := `
		INSERT INTO time_slots (day_id, time, max_participants, current_participants)
		VALUES ($1, $2::time, 0, 0)
	`
	for _, slotTime := range slotTimes {
		if _, err := tx.Exec(ctx, slotQuery, day.ID, slotTime); err != nil {
			return fmt.Errorf("create time slot %s: %w", slotTime, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID получает день по ID
func (r *DayRepository) GetByID(ctx context.Context, id int64) (*model.InterviewDay, error) {
	query := `SELECT ` + dayColumns + ` FROM interview_days WHERE id = $1`

	day, err := scanDay(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get interview day: %w", err)
	}

	return day, nil
}

// ListByFaculty получает дни факультета по возрастанию даты
func (r *DayRepository) ListByFaculty(ctx context.Context, facultyID int64) ([]*model.InterviewDay, error) {
	query := `SELECT ` + dayColumns + ` FROM interview_days WHERE faculty_id = $1 ORDER BY date`

	rows, err := r.pool.Query(ctx, query, facultyID)
	if err != nil {
		return nil, fmt.Errorf("list interview days: %w", err)
	}
	defer rows.Close()

	var days []*model.InterviewDay
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interview day: %w", err)
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interview days: %w", err)
	}

	return days, nil
}

// CountBookings считает активные записи на все слоты дня
func (r *DayRepository) CountBookings(ctx context.Context, dayID int64) (int, error) {
	query := `
		SELECT COALESCE(SUM(current_participants), 0)
		FROM time_slots
		WHERE day_id = $1
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, dayID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count day bookings: %w", err)
	}

	return count, nil
}

// Delete удаляет день вместе со слотами (каскадно)
func (r *DayRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM interview_days WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete interview day: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("interview day %d", id)
	}

	return nil
}

// SetActive включает или отключает день, сохраняя историю
func (r *DayRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.pool.Exec(ctx, `UPDATE interview_days SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("set interview day active: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("interview day %d", id)
	}

	return nil
}

// dateOnly нормализует дату дня к полуночи UTC
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
