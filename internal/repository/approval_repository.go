package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studsovet/selection_api/internal/apperr"
	"github.com/studsovet/selection_api/internal/model"
)

type ApprovalRepository struct {
	pool *pgxpool.Pool
}

func NewApprovalRepository(pool *pgxpool.Pool) *ApprovalRepository {
	return &ApprovalRepository{pool: pool}
}

const approvalColumns = `id, user_id, faculty_id, stage_type, answers, status, submitted_at, reviewed_at, reviewed_by, notes`

func scanApproval(row pgx.Row) (*model.ApprovalItem, error) {
	var (
		item       model.ApprovalItem
		rawAnswers []byte
	)
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.FacultyID,
		&item.StageType,
		&rawAnswers,
		&item.Status,
		&item.SubmittedAt,
		&item.ReviewedAt,
		&item.ReviewedBy,
		&item.Notes,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rawAnswers, &item.Answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return &item, nil
}

// ListPending получает очередь заявок факультета на проверку
func (r *ApprovalRepository) ListPending(ctx context.Context, facultyID int64) ([]*model.ApprovalItem, error) {
	query := `
		SELECT ` + approvalColumns + `
		FROM approval_queue
		WHERE faculty_id = $1 AND status = 'pending'
		ORDER BY submitted_at
	`

	rows, err := r.pool.Query(ctx, query, facultyID)
	if err != nil {
		return nil, fmt.Errorf("list pending approvals: %w", err)
	}
	defer rows.Close()

	var items []*model.ApprovalItem
	for rows.Next() {
		item, err := scanApproval(rows)
		if err != nil {
			return nil, fmt.Errorf("scan approval item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate approval items: %w", err)
	}

	return items, nil
}

// GetByID получает заявку по ID
func (r *ApprovalRepository) GetByID(ctx context.Context, id int64) (*model.ApprovalItem, error) {
	query := `SELECT ` + approvalColumns + ` FROM approval_queue WHERE id = $1`

	item, err := scanApproval(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get approval item: %w", err)
	}

	return item, nil
}

// Review решает заявку и обновляет прогресс участника в одной транзакции.
// Повторная проверка уже решённой заявки отклоняется конфликтом.
func (r *ApprovalRepository) Review(ctx context.Context, id int64, status model.ApprovalStatus, reviewerID int64, notes string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()

	var (
		userID    int64
		facultyID int64
		stageType model.StageType
	)
	err = tx.QueryRow(ctx, `
		UPDATE approval_queue
		SET status = $1, reviewed_at = $2, reviewed_by = $3, notes = $4
		WHERE id = $5 AND status = 'pending'
		RETURNING user_id, faculty_id, stage_type
	`, status, now, reviewerID, notes, id).Scan(&userID, &facultyID, &stageType)
	if err != nil {
		if err == pgx.ErrNoRows {
			item, getErr := r.GetByID(ctx, id)
			if getErr != nil {
				return getErr
			}
			if item == nil {
				return apperr.NotFound("approval item %d", id)
			}
			return apperr.Conflict("approval item already reviewed")
		}
		return fmt.Errorf("review approval item: %w", err)
	}

	progressStatus := model.SubmissionRejected
	var approvedAt *time.Time
	if status == model.ApprovalApproved {
		progressStatus = model.SubmissionApproved
		approvedAt = &now
	}

	if _, err := tx.Exec(ctx, `
		UPDATE user_progress
		SET status = $1, approved_at = $2
		WHERE user_id = $3 AND faculty_id = $4 AND stage_type = $5
	`, progressStatus, approvedAt, userID, facultyID, stageType); err != nil {
		return fmt.Errorf("update user progress: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
