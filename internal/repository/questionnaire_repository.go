package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studsovet/selection_api/internal/apperr"
	"github.com/studsovet/selection_api/internal/model"
	"github.com/studsovet/selection_api/internal/repository/base"
)

type QuestionnaireRepository struct {
	pool *pgxpool.Pool
}

func NewQuestionnaireRepository(pool *pgxpool.Pool) *QuestionnaireRepository {
	return &QuestionnaireRepository{pool: pool}
}

// SubmissionRow — отправленная анкета вместе с данными участника (для таблиц админа)
type SubmissionRow struct {
	Questionnaire *model.Questionnaire
	UserName      string
	TelegramID    int64
	Status        model.SubmissionStatus
}

// CreateSubmission сохраняет финальную анкету одной транзакцией:
// questionnaires + approval_queue + user_progress. Повторная отправка
// отклоняется конфликтом за счёт уникального (user_id, faculty_id).
func (r *QuestionnaireRepository) CreateSubmission(ctx context.Context, q *model.Questionnaire) error {
	answers, err := json.Marshal(q.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO questionnaires (user_id, faculty_id, template_id, answers)
		VALUES ($1, $2, $3, $4)
		RETURNING id, submitted_at
	`, q.UserID, q.FacultyID, q.TemplateID, answers).Scan(&q.ID, &q.SubmittedAt)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return apperr.Conflict("questionnaire already submitted")
		}
		return fmt.Errorf("create questionnaire: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO approval_queue (user_id, faculty_id, stage_type, answers, status)
		VALUES ($1, $2, $3, $4, 'pending')
	`, q.UserID, q.FacultyID, model.StageQuestionnaire, answers); err != nil {
		return fmt.Errorf("enqueue for approval: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO user_progress (user_id, faculty_id, stage_type, status, submitted_at)
		VALUES ($1, $2, $3, 'submitted', $4)
		ON CONFLICT (user_id, faculty_id, stage_type) DO UPDATE
		SET status = 'submitted', submitted_at = EXCLUDED.submitted_at
	`, q.UserID, q.FacultyID, model.StageQuestionnaire, q.SubmittedAt); err != nil {
		return fmt.Errorf("update user progress: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByUserAndFaculty получает отправленную анкету участника
func (r *QuestionnaireRepository) GetByUserAndFaculty(ctx context.Context, userID, facultyID int64) (*model.Questionnaire, error) {
	query := `
		SELECT id, user_id, faculty_id, template_id, answers, submitted_at
		FROM questionnaires
		WHERE user_id = $1 AND faculty_id = $2
	`

	q, err := scanQuestionnaire(r.pool.QueryRow(ctx, query, userID, facultyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get questionnaire: %w", err)
	}

	return q, nil
}

func scanQuestionnaire(row pgx.Row) (*model.Questionnaire, error) {
	var (
		q          model.Questionnaire
		rawAnswers []byte
	)
	err := row.Scan(&q.ID, &q.UserID, &q.FacultyID, &q.TemplateID, &rawAnswers, &q.SubmittedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rawAnswers, &q.Answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return &q, nil
}

// ListByFaculty получает все отправленные анкеты факультета с данными участников
func (r *QuestionnaireRepository) ListByFaculty(ctx context.Context, facultyID int64) ([]*SubmissionRow, error) {
	query := `
		SELECT q.id, q.user_id, q.faculty_id, q.template_id, q.answers, q.submitted_at,
		       u.telegram_id, u.first_name, u.second_name, u.surname,
		       COALESCE(p.status, 'submitted')
		FROM questionnaires q
		JOIN users u ON u.id = q.user_id
		LEFT JOIN user_progress p
		       ON p.user_id = q.user_id AND p.faculty_id = q.faculty_id AND p.stage_type = $2
		WHERE q.faculty_id = $1
		ORDER BY q.submitted_at
	`

	rows, err := r.pool.Query(ctx, query, facultyID, model.StageQuestionnaire)
	if err != nil {
		return nil, fmt.Errorf("list questionnaires: %w", err)
	}
	defer rows.Close()

	var submissions []*SubmissionRow
	for rows.Next() {
		var (
			q          model.Questionnaire
			rawAnswers []byte
			user       model.User
			status     model.SubmissionStatus
		)
		err := rows.Scan(
			&q.ID, &q.UserID, &q.FacultyID, &q.TemplateID, &rawAnswers, &q.SubmittedAt,
			&user.TelegramID, &user.FirstName, &user.SecondName, &user.Surname,
			&status,
		)
		if err != nil {
			return nil, fmt.Errorf("scan questionnaire row: %w", err)
		}
		if err := json.Unmarshal(rawAnswers, &q.Answers); err != nil {
			return nil, fmt.Errorf("decode answers: %w", err)
		}
		submissions = append(submissions, &SubmissionRow{
			Questionnaire: &q,
			UserName:      user.FullName(),
			TelegramID:    user.TelegramID,
			Status:        status,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questionnaires: %w", err)
	}

	return submissions, nil
}

// GetProgress получает прогресс участника на этапе
func (r *QuestionnaireRepository) GetProgress(ctx context.Context, userID, facultyID int64, stage model.StageType) (*model.UserProgress, error) {
	query := `
		SELECT id, user_id, faculty_id, stage_type, status, submitted_at, approved_at
		FROM user_progress
		WHERE user_id = $1 AND faculty_id = $2 AND stage_type = $3
	`

	var p model.UserProgress
	err := r.pool.QueryRow(ctx, query, userID, facultyID, stage).Scan(
		&p.ID, &p.UserID, &p.FacultyID, &p.StageType, &p.Status, &p.SubmittedAt, &p.ApprovedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user progress: %w", err)
	}

	return &p, nil
}
