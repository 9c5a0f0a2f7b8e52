package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// QuestionType — тип вопроса анкеты
type QuestionType string

const (
	QuestionText           QuestionType = "text"
	QuestionChoice         QuestionType = "choice"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionNumber         QuestionType = "number"
)

type QuestionOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Question — один вопрос шаблона анкеты с ограничениями по типу
type Question struct {
	ID        string           `json:"id"`
	Text      string           `json:"text"`
	Type      QuestionType     `json:"type"`
	Required  bool             `json:"required"`
	Order     int              `json:"order"`
	Options   []QuestionOption `json:"options,omitempty"`
	MaxLength *int             `json:"max_length,omitempty"`
	MinValue  *float64         `json:"min_value,omitempty"`
	MaxValue  *float64         `json:"max_value,omitempty"`
}

// StageTemplate — шаблон вопросов этапа, создаётся админом факультета.
// Вопросы хранятся в JSONB, один активный шаблон на факультет и этап.
type StageTemplate struct {
	ID        int64      `json:"id"`
	FacultyID int64      `json:"faculty_id"`
	StageType StageType  `json:"stage_type"`
	Version   int        `json:"version"`
	Questions []Question `json:"questions"`
	IsActive  bool       `json:"is_active"`
	CreatedBy *int64     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
}

// AnswerValidationError перечисляет поля с ошибками валидации ответов
type AnswerValidationError struct {
	Fields map[string]string
}

func (e *AnswerValidationError) Error() string {
	ids := make([]string, 0, len(e.Fields))
	for id := range e.Fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id+": "+e.Fields[id])
	}
	return "invalid answers: " + strings.Join(parts, "; ")
}

// ValidateAnswers проверяет ответы против ограничений шаблона:
// обязательность, тип значения, max_length, min/max_value, варианты выбора.
func (t *StageTemplate) ValidateAnswers(answers map[string]any) error {
	fields := make(map[string]string)

	for _, q := range t.Questions {
		raw, ok := answers[q.ID]
		if !ok || isEmptyAnswer(raw) {
			if q.Required {
				fields[q.ID] = "answer is required"
			}
			continue
		}
		if msg := q.validateAnswer(raw); msg != "" {
			fields[q.ID] = msg
		}
	}

	// Ответы на несуществующие вопросы отклоняем целиком
	for id := range answers {
		if t.question(id) == nil {
			fields[id] = "unknown question"
		}
	}

	if len(fields) > 0 {
		return &AnswerValidationError{Fields: fields}
	}
	return nil
}

// ValidateQuestions проверяет список вопросов перед сохранением шаблона:
// уникальные непустые ID, известные типы, варианты для вопросов с выбором.
func ValidateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("template must contain at least one question")
	}

	seen := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		if strings.TrimSpace(q.ID) == "" {
			return fmt.Errorf("question %d: empty id", i)
		}
		if _, ok := seen[q.ID]; ok {
			return fmt.Errorf("question %q: duplicate id", q.ID)
		}
		seen[q.ID] = struct{}{}

		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("question %q: empty text", q.ID)
		}

		switch q.Type {
		case QuestionText, QuestionNumber:
		case QuestionChoice, QuestionMultipleChoice:
			if len(q.Options) == 0 {
				return fmt.Errorf("question %q: choice question needs options", q.ID)
			}
		default:
			return fmt.Errorf("question %q: unknown type %q", q.ID, q.Type)
		}

		if q.MinValue != nil && q.MaxValue != nil && *q.MinValue > *q.MaxValue {
			return fmt.Errorf("question %q: min_value greater than max_value", q.ID)
		}
	}

	return nil
}

func (t *StageTemplate) question(id string) *Question {
	for i := range t.Questions {
		if t.Questions[i].ID == id {
			return &t.Questions[i]
		}
	}
	return nil
}

func (q *Question) validateAnswer(raw any) string {
	switch q.Type {
	case QuestionText:
		s, ok := raw.(string)
		if !ok {
			return "expected text"
		}
		if q.MaxLength != nil && len([]rune(s)) > *q.MaxLength {
			return fmt.Sprintf("text longer than %d characters", *q.MaxLength)
		}
	case QuestionChoice:
		s, ok := raw.(string)
		if !ok {
			return "expected option value"
		}
		if !q.hasOption(s) {
			return "unknown option"
		}
	case QuestionMultipleChoice:
		values, ok := raw.([]any)
		if !ok {
			return "expected list of option values"
		}
		for _, v := range values {
			s, ok := v.(string)
			if !ok || !q.hasOption(s) {
				return "unknown option"
			}
		}
	case QuestionNumber:
		// После json.Unmarshal числа приходят как float64
		n, ok := raw.(float64)
		if !ok {
			return "expected number"
		}
		if q.MinValue != nil && n < *q.MinValue {
			return fmt.Sprintf("value below minimum %v", *q.MinValue)
		}
		if q.MaxValue != nil && n > *q.MaxValue {
			return fmt.Sprintf("value above maximum %v", *q.MaxValue)
		}
	default:
		return "unknown question type"
	}
	return ""
}

func (q *Question) hasOption(value string) bool {
	for _, opt := range q.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

func isEmptyAnswer(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	}
	return false
}
