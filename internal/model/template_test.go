package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTemplate() *StageTemplate {
	maxLen := 10
	minVal := 1.0
	maxVal := 6.0
	return &StageTemplate{
		ID:        1,
		FacultyID: 1,
		StageType: StageQuestionnaire,
		Questions: []Question{
			{ID: "name", Type: QuestionText, Required: true, MaxLength: &maxLen},
			{ID: "course", Type: QuestionNumber, Required: true, MinValue: &minVal, MaxValue: &maxVal},
			{ID: "track", Type: QuestionChoice, Options: []QuestionOption{
				{Value: "media", Label: "Медиа"},
				{Value: "events", Label: "Мероприятия"},
			}},
			{ID: "interests", Type: QuestionMultipleChoice, Options: []QuestionOption{
				{Value: "music", Label: "Музыка"},
				{Value: "sport", Label: "Спорт"},
			}},
		},
	}
}

func TestValidateAnswersOK(t *testing.T) {
	tmpl := testTemplate()
	err := tmpl.ValidateAnswers(map[string]any{
		"name":      "Ivan",
		"course":    float64(2),
		"track":     "media",
		"interests": []any{"music", "sport"},
	})
	assert.NoError(t, err)
}

func TestValidateAnswersOptionalMayBeOmitted(t *testing.T) {
	tmpl := testTemplate()
	err := tmpl.ValidateAnswers(map[string]any{
		"name":   "Ivan",
		"course": float64(3),
	})
	assert.NoError(t, err)
}

func TestValidateAnswersRequiredMissing(t *testing.T) {
	tmpl := testTemplate()
	err := tmpl.ValidateAnswers(map[string]any{"course": float64(2)})

	var vErr *AnswerValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "answer is required", vErr.Fields["name"])
}

func TestValidateAnswersEmptyStringIsMissing(t *testing.T) {
	tmpl := testTemplate()
	err := tmpl.ValidateAnswers(map[string]any{"name": "   ", "course": float64(2)})

	var vErr *AnswerValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "name")
}

func TestValidateAnswersConstraints(t *testing.T) {
	tmpl := testTemplate()
	err := tmpl.ValidateAnswers(map[string]any{
		"name":      "очень длинное имя длиннее лимита",
		"course":    float64(7),
		"track":     "unknown",
		"interests": []any{"music", "chess"},
	})

	var vErr *AnswerValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Fields, 4)
	assert.Contains(t, vErr.Fields["name"], "longer than")
	assert.Contains(t, vErr.Fields["course"], "above maximum")
	assert.Equal(t, "unknown option", vErr.Fields["track"])
	assert.Equal(t, "unknown option", vErr.Fields["interests"])
}

func TestValidateAnswersWrongTypes(t *testing.T) {
	tmpl := testTemplate()
	err := tmpl.ValidateAnswers(map[string]any{
		"name":   float64(5),
		"course": "two",
	})

	var vErr *AnswerValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "expected text", vErr.Fields["name"])
	assert.Equal(t, "expected number", vErr.Fields["course"])
}

func TestValidateAnswersUnknownQuestion(t *testing.T) {
	tmpl := testTemplate()
	err := tmpl.ValidateAnswers(map[string]any{
		"name":   "Ivan",
		"course": float64(2),
		"extra":  "surprise",
	})

	var vErr *AnswerValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "unknown question", vErr.Fields["extra"])
}

func TestDefaultSlotTimes(t *testing.T) {
	times := DefaultSlotTimes()
	require.Len(t, times, 13)
	assert.Equal(t, "10:00", times[0])
	assert.Equal(t, "22:00", times[len(times)-1])
}

func TestAvailablePlaces(t *testing.T) {
	slot := &TimeSlot{MaxParticipants: 3, CurrentParticipants: 1}
	assert.Equal(t, 2, slot.AvailablePlaces())

	slot.CurrentParticipants = 3
	assert.Equal(t, 0, slot.AvailablePlaces())

	// Урезание лимита ниже текущих записей не даёт отрицательных мест
	slot.MaxParticipants = 1
	assert.Equal(t, 0, slot.AvailablePlaces())
}

func TestValidateQuestions(t *testing.T) {
	valid := []Question{
		{ID: "name", Text: "Как вас зовут?", Type: QuestionText, Required: true},
		{ID: "track", Text: "Направление", Type: QuestionChoice, Options: []QuestionOption{{Value: "media", Label: "Медиа"}}},
	}
	require.NoError(t, ValidateQuestions(valid))

	assert.Error(t, ValidateQuestions(nil))

	minVal := 6.0
	maxVal := 1.0

	cases := map[string][]Question{
		"empty id": {
			{ID: " ", Text: "Вопрос", Type: QuestionText},
		},
		"duplicate id": {
			{ID: "name", Text: "Вопрос", Type: QuestionText},
			{ID: "name", Text: "Ещё вопрос", Type: QuestionText},
		},
		"empty text": {
			{ID: "name", Text: "", Type: QuestionText},
		},
		"unknown type": {
			{ID: "name", Text: "Вопрос", Type: "date"},
		},
		"choice without options": {
			{ID: "track", Text: "Направление", Type: QuestionChoice},
		},
		"min above max": {
			{ID: "course", Text: "Курс", Type: QuestionNumber, MinValue: &minVal, MaxValue: &maxVal},
		},
	}
	for name, questions := range cases {
		assert.Error(t, ValidateQuestions(questions), name)
	}
}
