package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studsovet/selection_api/internal/apperr"
	"github.com/studsovet/selection_api/internal/model"
)

type questionnaireFixture struct {
	svc         *QuestionnaireService
	store       *memStore
	faculties   *memFaculties
	drafts      *memDrafts
	submissions *memSubmissions
}

func newQuestionnaireFixture(stageStatus model.StageStatus) *questionnaireFixture {
	store := newMemStore()
	store.addUser(100, 1)

	faculties := newMemFaculties(&model.Faculty{
		ID:           1,
		Name:         "Медиа",
		CurrentStage: model.StageQuestionnaire,
		StageStatus:  stageStatus,
	})
	templates := &memTemplates{templates: []*model.StageTemplate{{
		ID:        1,
		FacultyID: 1,
		StageType: model.StageQuestionnaire,
		IsActive:  true,
	}}}
	drafts := newMemDrafts()
	submissions := newMemSubmissions()

	svc := NewQuestionnaireService(store, faculties, templates, submissions, drafts, testLogger())
	return &questionnaireFixture{
		svc:         svc,
		store:       store,
		faculties:   faculties,
		drafts:      drafts,
		submissions: submissions,
	}
}

func TestGetForm(t *testing.T) {
	fx := newQuestionnaireFixture(model.StageStatusOpen)

	form, err := fx.svc.GetForm(context.Background(), 100, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), form.Template.ID)
	assert.True(t, form.CanSubmit)
	assert.Nil(t, form.Draft)
}

func TestGetFormUnknownFaculty(t *testing.T) {
	fx := newQuestionnaireFixture(model.StageStatusOpen)

	_, err := fx.svc.GetForm(context.Background(), 100, 42)
	assert.True(t, apperr.IsNotFound(err))
}

func TestSaveDraftOverwrites(t *testing.T) {
	fx := newQuestionnaireFixture(model.StageStatusOpen)
	ctx := context.Background()

	require.NoError(t, fx.svc.SaveDraft(ctx, 100, 1, 1, map[string]any{"name": "Ivan"}))
	require.NoError(t, fx.svc.SaveDraft(ctx, 100, 1, 1, map[string]any{"name": "Petr"}))

	form, err := fx.svc.GetForm(ctx, 100, 1)
	require.NoError(t, err)
	require.NotNil(t, form.Draft)
	assert.Equal(t, "Petr", form.Draft.Answers["name"])
}

func TestSaveDraftWrongTemplate(t *testing.T) {
	fx := newQuestionnaireFixture(model.StageStatusOpen)

	err := fx.svc.SaveDraft(context.Background(), 100, 1, 42, map[string]any{})
	assert.True(t, apperr.IsValidation(err))
}

func TestSubmitDeletesDraft(t *testing.T) {
	fx := newQuestionnaireFixture(model.StageStatusOpen)
	ctx := context.Background()

	require.NoError(t, fx.svc.SaveDraft(ctx, 100, 1, 1, map[string]any{"name": "Ivan"}))

	q, err := fx.svc.Submit(ctx, 100, 1, 1, map[string]any{})
	require.NoError(t, err)
	assert.NotZero(t, q.ID)

	draft, err := fx.drafts.Get(ctx, 100, 1)
	require.NoError(t, err)
	assert.Nil(t, draft)
}

func TestSubmitTwiceConflict(t *testing.T) {
	fx := newQuestionnaireFixture(model.StageStatusOpen)
	ctx := context.Background()

	first, err := fx.svc.Submit(ctx, 100, 1, 1, map[string]any{})
	require.NoError(t, err)

	_, err = fx.svc.Submit(ctx, 100, 1, 1, map[string]any{})
	assert.True(t, apperr.IsConflict(err))

	// Ответы первой отправки не затронуты
	stored, err := fx.submissions.GetByUserAndFaculty(ctx, first.UserID, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
}

func TestSubmitStageClosed(t *testing.T) {
	fx := newQuestionnaireFixture(model.StageStatusClosed)

	_, err := fx.svc.Submit(context.Background(), 100, 1, 1, map[string]any{})
	assert.True(t, apperr.IsValidation(err))
}

func TestSubmitOutdatedTemplate(t *testing.T) {
	fx := newQuestionnaireFixture(model.StageStatusOpen)

	_, err := fx.svc.Submit(context.Background(), 100, 1, 42, map[string]any{})
	assert.True(t, apperr.IsValidation(err))
}

func TestSubmitInvalidAnswers(t *testing.T) {
	fx := newQuestionnaireFixture(model.StageStatusOpen)

	_, err := fx.svc.Submit(context.Background(), 100, 1, 1, map[string]any{"ghost": "boo"})
	assert.True(t, apperr.IsValidation(err))
}

func TestStatus(t *testing.T) {
	fx := newQuestionnaireFixture(model.StageStatusOpen)
	ctx := context.Background()

	status, _, err := fx.svc.Status(ctx, 100, 1)
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionNotStarted, status.UserStatus)
	assert.True(t, status.CanSubmit)
	assert.False(t, status.HasDraft)

	require.NoError(t, fx.svc.SaveDraft(ctx, 100, 1, 1, map[string]any{"name": "Ivan"}))
	_, err = fx.svc.Submit(ctx, 100, 1, 1, map[string]any{})
	require.NoError(t, err)

	status, progress, err := fx.svc.Status(ctx, 100, 1)
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionSubmitted, status.UserStatus)
	assert.False(t, status.CanSubmit)
	assert.False(t, status.HasDraft)
	require.NotNil(t, progress)
}

func TestCreateTemplate(t *testing.T) {
	faculties := newMemFaculties(&model.Faculty{ID: 1, CurrentStage: model.StageQuestionnaire})
	templates := &memTemplates{}
	svc := NewQuestionnaireService(newMemStore(), faculties, templates, newMemSubmissions(), newMemDrafts(), testLogger())
	ctx := context.Background()
	actor := &model.Administrator{ID: 5, FacultyID: 1, Role: model.RoleHeadAdmin}

	questions := []model.Question{
		{ID: "name", Text: "Как вас зовут?", Type: model.QuestionText, Required: true},
	}

	first, err := svc.CreateTemplate(ctx, actor, 1, questions)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	assert.True(t, first.IsActive)
	require.NotNil(t, first.CreatedBy)
	assert.Equal(t, int64(5), *first.CreatedBy)

	// Новая версия деактивирует предыдущую
	second, err := svc.CreateTemplate(ctx, actor, 1, questions)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)
	assert.False(t, first.IsActive)

	active, err := templates.GetActive(ctx, 1, model.StageQuestionnaire)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	_, err = svc.CreateTemplate(ctx, actor, 1, nil)
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.CreateTemplate(ctx, actor, 42, questions)
	assert.True(t, apperr.IsNotFound(err))
}
