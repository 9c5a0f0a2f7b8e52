package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageTypeNext(t *testing.T) {
	next, ok := StageQuestionnaire.Next()
	require.True(t, ok)
	assert.Equal(t, StageVideo, next)

	next, ok = StageVideo.Next()
	require.True(t, ok)
	assert.Equal(t, StageInterview, next)

	next, ok = StageInterview.Next()
	require.True(t, ok)
	assert.Equal(t, StageDone, next)

	_, ok = StageDone.Next()
	assert.False(t, ok)
}

func TestOpenStage(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	f := &Faculty{CurrentStage: StageQuestionnaire, StageStatus: StageStatusNotStarted}
	require.NoError(t, f.OpenStage(now))
	assert.Equal(t, StageStatusOpen, f.StageStatus)
	require.NotNil(t, f.StageOpenedAt)
	assert.Equal(t, now, *f.StageOpenedAt)

	// Повторное открытие уже открытого этапа запрещено
	assert.Error(t, f.OpenStage(now))

	// Закрытый этап можно открыть снова
	require.NoError(t, f.CloseStage())
	assert.NoError(t, f.OpenStage(now))
}

func TestCloseStage(t *testing.T) {
	f := &Faculty{CurrentStage: StageVideo, StageStatus: StageStatusNotStarted}
	assert.Error(t, f.CloseStage())

	f.StageStatus = StageStatusOpen
	require.NoError(t, f.CloseStage())
	assert.Equal(t, StageStatusClosed, f.StageStatus)
}

func TestAdvanceStage(t *testing.T) {
	f := &Faculty{CurrentStage: StageQuestionnaire, StageStatus: StageStatusOpen}

	// Открытый этап нельзя перескочить
	require.Error(t, f.AdvanceStage())
	assert.Equal(t, StageQuestionnaire, f.CurrentStage)

	f.StageStatus = StageStatusClosed
	require.NoError(t, f.AdvanceStage())
	assert.Equal(t, StageVideo, f.CurrentStage)
	assert.Equal(t, StageStatusNotStarted, f.StageStatus)
	assert.Nil(t, f.StageOpenedAt)

	f.StageStatus = StageStatusCompleted
	require.NoError(t, f.AdvanceStage())
	assert.Equal(t, StageInterview, f.CurrentStage)

	f.StageStatus = StageStatusClosed
	require.NoError(t, f.AdvanceStage())
	assert.Equal(t, StageDone, f.CurrentStage)

	// Финальный этап — дальше некуда
	f.StageStatus = StageStatusClosed
	assert.Error(t, f.AdvanceStage())
}

func TestStageIsOpen(t *testing.T) {
	f := &Faculty{CurrentStage: StageVideo, StageStatus: StageStatusOpen}
	assert.True(t, f.StageIsOpen(StageVideo))
	assert.False(t, f.StageIsOpen(StageQuestionnaire))

	f.StageStatus = StageStatusClosed
	assert.False(t, f.StageIsOpen(StageVideo))
}
