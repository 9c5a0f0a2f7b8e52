package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/studsovet/selection_api/internal/model"
)

// DraftStore — подмножество команд Redis, нужных черновикам
type DraftStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// DraftService хранит черновики анкет в Redis с TTL.
// Ключ: draft:questionnaire:{telegram_id}:{faculty_id}.
// Сохранение — upsert, последняя запись побеждает (автосохранение).
type DraftService struct {
	redis DraftStore
	ttl   time.Duration
}

func NewDraftService(redis DraftStore, ttl time.Duration) *DraftService {
	return &DraftService{redis: redis, ttl: ttl}
}

func draftKey(telegramID, facultyID int64) string {
	return fmt.Sprintf("draft:questionnaire:%d:%d", telegramID, facultyID)
}

// Save сохраняет черновик, обновляя TTL
func (s *DraftService) Save(ctx context.Context, telegramID, facultyID, templateID int64, answers map[string]any) error {
	draft := model.Draft{
		TemplateID: templateID,
		Answers:    answers,
		UpdatedAt:  time.Now().UTC(),
	}

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}

	if err := s.redis.Set(ctx, draftKey(telegramID, facultyID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}

	return nil
}

// Get возвращает черновик с оставшимся TTL, nil если черновика нет
func (s *DraftService) Get(ctx context.Context, telegramID, facultyID int64) (*model.Draft, error) {
	key := draftKey(telegramID, facultyID)

	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}

	var draft model.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}

	ttl, err := s.redis.TTL(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("get draft ttl: %w", err)
	}
	if ttl > 0 {
		draft.TTLSeconds = int64(ttl.Seconds())
	}

	return &draft, nil
}

// Delete удаляет черновик (после успешной отправки анкеты).
// Отсутствие черновика — не ошибка.
func (s *DraftService) Delete(ctx context.Context, telegramID, facultyID int64) (bool, error) {
	deleted, err := s.redis.Del(ctx, draftKey(telegramID, facultyID)).Result()
	if err != nil {
		return false, fmt.Errorf("delete draft: %w", err)
	}

	return deleted > 0, nil
}
