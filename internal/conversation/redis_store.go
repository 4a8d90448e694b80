package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	stateKeyPrefix      = "leadchat:state:"
	transcriptKeyPrefix = "leadchat:transcript:"
)

// RedisSessionStore keeps conversation state in Redis so sessions
// survive reconnects and rolling deploys.
type RedisSessionStore struct {
	redis       *redis.Client
	tracer      trace.Tracer
	ttl         time.Duration
	maxMessages int64
}

func NewRedisSessionStore(redisClient *redis.Client, ttl time.Duration) *RedisSessionStore {
	if redisClient == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisSessionStore{
		redis:       redisClient,
		tracer:      otel.Tracer("leadchat.internal.conversation.session_store"),
		ttl:         ttl,
		maxMessages: 250,
	}
}

func (s *RedisSessionStore) SaveState(ctx context.Context, sessionID string, snap StateSnapshot) error {
	if s == nil || s.redis == nil {
		return nil
	}
	if sessionID == "" {
		return errors.New("conversation: sessionID required")
	}
	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("conversation: marshal session state: %w", err)
	}

	ctx, span := s.tracer.Start(ctx, "conversation.session_store.save_state")
	defer span.End()

	if err := s.redis.Set(ctx, stateKeyPrefix+sessionID, data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: save session state: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) LoadState(ctx context.Context, sessionID string) (StateSnapshot, bool, error) {
	if s == nil || s.redis == nil {
		return StateSnapshot{}, false, nil
	}
	if sessionID == "" {
		return StateSnapshot{}, false, errors.New("conversation: sessionID required")
	}

	ctx, span := s.tracer.Start(ctx, "conversation.session_store.load_state")
	defer span.End()

	raw, err := s.redis.Get(ctx, stateKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return StateSnapshot{}, false, nil
		}
		span.RecordError(err)
		return StateSnapshot{}, false, fmt.Errorf("conversation: load session state: %w", err)
	}

	var snap StateSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		span.RecordError(err)
		return StateSnapshot{}, false, fmt.Errorf("conversation: decode session state: %w", err)
	}
	return snap, true, nil
}

func (s *RedisSessionStore) AppendMessage(ctx context.Context, sessionID string, msg Message) error {
	if s == nil || s.redis == nil {
		return nil
	}
	if sessionID == "" {
		return errors.New("conversation: sessionID required")
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("conversation: marshal transcript message: %w", err)
	}

	ctx, span := s.tracer.Start(ctx, "conversation.session_store.append_message")
	defer span.End()

	key := transcriptKeyPrefix + sessionID
	pipe := s.redis.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.ttl)
	if s.maxMessages > 0 {
		pipe.LTrim(ctx, key, -s.maxMessages, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: append transcript message: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) ListMessages(ctx context.Context, sessionID string, limit int64) ([]Message, error) {
	if s == nil || s.redis == nil {
		return nil, nil
	}
	if sessionID == "" {
		return nil, errors.New("conversation: sessionID required")
	}

	ctx, span := s.tracer.Start(ctx, "conversation.session_store.list_messages")
	defer span.End()

	start := int64(0)
	if limit > 0 {
		start = -limit
	}

	raw, err := s.redis.LRange(ctx, transcriptKeyPrefix+sessionID, start, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Message{}, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: list transcript: %w", err)
	}

	out := make([]Message, 0, len(raw))
	for _, item := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			// Skip entries written by incompatible versions.
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

func (s *RedisSessionStore) Clear(ctx context.Context, sessionID string) error {
	if s == nil || s.redis == nil {
		return nil
	}
	if sessionID == "" {
		return errors.New("conversation: sessionID required")
	}

	ctx, span := s.tracer.Start(ctx, "conversation.session_store.clear")
	defer span.End()

	if err := s.redis.Del(ctx, stateKeyPrefix+sessionID, transcriptKeyPrefix+sessionID).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: clear session: %w", err)
	}
	return nil
}
