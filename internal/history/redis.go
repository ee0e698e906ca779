package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "studyquiz:"

// RedisLedger stores attempts as JSON list entries so several server
// instances can share one history.
//
// Keys: <prefix>attempts:<quizID> (list), <prefix>seq:<quizID> (counter),
// <prefix>quizzes (set of quiz ids).
type RedisLedger struct {
	client *redis.Client
	prefix string
}

// NewRedisLedger wraps a connected client. An empty prefix uses "studyquiz:".
func NewRedisLedger(client *redis.Client, prefix string) *RedisLedger {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisLedger{client: client, prefix: prefix}
}

func (r *RedisLedger) Append(ctx context.Context, a Attempt) (Attempt, error) {
	n, err := r.client.Incr(ctx, r.seqKey(a.QuizID)).Result()
	if err != nil {
		return Attempt{}, fmt.Errorf("redis ledger: next attempt number: %w", err)
	}
	a = a.clone()
	a.AttemptNumber = int(n)
	data, err := json.Marshal(a)
	if err != nil {
		return Attempt{}, fmt.Errorf("redis ledger: marshal attempt: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, r.listKey(a.QuizID), data)
		p.SAdd(ctx, r.setKey(), a.QuizID)
		return nil
	})
	if err != nil {
		return Attempt{}, fmt.Errorf("redis ledger: append: %w", err)
	}
	return a, nil
}

func (r *RedisLedger) Attempts(ctx context.Context, quizID string) ([]Attempt, error) {
	raw, err := r.client.LRange(ctx, r.listKey(quizID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis ledger: list attempts: %w", err)
	}
	out := make([]Attempt, 0, len(raw))
	for _, item := range raw {
		var a Attempt
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			return nil, fmt.Errorf("redis ledger: decode attempt: %w", err)
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *RedisLedger) QuizIDs(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, r.setKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis ledger: list quizzes: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *RedisLedger) Clear(ctx context.Context, quizID string) error {
	ids := []string{quizID}
	if quizID == "" {
		var err error
		if ids, err = r.QuizIDs(ctx); err != nil {
			return err
		}
	}
	if len(ids) == 0 {
		return nil
	}
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, id := range ids {
			p.Del(ctx, r.listKey(id), r.seqKey(id))
			p.SRem(ctx, r.setKey(), id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis ledger: clear: %w", err)
	}
	return nil
}

func (r *RedisLedger) listKey(quizID string) string { return r.prefix + "attempts:" + quizID }
func (r *RedisLedger) seqKey(quizID string) string  { return r.prefix + "seq:" + quizID }
func (r *RedisLedger) setKey() string               { return r.prefix + "quizzes" }
