package repository

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"connector-service/internal/models"

	"github.com/goccy/go-json"
	redis_v9 "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	summaryKeyPrefix     = "user:summary:"
	failedLoginKeyPrefix = "login:failed:"
)

// RedisRepo backs the user summary cache and the failed-login counter. A nil
// client turns every method into a no-op.
type RedisRepo struct {
	client *redis_v9.Client
}

func NewRedisRepo(client *redis_v9.Client) *RedisRepo {
	return &RedisRepo{
		client: client,
	}
}

func (r *RedisRepo) GetSummary(ctx context.Context, id bson.ObjectID) (*models.UserSummary, bool) {
	if r.client == nil {
		return nil, false
	}

	raw, err := r.client.Get(ctx, summaryKeyPrefix+id.Hex()).Bytes()
	if err != nil {
		if !errors.Is(err, redis_v9.Nil) {
			log.Printf("error get user summary in cache: %s", err)
		}
		return nil, false
	}

	var summary models.UserSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		log.Printf("error decode cached user summary: %s", err)
		return nil, false
	}
	return &summary, true
}

func (r *RedisRepo) SetSummary(ctx context.Context, summary models.UserSummary, ttl time.Duration) {
	if r.client == nil {
		return
	}

	val, err := json.Marshal(summary)
	if err != nil {
		log.Printf("error encode user summary: %s", err)
		return
	}
	if err := r.client.Set(ctx, summaryKeyPrefix+summary.ID.Hex(), val, ttl).Err(); err != nil {
		log.Printf("error saving user summary to cache: %s", err)
	}
}

func (r *RedisRepo) DeleteSummary(ctx context.Context, id bson.ObjectID) {
	if r.client == nil {
		return
	}
	if err := r.client.Del(ctx, summaryKeyPrefix+id.Hex()).Err(); err != nil {
		log.Printf("error delete user summary in cache: %s", err)
	}
}

func (r *RedisRepo) FailedLogins(ctx context.Context, email string) int64 {
	if r.client == nil {
		return 0
	}

	value, err := r.client.Get(ctx, failedLoginKey(email)).Int64()
	if err != nil {
		if !errors.Is(err, redis_v9.Nil) {
			log.Printf("error get failed login count: %s. Return 0", err)
		}
		return 0
	}
	return value
}

// RecordFailedLogin increments the counter; the window starts at the first failure.
func (r *RedisRepo) RecordFailedLogin(ctx context.Context, email string, window time.Duration) {
	if r.client == nil {
		return
	}

	key := failedLoginKey(email)
	pipe := r.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("error record failed login: %s", err)
	}
}

func (r *RedisRepo) ResetFailedLogins(ctx context.Context, email string) {
	if r.client == nil {
		return
	}
	if err := r.client.Del(ctx, failedLoginKey(email)).Err(); err != nil {
		log.Printf("error reset failed login count: %s", err)
	}
}

func failedLoginKey(email string) string {
	return failedLoginKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}
