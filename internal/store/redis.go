package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rentflow/rentauth/internal/models"
)

const (
	redisIDPrefix    = "refresh:id:"
	redisTokenPrefix = "refresh:token:"
	redisUserPrefix  = "refresh:user:"
)

// RedisStore keeps refresh-token records in Redis. Each record is a hash
// keyed by id, with a token-value index key and a per-user id set. Rotation
// runs under WATCH so concurrent rotations of the same record cannot both
// commit.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) idKey(id string) string       { return redisIDPrefix + id }
func (s *RedisStore) tokenKey(v string) string     { return redisTokenPrefix + v }
func (s *RedisStore) userKey(userID string) string { return redisUserPrefix + userID }

func (s *RedisStore) Add(ctx context.Context, t *models.RefreshToken) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	ok, err := s.client.SetNX(ctx, s.tokenKey(t.Token), t.ID, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrDuplicateToken
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.idKey(t.ID), recordFields(t))
		pipe.SAdd(ctx, s.userKey(t.UserID), t.ID)
		return nil
	})
	return err
}

func (s *RedisStore) GetByToken(ctx context.Context, value string) (*models.RefreshToken, error) {
	id, err := s.client.Get(ctx, s.tokenKey(value)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *RedisStore) GetByID(ctx context.Context, id string) (*models.RefreshToken, error) {
	fields, err := s.client.HGetAll(ctx, s.idKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	return recordFromFields(id, fields)
}

func (s *RedisStore) ListByUser(ctx context.Context, userID string) ([]models.RefreshToken, error) {
	ids, err := s.client.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	tokens := make([]models.RefreshToken, 0, len(ids))
	for _, id := range ids {
		t, err := s.GetByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, *t)
	}
	return tokens, nil
}

func (s *RedisStore) Rotate(ctx context.Context, id, oldValue, newValue string, expiresAt time.Time) error {
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		gotID, err := tx.Get(ctx, s.tokenKey(oldValue)).Result()
		if errors.Is(err, redis.Nil) {
			return ErrConflict
		}
		if err != nil {
			return err
		}
		if gotID != id {
			return ErrConflict
		}

		revoked, err := tx.HGet(ctx, s.idKey(id), "is_revoked").Result()
		if errors.Is(err, redis.Nil) {
			return ErrConflict
		}
		if err != nil {
			return err
		}
		if revoked == "1" {
			return ErrConflict
		}

		exists, err := tx.Exists(ctx, s.tokenKey(newValue)).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return ErrDuplicateToken
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, s.tokenKey(oldValue))
			pipe.Set(ctx, s.tokenKey(newValue), id, 0)
			pipe.HSet(ctx, s.idKey(id),
				"token", newValue,
				"expires_at", formatTime(expiresAt),
				"updated_at", formatTime(time.Now()))
			return nil
		})
		return err
	}, s.tokenKey(oldValue), s.idKey(id))

	if errors.Is(err, redis.TxFailedErr) {
		return ErrConflict
	}
	return err
}

func (s *RedisStore) Revoke(ctx context.Context, id string) error {
	exists, err := s.client.Exists(ctx, s.idKey(id)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}
	return s.client.HSet(ctx, s.idKey(id),
		"is_revoked", "1",
		"updated_at", formatTime(time.Now())).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.idKey(id))
		pipe.Del(ctx, s.tokenKey(t.Token))
		pipe.SRem(ctx, s.userKey(t.UserID), id)
		return nil
	})
	return err
}

func (s *RedisStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	var deleted int64
	iter := s.client.Scan(ctx, 0, redisIDPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		id := iter.Val()[len(redisIDPrefix):]
		t, err := s.GetByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return deleted, err
		}
		if t.ExpiresAt.After(before) {
			continue
		}
		if err := s.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
			return deleted, err
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, err
	}
	return deleted, nil
}

func recordFields(t *models.RefreshToken) map[string]interface{} {
	revoked := "0"
	if t.IsRevoked {
		revoked = "1"
	}
	return map[string]interface{}{
		"user_id":    t.UserID,
		"token":      t.Token,
		"expires_at": formatTime(t.ExpiresAt),
		"is_revoked": revoked,
		"created_at": formatTime(t.CreatedAt),
		"updated_at": formatTime(t.UpdatedAt),
	}
}

func recordFromFields(id string, fields map[string]string) (*models.RefreshToken, error) {
	expiresAt, err := parseTime(fields["expires_at"])
	if err != nil {
		return nil, err
	}
	createdAt, err := parseTime(fields["created_at"])
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTime(fields["updated_at"])
	if err != nil {
		return nil, err
	}

	return &models.RefreshToken{
		ID:        id,
		UserID:    fields["user_id"],
		Token:     fields["token"],
		ExpiresAt: expiresAt,
		IsRevoked: fields["is_revoked"] == "1",
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func formatTime(t time.Time) string {
	return strconv.FormatInt(t.UnixNano(), 10)
}

func parseTime(v string) (time.Time, error) {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, n), nil
}
