package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"studio/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// サーバー側セッション。cookieのJWTに入るsidがキー。
type Session struct {
	UserID int64      `json:"user_id"`
	Role   model.Role `json:"role"`
	//executorプロフィール持ちのみ非nil
	ExecutorID *int64    `json:"executor_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// セッションの保存・取得・破棄の約束。
type Store interface {
	Save(ctx context.Context, sid string, s Session, ttl time.Duration) error
	Find(ctx context.Context, sid string) (Session, error)
	Delete(ctx context.Context, sid string) error
	//ユーザーの全セッションを破棄（パスワード変更時など）
	DeleteAllForUser(ctx context.Context, userID int64) error
}

type RedisStore struct {
	client *redis.Client
}

// 接続テスト込みでRedisストアを作る。
func NewRedisStore(ctx context.Context, addr, password string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func sessionKey(sid string) string {
	return "session:" + sid
}

func userSessionsKey(userID int64) string {
	return fmt.Sprintf("user_sessions:%d", userID)
}

func (s *RedisStore) Save(ctx context.Context, sid string, sess Session, ttl time.Duration) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(sid), raw, ttl)
	//逆引き用のセット。TTLはセッションより少し長めに。
	pipe.SAdd(ctx, userSessionsKey(sess.UserID), sid)
	pipe.Expire(ctx, userSessionsKey(sess.UserID), ttl+time.Hour)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Find(ctx context.Context, sid string) (Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(sid)).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, err
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	sess, err := s.Find(ctx, sid)
	if err == nil {
		s.client.SRem(ctx, userSessionsKey(sess.UserID), sid)
	}
	return s.client.Del(ctx, sessionKey(sid)).Err()
}

// ユーザーの全セッションを破棄する。
func (s *RedisStore) DeleteAllForUser(ctx context.Context, userID int64) error {
	sids, err := s.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	for _, sid := range sids {
		if err := s.client.Del(ctx, sessionKey(sid)).Err(); err != nil {
			return err
		}
	}
	return s.client.Del(ctx, userSessionsKey(userID)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
