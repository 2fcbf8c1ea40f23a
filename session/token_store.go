package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrTokenNotFound = errors.New("token not found")

// TokenStore 不透明 bearer token；Redis 里只存 sha256 摘要
type TokenStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// ttl 为 0 表示 token 不过期，只能靠 logout 撤销
func NewTokenStore(rdb *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{rdb: rdb, ttl: ttl}
}

type AccessToken struct {
	UserID   uint  `json:"uid"`
	IssuedAt int64 `json:"iat"`
}

func key(digest string) string { return fmt.Sprintf("api:token:%s", digest) }

func userSetKey(userID uint) string {
	return "api:user_tokens:" + strconv.FormatUint(uint64(userID), 10)
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Issue 新发一个 token；同一用户已有的 token 不受影响
func (s *TokenStore) Issue(ctx context.Context, userID uint) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(AccessToken{UserID: userID, IssuedAt: time.Now().Unix()})
	if err != nil {
		return "", err
	}
	d := digest(token)
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key(d), b, s.ttl)
		pipe.SAdd(ctx, userSetKey(userID), d)
		if s.ttl > 0 {
			pipe.Expire(ctx, userSetKey(userID), s.ttl)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

func (s *TokenStore) Lookup(ctx context.Context, token string) (*AccessToken, error) {
	if token == "" {
		return nil, ErrTokenNotFound
	}
	b, err := s.rdb.Get(ctx, key(digest(token))).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	var at AccessToken
	if err := json.Unmarshal(b, &at); err != nil {
		return nil, err
	}
	return &at, nil
}

func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	at, err := s.Lookup(ctx, token)
	if errors.Is(err, ErrTokenNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	d := digest(token)
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key(d))
		pipe.SRem(ctx, userSetKey(at.UserID), d)
		return nil
	})
	return err
}

// RevokeAllForUser 删除该用户的全部 token；没有 token 时也返回 nil
func (s *TokenStore) RevokeAllForUser(ctx context.Context, userID uint) error {
	digests, err := s.rdb.SMembers(ctx, userSetKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, d := range digests {
			pipe.Del(ctx, key(d))
		}
		pipe.Del(ctx, userSetKey(userID))
		return nil
	})
	return err
}
