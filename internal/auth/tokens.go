package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

// TokenStore keeps the server-side halves of the auth flows in redis:
// refresh tokens (rotated on use), password-reset tokens and email-verify
// tokens (both single-use).
type TokenStore struct {
	rdb    *redis.Client
	tracer trace.Tracer
}

func NewTokenStore(rdb *redis.Client, tracer trace.Tracer) *TokenStore {
	if rdb == nil {
		panic("auth: nil redis client")
	}
	return &TokenStore{rdb: rdb, tracer: tracer}
}

// NewOpaqueToken returns a 256-bit hex token.
func NewOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth: token entropy: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (s *TokenStore) span(ctx context.Context, name string) (context.Context, trace.Span) {
	if s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name)
}

// SaveRefresh binds an opaque refresh token to a user for ttl.
func (s *TokenStore) SaveRefresh(ctx context.Context, token, userID string, ttl time.Duration) error {
	ctx, span := s.span(ctx, "auth.SaveRefresh")
	defer span.End()
	if err := s.rdb.Set(ctx, refreshKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("auth: save refresh: %w", err)
	}
	return nil
}

// ConsumeRefresh atomically takes a refresh token out of circulation and
// returns its user, "" when the token is unknown or already used. The
// delete-on-read is what makes rotation safe.
func (s *TokenStore) ConsumeRefresh(ctx context.Context, token string) (string, error) {
	ctx, span := s.span(ctx, "auth.ConsumeRefresh")
	defer span.End()
	userID, err := s.rdb.GetDel(ctx, refreshKey(token)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("auth: consume refresh: %w", err)
	}
	return userID, nil
}

// RevokeRefresh drops a refresh token. Revoking an unknown token is a no-op.
func (s *TokenStore) RevokeRefresh(ctx context.Context, token string) error {
	ctx, span := s.span(ctx, "auth.RevokeRefresh")
	defer span.End()
	if err := s.rdb.Del(ctx, refreshKey(token)).Err(); err != nil {
		return fmt.Errorf("auth: revoke refresh: %w", err)
	}
	return nil
}

// SaveReset binds a password-reset token to a user for ttl.
func (s *TokenStore) SaveReset(ctx context.Context, token, userID string, ttl time.Duration) error {
	ctx, span := s.span(ctx, "auth.SaveReset")
	defer span.End()
	if err := s.rdb.Set(ctx, resetKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("auth: save reset: %w", err)
	}
	return nil
}

// ConsumeReset takes a reset token out of circulation and returns its user,
// "" when unknown or already used.
func (s *TokenStore) ConsumeReset(ctx context.Context, token string) (string, error) {
	ctx, span := s.span(ctx, "auth.ConsumeReset")
	defer span.End()
	userID, err := s.rdb.GetDel(ctx, resetKey(token)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("auth: consume reset: %w", err)
	}
	return userID, nil
}

// SaveVerify binds an email-verification token to a user for ttl.
func (s *TokenStore) SaveVerify(ctx context.Context, token, userID string, ttl time.Duration) error {
	ctx, span := s.span(ctx, "auth.SaveVerify")
	defer span.End()
	if err := s.rdb.Set(ctx, verifyKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("auth: save verify: %w", err)
	}
	return nil
}

// ConsumeVerify takes a verification token out of circulation and returns its
// user, "" when unknown or already used.
func (s *TokenStore) ConsumeVerify(ctx context.Context, token string) (string, error) {
	ctx, span := s.span(ctx, "auth.ConsumeVerify")
	defer span.End()
	userID, err := s.rdb.GetDel(ctx, verifyKey(token)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("auth: consume verify: %w", err)
	}
	return userID, nil
}

func refreshKey(token string) string { return "auth:refresh:" + token }
func resetKey(token string) string   { return "auth:reset:" + token }
func verifyKey(token string) string  { return "auth:verify:" + token }
