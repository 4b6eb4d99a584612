package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserNameKeyPrefix  = "user:name:%s"
	CampOwnerKeyPrefix = "camp:owner:%d"
	RevokedTokenPrefix = "blacklist:%s"
)

const (
	UserTTL = 5 * time.Minute
	CampTTL = 10 * time.Minute
)

func UserNameKey(username string) string {
	return fmt.Sprintf(UserNameKeyPrefix, username)
}

func CampOwnerKey(ownerID uint) string {
	return fmt.Sprintf(CampOwnerKeyPrefix, ownerID)
}

func RevokedTokenKey(jti string) string {
	return fmt.Sprintf(RevokedTokenPrefix, jti)
}

func (s *Store) InvalidateUser(ctx context.Context, username string) {
	s.Invalidate(ctx, UserNameKey(username))
}

func (s *Store) InvalidateCamp(ctx context.Context, ownerID uint) {
	s.Invalidate(ctx, CampOwnerKey(ownerID))
}

// RevokeToken marks a token id as revoked until ttl elapses.
func (s *Store) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if s.Client() == nil || jti == "" || ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, RevokedTokenKey(jti), "1", ttl).Err()
}

// IsTokenRevoked reports whether jti was revoked. Lookup errors count as not revoked.
func (s *Store) IsTokenRevoked(ctx context.Context, jti string) bool {
	if s.Client() == nil || jti == "" {
		return false
	}
	n, err := s.rdb.Exists(ctx, RevokedTokenKey(jti)).Result()
	return err == nil && n > 0
}
