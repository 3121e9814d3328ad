// Package redisrepo holds the redis-backed pieces of the persistence layer.
package redisrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTPLimiter throttles send-otp per student. It fails open: redis being
// down must never block a student from verifying.
type OTPLimiter struct {
	client   *redis.Client
	cooldown time.Duration
}

func NewOTPLimiter(client *redis.Client, cooldown time.Duration) *OTPLimiter {
	return &OTPLimiter{client: client, cooldown: cooldown}
}

func NewClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opts.DialTimeout = 2 * time.Second
	opts.ReadTimeout = time.Second
	opts.WriteTimeout = time.Second
	return redis.NewClient(opts), nil
}

// Allow reports whether a send is permitted for the student and, when it
// is, starts the cooldown window.
func (l *OTPLimiter) Allow(ctx context.Context, studentID int64) bool {
	if l == nil || l.client == nil || l.cooldown <= 0 {
		return true
	}

	key := fmt.Sprintf("otp:cooldown:%d", studentID)
	ok, err := l.client.SetNX(ctx, key, 1, l.cooldown).Result()
	if err != nil {
		// Fail open on redis errors.
		return true
	}
	return ok
}
