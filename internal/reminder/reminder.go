// internal/reminder/reminder.go
package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"licensure-service/internal/common/database"
	"licensure-service/internal/common/logger"
	"licensure-service/internal/common/metrics"
)

// Sender delivers the actual reminder message.
type Sender interface {
	ProfileReminder(ctx context.Context, email, fullName, applicationType string)
}

// Scheduler rate-limits profile-completion reminders through Redis. One key
// per user marks the last send; while it lives, further saves stay quiet.
type Scheduler struct {
	rdb      *database.RedisClient
	sender   Sender
	interval time.Duration
	logger   logger.Logger
}

func NewScheduler(rdb *database.RedisClient, sender Sender, interval time.Duration, log logger.Logger) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{
		rdb:      rdb,
		sender:   sender,
		interval: interval,
		logger:   log.WithFields(map[string]interface{}{"component": "reminder"}),
	}
}

func reminderKey(userID string) string {
	return fmt.Sprintf("reminder:profile:%s", userID)
}

// MaybeRemind sends a profile-completion reminder unless one already went out
// within the interval. SET NX doubles as the distributed lock, so concurrent
// saves across instances produce at most one send.
func (s *Scheduler) MaybeRemind(ctx context.Context, userID, email, fullName, applicationType string) error {
	ok, err := s.rdb.SetNX(ctx, reminderKey(userID), time.Now().UTC().Format(time.RFC3339), s.interval)
	if err != nil {
		return fmt.Errorf("reminder throttle check: %w", err)
	}
	if !ok {
		return nil
	}

	s.sender.ProfileReminder(ctx, email, fullName, applicationType)
	metrics.RemindersSent.Inc()
	s.logger.Info("profile reminder sent", map[string]interface{}{
		"userId":          userID,
		"applicationType": applicationType,
	})
	return nil
}

// LastReminded returns when the last reminder went out, or zero time when the
// throttle key has expired.
func (s *Scheduler) LastReminded(ctx context.Context, userID string) (time.Time, error) {
	val, err := s.rdb.Get(ctx, reminderKey(userID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("reminder lookup: %w", err)
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, fmt.Errorf("reminder timestamp parse: %w", err)
	}
	return t, nil
}

// Clear drops the throttle key, typically after the user submits.
func (s *Scheduler) Clear(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, reminderKey(userID))
}
