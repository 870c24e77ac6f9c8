// internal/reminder/reminder_test.go
package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licensure-service/internal/common/database"
	"licensure-service/internal/common/logger"
	"licensure-service/internal/models"
)

type recordingSender struct {
	calls int
}

func (r *recordingSender) ProfileReminder(ctx context.Context, email, fullName, applicationType string) {
	r.calls++
}

func newTestScheduler(t *testing.T, sender Sender, interval time.Duration) (*Scheduler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewScheduler(&database.RedisClient{Client: rdb}, sender, interval, logger.NewNoOpLogger()), mr
}

func TestMaybeRemindSendsOncePerInterval(t *testing.T) {
	sender := &recordingSender{}
	sched, _ := newTestScheduler(t, sender, time.Hour)

	ctx := context.Background()
	require.NoError(t, sched.MaybeRemind(ctx, "user-1", "maria@example.com", "Maria Cruz", models.ApplicationTypeNCLEX))
	require.NoError(t, sched.MaybeRemind(ctx, "user-1", "maria@example.com", "Maria Cruz", models.ApplicationTypeNCLEX))
	require.NoError(t, sched.MaybeRemind(ctx, "user-1", "maria@example.com", "Maria Cruz", models.ApplicationTypeNCLEX))

	assert.Equal(t, 1, sender.calls, "repeat saves within the interval stay quiet")
}

func TestMaybeRemindSendsAgainAfterExpiry(t *testing.T) {
	sender := &recordingSender{}
	sched, mr := newTestScheduler(t, sender, time.Hour)

	ctx := context.Background()
	require.NoError(t, sched.MaybeRemind(ctx, "user-1", "maria@example.com", "Maria Cruz", models.ApplicationTypeEAD))

	mr.FastForward(2 * time.Hour)

	require.NoError(t, sched.MaybeRemind(ctx, "user-1", "maria@example.com", "Maria Cruz", models.ApplicationTypeEAD))
	assert.Equal(t, 2, sender.calls)
}

func TestMaybeRemindIsPerUser(t *testing.T) {
	sender := &recordingSender{}
	sched, _ := newTestScheduler(t, sender, time.Hour)

	ctx := context.Background()
	require.NoError(t, sched.MaybeRemind(ctx, "user-1", "a@example.com", "A", models.ApplicationTypeNCLEX))
	require.NoError(t, sched.MaybeRemind(ctx, "user-2", "b@example.com", "B", models.ApplicationTypeNCLEX))

	assert.Equal(t, 2, sender.calls)
}

func TestLastRemindedAndClear(t *testing.T) {
	sender := &recordingSender{}
	sched, _ := newTestScheduler(t, sender, time.Hour)

	ctx := context.Background()

	last, err := sched.LastReminded(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	require.NoError(t, sched.MaybeRemind(ctx, "user-1", "maria@example.com", "Maria Cruz", models.ApplicationTypeNCLEX))

	last, err = sched.LastReminded(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, last.IsZero())

	require.NoError(t, sched.Clear(ctx, "user-1"))
	last, err = sched.LastReminded(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, last.IsZero())
}
