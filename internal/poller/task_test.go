package poller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskRepeats(t *testing.T) {
	var ticks int32
	task := NewTask(10*time.Millisecond, func(ctx context.Context) {
		atomic.AddInt32(&ticks, 1)
	})

	task.Start(context.Background())
	time.Sleep(55 * time.Millisecond)
	task.Stop()

	assert.GreaterOrEqual(t, atomic.LoadInt32(&ticks), int32(3))
}

func TestTaskStopPreventsFurtherTicks(t *testing.T) {
	var ticks int32
	task := NewTask(5*time.Millisecond, func(ctx context.Context) {
		atomic.AddInt32(&ticks, 1)
	})

	task.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	task.Stop()

	after := atomic.LoadInt32(&ticks)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&ticks), "callback fired after Stop")
}

func TestTaskStopIdempotent(t *testing.T) {
	task := NewTask(5*time.Millisecond, func(ctx context.Context) {})

	task.Start(context.Background())
	task.Stop()
	task.Stop()
	task.Stop()

	assert.False(t, task.Running())
}

func TestTaskStartWhileRunningIsNoop(t *testing.T) {
	var ticks int32
	task := NewTask(10*time.Millisecond, func(ctx context.Context) {
		atomic.AddInt32(&ticks, 1)
	})

	ctx := context.Background()
	task.Start(ctx)
	task.Start(ctx)
	task.Start(ctx)
	time.Sleep(25 * time.Millisecond)
	task.Stop()

	// A doubled loop would roughly double the tick count.
	assert.LessOrEqual(t, atomic.LoadInt32(&ticks), int32(4))
}

func TestTaskContextCancellation(t *testing.T) {
	var ticks int32
	task := NewTask(5*time.Millisecond, func(ctx context.Context) {
		atomic.AddInt32(&ticks, 1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	task.Start(ctx)
	time.Sleep(15 * time.Millisecond)
	cancel()

	after := atomic.LoadInt32(&ticks)
	time.Sleep(20 * time.Millisecond)
	assert.LessOrEqual(t, atomic.LoadInt32(&ticks), after+1)
}
