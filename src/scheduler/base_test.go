package scheduler_test

import (
	"sync/atomic"
	"testing"
	"time"

	"cryptotracker/src/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduledTask(t *testing.T) {
	t.Run("runs the task on schedule until cancelled", func(t *testing.T) {
		var runs atomic.Int32
		task, err := scheduler.NewScheduledTask("@every 1s", nil, func() { runs.Add(1) })
		require.NoError(t, err)

		assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

		<-task.Cancel().Done()
		after := runs.Load()
		time.Sleep(1500 * time.Millisecond)
		assert.Equal(t, after, runs.Load())
	})

	t.Run("cancel twice is safe", func(t *testing.T) {
		task, err := scheduler.NewScheduledTask("@hourly", nil, func() {})
		require.NoError(t, err)
		task.Cancel()
		assert.NotPanics(t, func() { task.Cancel() })
	})

	t.Run("rejects invalid specs", func(t *testing.T) {
		_, err := scheduler.NewScheduledTask("every now and then", nil, func() {})
		assert.Error(t, err)
	})
}
