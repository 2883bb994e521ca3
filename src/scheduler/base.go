package scheduler

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
)

// ScheduledTask runs a function on a cron schedule. A run still in progress when the
// next one is due makes the next one skip.
type ScheduledTask struct {
	cronID cron.EntryID
	cron   *cron.Cron
	cancel chan struct{}
	once   sync.Once
}

func NewScheduledTask(cronSpec string, logger cron.Logger, taskFunc func()) (*ScheduledTask, error) {
	if logger == nil {
		logger = cron.DiscardLogger
	}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	cancel := make(chan struct{})
	task := &ScheduledTask{
		cron:   c,
		cancel: cancel,
	}

	id, err := c.AddFunc(cronSpec, func() {
		select {
		case <-cancel:
			return
		default:
			taskFunc()
		}
	})
	if err != nil {
		return nil, err
	}

	task.cronID = id
	c.Start()
	return task, nil
}

// Cancel removes the task; a run already started is left to finish. It returns a
// context that is done once no run is in progress.
func (s *ScheduledTask) Cancel() context.Context {
	s.once.Do(func() {
		s.cron.Remove(s.cronID)
		close(s.cancel)
	})
	return s.cron.Stop()
}
