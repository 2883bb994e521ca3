package controllers

import (
	"context"
	"sync"
	"time"

	"cryptotracker/src/clients/tracker"
	"cryptotracker/src/config"
	"cryptotracker/src/scheduler"
	"cryptotracker/src/services"
	"cryptotracker/src/utils"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const sweepTimeout = 2 * time.Minute

// SecretGetter reads the service password when it is not configured in plain text.
type SecretGetter interface {
	GetSecretValue(ctx context.Context, secretID, field string) (string, error)
}

type Controller struct {
	Client    tracker.TrackerServiceClientI
	Portfolio services.PortfolioServiceI
	Secrets   SecretGetter
	Worker    config.WorkerConfig
	Logger    *logrus.Logger

	SchedulerMutex sync.Mutex
	Scheduler      *scheduler.ScheduledTask

	// sweeping serializes sweeps triggered by the schedule and by hand.
	sweeping sync.Mutex
}

func NewController(cfg *config.Config, client tracker.TrackerServiceClientI, portfolio services.PortfolioServiceI, secrets SecretGetter, logger *logrus.Logger) *Controller {
	return &Controller{
		Client:    client,
		Portfolio: portfolio,
		Secrets:   secrets,
		Worker:    cfg.Worker,
		Logger:    logger,
	}
}

// ScheduleSweep (re)schedules the risk sweep with the configured cron spec.
func (c *Controller) ScheduleSweep() error {
	c.SchedulerMutex.Lock()
	defer c.SchedulerMutex.Unlock()

	if c.Scheduler != nil {
		c.Scheduler.Cancel()
		c.Scheduler = nil
	}

	task, err := scheduler.NewScheduledTask(c.Worker.Schedule, cron.PrintfLogger(c.Logger), func() {
		ctx, cancel := context.WithTimeout(utils.WithLogger(context.Background(), logrus.NewEntry(c.Logger)), sweepTimeout)
		defer cancel()
		if _, err := c.Sweep(ctx); err != nil {
			c.Logger.Errorf("scheduled sweep failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	c.Scheduler = task
	return nil
}

// StopSweep cancels the schedule and waits for a running sweep up to ctx.
func (c *Controller) StopSweep(ctx context.Context) {
	c.SchedulerMutex.Lock()
	task := c.Scheduler
	c.Scheduler = nil
	c.SchedulerMutex.Unlock()

	if task == nil {
		return
	}
	select {
	case <-task.Cancel().Done():
	case <-ctx.Done():
	}
}
