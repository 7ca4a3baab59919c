package main

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const purgeTimeout = 30 * time.Second

type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// StartSessionCleanupScheduler deletes expired sessions on schedule. The
// returned cron must be stopped on shutdown.
func StartSessionCleanupScheduler(schedule string, purger SessionPurger, log logrus.FieldLogger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
		defer cancel()

		removed, err := purger.PurgeExpiredSessions(ctx)
		if err != nil {
			log.WithError(err).Error("Error purging expired sessions")
			return
		}
		log.WithField("removed", removed).Info("Expired sessions purged")
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
