package services

import (
	"log"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"resource-request-api/config"
)

// DefaultPromotionSchedule runs the transport promotion at the top of every
// hour. Override with PROMOTION_CRON.
const DefaultPromotionSchedule = "0 * * * *"

// StartScheduler wires the periodic transport promotion onto a cron
// scheduler and starts it. Failures are logged and retried on the next
// tick; unpromoted rows simply wait for the following run.
func StartScheduler() (*cron.Cron, error) {
	schedule := os.Getenv("PROMOTION_CRON")
	if schedule == "" {
		schedule = DefaultPromotionSchedule
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if _, err := PromoteDueTransport(config.DB, time.Now()); err != nil {
			log.Printf("transport promotion failed: %v", err)
		}
	}); err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("promotion scheduler started (schedule %q)", schedule)
	return c, nil
}
