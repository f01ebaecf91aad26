package service

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"
)

// Scheduler periodically runs the due-template scan. Notify forces an
// immediate pass without waiting for the next tick.
type Scheduler struct {
	db       *gorm.DB
	interval time.Duration
	notifyCh chan struct{}
}

// NewScheduler creates a scheduler that scans every interval.
func NewScheduler(db *gorm.DB, interval time.Duration) *Scheduler {
	return &Scheduler{
		db:       db,
		interval: interval,
		notifyCh: make(chan struct{}, 1),
	}
}

// Notify triggers an immediate scan. Non-blocking when one is already
// pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// Start runs the scan loop until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	log.Printf("recurring scheduler started (every %s)", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Give migrations a moment before the first pass.
	select {
	case <-ctx.Done():
		return
	case <-time.After(2 * time.Second):
	}

	s.run()

	for {
		select {
		case <-ctx.Done():
			log.Println("recurring scheduler stopped")
			return
		case <-ticker.C:
			s.run()
		case <-s.notifyCh:
			log.Println("recurring scheduler triggered by notification")
			s.run()
		}
	}
}

func (s *Scheduler) run() {
	result, err := ProcessDueTemplates(s.db, time.Now())
	if err != nil {
		log.Printf("recurring scan failed: %v", err)
		return
	}
	if result.Processed > 0 || len(result.Failures) > 0 {
		log.Printf("recurring scan: %d processed, %d failed", result.Processed, len(result.Failures))
	}
}
