// Package stimulus is the demo traffic generator: every tick it publishes
// either a global broadcast or a private message to a random known user,
// the same cadence the system was originally exercised with. It also
// hosts the retention sweep, which shares the ticker goroutine.
package stimulus

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"notify-hub/internal/domain"
	"notify-hub/internal/repository"
	"notify-hub/internal/service/dispatcher"
)

type Scheduler struct {
	dispatcher    dispatcher.Service
	recipientRepo repository.RecipientRepository
	notifRepo     repository.NotificationRepository

	interval      time.Duration
	retention     time.Duration
	retentionTick time.Duration
}

func NewScheduler(
	d dispatcher.Service,
	recipientRepo repository.RecipientRepository,
	notifRepo repository.NotificationRepository,
	interval, retention, retentionTick time.Duration,
) *Scheduler {
	return &Scheduler{
		dispatcher:    d,
		recipientRepo: recipientRepo,
		notifRepo:     notifRepo,
		interval:      interval,
		retention:     retention,
		retentionTick: retentionTick,
	}
}

// Run blocks until ctx is cancelled. Call it on its own goroutine.
func (s *Scheduler) Run(ctx context.Context) {
	if s.interval <= 0 && (s.retention <= 0 || s.retentionTick <= 0) {
		return
	}

	stimulus := newTicker(s.interval)
	sweep := newTicker(s.retentionTick)
	defer stimulus.Stop()
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stimulus.C:
			s.fire(ctx)
		case <-sweep.C:
			if s.retention > 0 {
				s.sweepOld(ctx)
			}
		}
	}
}

// fire publishes one random notification, skipping ticks while nobody has
// ever connected.
func (s *Scheduler) fire(ctx context.Context) {
	ids, err := s.recipientRepo.ListIDs(ctx)
	if err != nil {
		log.Printf("stimulus: list recipients: %v", err)
		return
	}
	if len(ids) == 0 {
		return
	}

	input := domain.PublishInput{Message: "Global message for all users."}
	if rand.Intn(2) == 0 {
		target := ids[rand.Intn(len(ids))]
		input = domain.PublishInput{
			UserID:  target,
			Message: fmt.Sprintf("Private notification for %s.", target),
		}
	}

	if _, err := s.dispatcher.Publish(ctx, input); err != nil {
		log.Printf("stimulus: publish: %v", err)
	}
}

func (s *Scheduler) sweepOld(ctx context.Context) {
	removed, err := s.notifRepo.DeleteOlderThan(ctx, s.retention)
	if err != nil {
		log.Printf("stimulus: retention sweep: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("stimulus: retention sweep removed %d notifications", removed)
	}
}

// newTicker returns a ticker that never fires for non-positive intervals.
func newTicker(d time.Duration) *time.Ticker {
	if d <= 0 {
		t := time.NewTicker(time.Hour)
		t.Stop()
		return t
	}
	return time.NewTicker(d)
}
