// Package scheduler periodically recomputes the daily risk table for the
// configured locations so their upstream responses stay warm in cache.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/avelychko/heat-air-risk/internal/config"
	"github.com/avelychko/heat-air-risk/internal/provider"
	"github.com/avelychko/heat-air-risk/internal/service"
)

// Scheduler drives the periodic warm-up job.
type Scheduler struct {
	scheduler *gocron.Scheduler
	svc       *service.Service
	locations []config.Location
	interval  time.Duration
}

// New creates a Scheduler over the given locations.
func New(locations []config.Location, interval time.Duration, svc *service.Service) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		svc:       svc,
		locations: locations,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		log.Println("scheduler: no locations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 30
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(s.warmAll)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) warmAll() {
	log.Println("scheduler: warming risk tables")

	var wg sync.WaitGroup
	for _, loc := range s.locations {
		loc := loc
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			_, err := s.svc.DailyRisk(ctx, provider.Location{Lat: loc.Lat, Lon: loc.Lon}, service.DailyOptions{
				DaysHourly: 5,
				ExtendDays: 5,
			})
			if err != nil {
				log.Printf("scheduler: warm failed for %s: %v", loc.Name, err)
			}
		}()
	}
	wg.Wait()
	log.Println("scheduler: completed warm cycle")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
