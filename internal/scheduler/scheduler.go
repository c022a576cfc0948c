package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"climate-data-platform/internal/climate"
)

// Target is a (variable, date) pair to keep pre-generated.
type Target struct {
	Variable string
	Date     time.Time
}

// Scheduler periodically regenerates the configured field documents so the
// read path never misses. Synthesis is deterministic, so a regeneration run
// rewrites identical content.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *climate.Service
	targets   []Target
	interval  time.Duration
}

// New creates a new Scheduler.
func New(targets []Target, interval time.Duration, service *climate.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		targets:   targets,
		interval:  interval,
	}
}

// Start schedules the periodic regeneration job, runs it once immediately,
// and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.targets) == 0 {
		log.Println("scheduler: no pre-generation targets configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().StartImmediately().Do(func() {
		log.Println("scheduler: running field pre-generation job")

		var wg sync.WaitGroup
		for _, t := range s.targets {
			t := t
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if _, err := s.service.GenerateAndStore(ctx, t.Variable, t.Date); err != nil {
					log.Printf("scheduler: generation failed for %s %s: %v", t.Variable, t.Date.Format("2006-01-02"), err)
				}
			}()
		}
		wg.Wait()
		log.Println("scheduler: completed field pre-generation job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
