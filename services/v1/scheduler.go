package v1

import (
	"context"
	"errors"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers the monitoring cycle and the daily summary on cron
// expressions (standard five fields, or descriptors such as "@every 1m").
type Scheduler struct {
	cron     *cron.Cron
	reporter *Reporter
}

func NewScheduler(reporter *Reporter, cycleExpr, dailyExpr string) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		reporter: reporter,
	}

	if _, err := s.cron.AddFunc(cycleExpr, s.runCycle); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(dailyExpr, s.runDaily); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	log.Println("[CRON] Starting scheduler...")
	s.cron.Start()
}

// Stop prevents new runs and waits for a running one to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[CRON] Scheduler stopped")
}

func (s *Scheduler) runCycle() {
	log.Println("[CRON] Running scheduled monitoring")
	if _, err := s.reporter.RunCycle(context.Background()); err != nil {
		log.Printf("[CRON] Cycle failed: %v", err)
	}
}

func (s *Scheduler) runDaily() {
	log.Println("[CRON] Running scheduled daily system health check")
	_, err := s.reporter.RunDailySummary(context.Background())
	if err != nil && !errors.Is(err, ErrNotAllOperational) {
		log.Printf("[CRON] Daily summary failed: %v", err)
	}
}
