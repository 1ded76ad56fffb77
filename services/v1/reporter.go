package v1

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"statuspage-cron/models"
)

// ErrNotAllOperational is returned by RunDailySummary when a service is down
// or an incident is still tracked.
var ErrNotAllOperational = errors.New("not all systems are operational")

// ErrNotStarted wraps the context error of a run whose caller gave up while
// another run held the slot.
var ErrNotStarted = errors.New("run not started")

// Reporter runs the configured services through check and reconcile. Runs
// are serialized so overlapping triggers never race on the tracker.
type Reporter struct {
	services   []Checkable
	checker    *HealthChecker
	reconciler *Reconciler
	page       StatusPage
	timeout    time.Duration

	// one slot; waiting for it honours the caller's context
	running chan struct{}
}

func NewReporter(services []Checkable, checker *HealthChecker, reconciler *Reconciler, page StatusPage) *Reporter {
	return &Reporter{
		services:   services,
		checker:    checker,
		reconciler: reconciler,
		page:       page,
		timeout:    reconciler.opts.RequestTimeout,
		running:    make(chan struct{}, 1),
	}
}

// acquire waits for the running slot. A caller that gives up while waiting
// gets ctx's error and nothing runs. Once acquired, the run is detached from
// ctx cancellation: check and status page timeouts bound it instead.
func (r *Reporter) acquire(ctx context.Context) (context.Context, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotStarted, err)
	}
	select {
	case r.running <- struct{}{}:
		return context.WithoutCancel(ctx), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrNotStarted, ctx.Err())
	}
}

func (r *Reporter) release() {
	<-r.running
}

func (r *Reporter) Services() []Checkable {
	return r.services
}

// RunCycle checks and reconciles every service, one after the other, in
// configuration order. A failing service never stops the others. The only
// error is ctx ending before the cycle could start.
func (r *Reporter) RunCycle(ctx context.Context) ([]models.ReportEntry, error) {
	ctx, err := r.acquire(ctx)
	if err != nil {
		log.Printf("[CRON] Cycle not started: %v", err)
		return nil, err
	}
	defer r.release()

	log.Printf("[CRON] Running monitoring cycle for %d services", len(r.services))

	entries := make([]models.ReportEntry, 0, len(r.services))
	for _, svc := range r.services {
		entries = append(entries, r.cycleOne(ctx, svc))
	}
	return entries, nil
}

func (r *Reporter) cycleOne(ctx context.Context, svc Checkable) (entry models.ReportEntry) {
	desc := svc.Describe()
	entry = models.ReportEntry{
		Name:        desc.Name,
		Outcome:     models.OutcomeUnhealthy,
		ComponentID: desc.ComponentID,
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[CRON] %s failed: %v", desc.Name, rec)
			entry.Error = fmt.Sprint(rec)
		}
	}()

	entry.Outcome = r.checker.Check(ctx, svc)
	if err := r.reconciler.Reconcile(ctx, desc, entry.Outcome); err != nil {
		entry.Error = err.Error()
	}
	return entry
}

// RunDailySummary checks every service without reconciling. When all are
// healthy and no incident is open it posts one "all systems operational"
// incident covering every component.
func (r *Reporter) RunDailySummary(ctx context.Context) (models.DailySummary, error) {
	ctx, err := r.acquire(ctx)
	if err != nil {
		log.Printf("[DAILY] Daily summary not started: %v", err)
		return models.DailySummary{}, err
	}
	defer r.release()

	log.Println("[DAILY] Performing independent daily system health check")

	summary := models.DailySummary{
		Entries:        make([]models.ReportEntry, 0, len(r.services)),
		AllOperational: true,
	}
	for _, svc := range r.services {
		entry := r.dailyOne(ctx, svc)
		if !entry.Outcome.Healthy() {
			summary.AllOperational = false
		}
		summary.Entries = append(summary.Entries, entry)
	}

	if open := r.reconciler.Tracker().Len(); open > 0 {
		log.Printf("[DAILY] %d incident(s) ongoing", open)
		summary.AllOperational = false
	}
	if !summary.AllOperational {
		log.Println("[DAILY] Not all systems are operational, skipping status page update")
		return summary, ErrNotAllOperational
	}

	componentIDs := make([]string, 0, len(summary.Entries))
	for _, e := range summary.Entries {
		componentIDs = append(componentIDs, e.ComponentID)
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.page.CreateAllOperationalIncident(callCtx, componentIDs, SummaryBody(summary.Entries)); err != nil {
		log.Printf("[DAILY] Error creating all systems operational incident: %v", err)
		return summary, fmt.Errorf("publish daily summary: %w", err)
	}

	summary.Published = true
	log.Println("[DAILY] All systems operational")
	return summary, nil
}

func (r *Reporter) dailyOne(ctx context.Context, svc Checkable) (entry models.ReportEntry) {
	desc := svc.Describe()
	entry = models.ReportEntry{
		Name:        desc.Name,
		Outcome:     models.OutcomeUnhealthy,
		ComponentID: desc.ComponentID,
	}
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[DAILY] %s failed: %v", desc.Name, rec)
			entry.Outcome = models.OutcomeUnhealthy
			entry.Error = fmt.Sprint(rec)
		}
	}()

	entry.Outcome = r.checker.Check(ctx, svc)
	return entry
}

// SummaryBody lists each service as "<name>: <outcome>", one per line.
func SummaryBody(entries []models.ReportEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s: %d", e.Name, e.Outcome))
	}
	return strings.Join(lines, "\n")
}
