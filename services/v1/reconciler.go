package v1

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"statuspage-cron/models"
)

// StatusPage is what the reconciler and the daily summary need from the
// status page vendor.
type StatusPage interface {
	CreateIncident(ctx context.Context, title string, status models.IncidentStatus, componentStatus models.Status, componentID string) (string, error)
	ResolveIncident(ctx context.Context, incidentID, componentID string) error
	CreateAllOperationalIncident(ctx context.Context, componentIDs []string, body string) error
}

var errEmptyIncidentID = errors.New("status page returned no incident id")

type ReconcilerOptions struct {
	// RequestTimeout bounds every status page call. Zero means 10s.
	RequestTimeout time.Duration
	// KeepOnResolveFailure keeps the tracked incident when resolving fails so the
	// next healthy check retries. Off by default: a failed resolve still clears.
	KeepOnResolveFailure bool
}

// Reconciler keeps one status page incident per service in line with its
// latest check outcome:
//
//	clear + healthy   -> nothing
//	clear + unhealthy -> open incident, track its id
//	open  + healthy   -> resolve, stop tracking
//	open  + unhealthy -> nothing, never a duplicate
type Reconciler struct {
	page    StatusPage
	tracker *IncidentTracker
	opts    ReconcilerOptions
}

func NewReconciler(page StatusPage, tracker *IncidentTracker, opts ReconcilerOptions) *Reconciler {
	if tracker == nil {
		tracker = NewIncidentTracker()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	return &Reconciler{page: page, tracker: tracker, opts: opts}
}

func (r *Reconciler) Tracker() *IncidentTracker {
	return r.tracker
}

// Reconcile applies outcome to the service's incident state. The tracker is
// updated before any error is returned.
func (r *Reconciler) Reconcile(ctx context.Context, svc models.ServiceDescriptor, outcome models.Outcome) error {
	incidentID, open := r.tracker.Get(svc.Name)

	if !outcome.Healthy() {
		log.Printf("[INCIDENT] %s is down (outcome %d)", svc.Name, outcome)
		if open {
			log.Printf("[INCIDENT] %s incident ongoing (%s)", svc.Name, incidentID)
			return nil
		}
		return r.open(ctx, svc)
	}

	if !open {
		log.Printf("[INCIDENT] %s is operational, no incident ongoing", svc.Name)
		return nil
	}
	return r.resolve(ctx, svc, incidentID)
}

func (r *Reconciler) open(ctx context.Context, svc models.ServiceDescriptor) error {
	callCtx, cancel := context.WithTimeout(ctx, r.opts.RequestTimeout)
	defer cancel()

	id, err := r.page.CreateIncident(callCtx, svc.Title, models.Investigating, models.MajorOutage, svc.ComponentID)
	if err == nil && id == "" {
		err = errEmptyIncidentID
	}
	if err != nil {
		// left untracked so the next failing check tries again
		log.Printf("[INCIDENT] Error creating %s incident: %v", svc.Name, err)
		return fmt.Errorf("create incident for %s: %w", svc.Name, err)
	}

	r.tracker.Set(svc.Name, id)
	log.Printf("[INCIDENT] %s incident created (%s)", svc.Name, id)
	return nil
}

func (r *Reconciler) resolve(ctx context.Context, svc models.ServiceDescriptor, incidentID string) error {
	log.Printf("[INCIDENT] %s is back up, resolving incident %s", svc.Name, incidentID)

	callCtx, cancel := context.WithTimeout(ctx, r.opts.RequestTimeout)
	defer cancel()

	err := r.page.ResolveIncident(callCtx, incidentID, svc.ComponentID)
	if err != nil {
		log.Printf("[INCIDENT] Error resolving %s incident %s: %v", svc.Name, incidentID, err)
		if r.opts.KeepOnResolveFailure {
			return fmt.Errorf("resolve incident for %s: %w", svc.Name, err)
		}
	} else {
		log.Printf("[INCIDENT] %s incident resolved", svc.Name)
	}

	r.tracker.Clear(svc.Name)
	if err != nil {
		return fmt.Errorf("resolve incident for %s: %w", svc.Name, err)
	}
	return nil
}
