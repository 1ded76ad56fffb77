package v1

import (
	"context"
	"fmt"
	"log"
	"time"

	"statuspage-cron/models"
)

// Recorder stores check results for later inspection. Optional.
type Recorder interface {
	Record(ctx context.Context, name string, outcome models.Outcome, duration time.Duration) error
}

// HealthChecker runs a service's check under a timeout and normalizes every
// failure, including panics, to OutcomeUnhealthy.
type HealthChecker struct {
	timeout  time.Duration
	recorder Recorder
}

func NewHealthChecker(timeout time.Duration, recorder Recorder) *HealthChecker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HealthChecker{timeout: timeout, recorder: recorder}
}

// Check never fails; a check error is logged and reported as 500.
func (h *HealthChecker) Check(ctx context.Context, svc Checkable) models.Outcome {
	name := svc.Describe().Name

	checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	outcome, err := h.invoke(checkCtx, svc)
	duration := time.Since(start)

	if err != nil {
		log.Printf("[HEALTH] %s check failed: %v", name, err)
		outcome = models.OutcomeUnhealthy
	} else {
		log.Printf("[HEALTH] %s check completed with outcome %d", name, outcome)
	}

	if h.recorder != nil {
		if err := h.recorder.Record(ctx, name, outcome, duration); err != nil {
			log.Printf("[REDIS] Error registering check history for %s: %v", name, err)
		}
	}
	return outcome
}

type checkResult struct {
	outcome models.Outcome
	err     error
}

// invoke stops waiting at ctx's deadline even when the check ignores ctx; a
// check that never returns leaks its goroutine but not the cycle.
func (h *HealthChecker) invoke(ctx context.Context, svc Checkable) (models.Outcome, error) {
	done := make(chan checkResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- checkResult{err: fmt.Errorf("check panicked: %v", r)}
			}
		}()
		outcome, err := svc.Check(ctx)
		done <- checkResult{outcome: outcome, err: err}
	}()

	select {
	case res := <-done:
		if res.err == nil && ctx.Err() != nil {
			// returned a result after its deadline
			res.err = ctx.Err()
		}
		return res.outcome, res.err
	case <-ctx.Done():
		return models.OutcomeUnhealthy, ctx.Err()
	}
}
