package v1

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"statuspage-cron/models"
)

type createCall struct {
	Title           string
	Status          models.IncidentStatus
	ComponentStatus models.Status
	ComponentID     string
}

type resolveCall struct {
	IncidentID  string
	ComponentID string
}

type allOperationalCall struct {
	ComponentIDs []string
	Body         string
}

// fakePage records every call. createID decides the id (and error) of the
// n-th create, starting at 1.
type fakePage struct {
	mu sync.Mutex

	creates        []createCall
	resolves       []resolveCall
	allOperational []allOperationalCall

	createID   func(n int) (string, error)
	resolveErr error
	allOpErr   error
}

func newFakePage() *fakePage {
	return &fakePage{
		createID: func(n int) (string, error) { return fmt.Sprintf("inc-%d", n), nil },
	}
}

func (p *fakePage) CreateIncident(_ context.Context, title string, status models.IncidentStatus, componentStatus models.Status, componentID string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.creates = append(p.creates, createCall{title, status, componentStatus, componentID})
	return p.createID(len(p.creates))
}

func (p *fakePage) ResolveIncident(_ context.Context, incidentID, componentID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resolves = append(p.resolves, resolveCall{incidentID, componentID})
	return p.resolveErr
}

func (p *fakePage) CreateAllOperationalIncident(_ context.Context, componentIDs []string, body string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.allOperational = append(p.allOperational, allOperationalCall{append([]string(nil), componentIDs...), body})
	return p.allOpErr
}

// fakeService returns queued outcomes in order, repeating the last one.
type fakeService struct {
	models.ServiceDescriptor

	mu       sync.Mutex
	outcomes []models.Outcome
	err      error
	panicMsg string
	calls    int
	onCheck  func()
}

func newFakeService(name string, outcomes ...models.Outcome) *fakeService {
	return &fakeService{
		ServiceDescriptor: models.ServiceDescriptor{
			Name:        name,
			Title:       name + " is down",
			ComponentID: "cmp-" + name,
		},
		outcomes: outcomes,
	}
}

func (s *fakeService) Check(context.Context) (models.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.onCheck != nil {
		s.onCheck()
	}
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	if s.err != nil {
		return 0, s.err
	}
	if len(s.outcomes) == 0 {
		return models.OutcomeHealthy, nil
	}
	o := s.outcomes[0]
	if len(s.outcomes) > 1 {
		s.outcomes = s.outcomes[1:]
	}
	return o, nil
}

var errBoom = errors.New("boom")
