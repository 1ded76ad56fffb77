package models

// Status is the status of a component on the status page.
type Status string

// IncidentStatus is the lifecycle status of a status page incident.
type IncidentStatus string

/*
Incident lifecycle:

1. A service that fails its check while no incident is tracked opens a new incident
   with status "investigating" and its component marked "major_outage".
2. While the incident stays open, further failures leave it alone.
3. The first passing check resolves it ("resolved", component back to "operational").

The intermediate vendor states (identified, monitoring) and the partial statuses are
never set by this service but are accepted when reading incidents back.
*/

const (
	Operational         Status = "operational"
	DegradedPerformance Status = "degraded_performance"
	PartialOutage       Status = "partial_outage"
	MajorOutage         Status = "major_outage"
)

const (
	Investigating IncidentStatus = "investigating"
	Identified    IncidentStatus = "identified"
	Monitoring    IncidentStatus = "monitoring"
	Resolved      IncidentStatus = "resolved"
)

// Outcome is the numeric result of a single check, modeled on HTTP status codes.
type Outcome int

const (
	OutcomeHealthy   Outcome = 200
	OutcomeUnhealthy Outcome = 500
)

// Healthy reports whether the outcome counts as up. Only 200 does.
func (o Outcome) Healthy() bool {
	return o == OutcomeHealthy
}
