package models

// IncidentPayload is the body of a Statuspage incident create or update request.
type IncidentPayload struct {
	Incident IncidentFields `json:"incident"`
}

type IncidentFields struct {
	Name         string            `json:"name,omitempty"`
	Status       IncidentStatus    `json:"status"`
	Body         string            `json:"body,omitempty"`
	Metadata     map[string]any    `json:"metadata"`
	Components   map[string]Status `json:"components"`
	ComponentIDs []string          `json:"component_ids,omitempty"`
}

// Incident is the subset of the Statuspage incident response we read.
type Incident struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Status IncidentStatus `json:"status"`
}
