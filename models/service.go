package models

// ServiceDescriptor identifies a monitored target:
// - Name is unique and keys the tracked incident
// - Title is used as the incident name when the service goes down
// - ComponentID is the status page component, opaque to us
type ServiceDescriptor struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	ComponentID string `json:"componentId"`
}

// Describe returns the descriptor itself so concrete services can embed it.
func (d ServiceDescriptor) Describe() ServiceDescriptor {
	return d
}
