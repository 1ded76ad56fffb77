package models

import "time"

// ReportEntry is the result of checking one service during a cycle or daily summary.
type ReportEntry struct {
	Name        string  `json:"name"`
	Outcome     Outcome `json:"outcome"`
	ComponentID string  `json:"componentId"`
	Error       string  `json:"error,omitempty"`
}

// DailySummary is what a daily summary run produced.
type DailySummary struct {
	Entries        []ReportEntry `json:"entries"`
	AllOperational bool          `json:"allOperational"`
	Published      bool          `json:"published"`
}

// CheckRecord is one entry of a service's check history.
type CheckRecord struct {
	Timestamp    time.Time `json:"timestamp"`
	Outcome      Outcome   `json:"outcome"`
	ResponseTime int64     `json:"responseTime"`
}
