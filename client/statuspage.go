package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"statuspage-cron/models"
)

const AllOperationalTitle = "All Systems Operational"

var (
	ErrNoIncidentID     = errors.New("no incident id")
	ErrUnexpectedStatus = errors.New("unexpected status page response")
	ErrNoComponents     = errors.New("no component ids")
)

// StatuspageClient talks to the Statuspage REST API (v1) for a single page.
type StatuspageClient struct {
	baseURL string
	pageID  string
	apiKey  string
	http    *http.Client
}

func NewStatuspageClient(baseURL, pageID, apiKey string, timeout time.Duration) *StatuspageClient {
	return &StatuspageClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		pageID:  pageID,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// CreateIncident opens an incident for one component and returns its id.
func (c *StatuspageClient) CreateIncident(ctx context.Context, title string, status models.IncidentStatus, componentStatus models.Status, componentID string) (string, error) {
	payload := models.IncidentPayload{
		Incident: models.IncidentFields{
			Name:         title,
			Status:       status,
			Metadata:     map[string]any{},
			Components:   map[string]models.Status{componentID: componentStatus},
			ComponentIDs: []string{componentID},
		},
	}

	var incident models.Incident
	if err := c.do(ctx, http.MethodPost, c.incidentsURL(), payload, &incident); err != nil {
		return "", fmt.Errorf("create incident %q: %w", title, err)
	}
	if incident.ID == "" {
		return "", fmt.Errorf("create incident %q: %w", title, ErrNoIncidentID)
	}
	return incident.ID, nil
}

// ResolveIncident marks the incident resolved and its component operational.
func (c *StatuspageClient) ResolveIncident(ctx context.Context, incidentID, componentID string) error {
	if incidentID == "" {
		return fmt.Errorf("resolve incident: %w", ErrNoIncidentID)
	}
	payload := models.IncidentPayload{
		Incident: models.IncidentFields{
			Status:       models.Resolved,
			Metadata:     map[string]any{},
			Components:   map[string]models.Status{componentID: models.Operational},
			ComponentIDs: []string{componentID},
		},
	}

	endpoint := c.incidentsURL() + "/" + url.PathEscape(incidentID)
	if err := c.do(ctx, http.MethodPatch, endpoint, payload, nil); err != nil {
		return fmt.Errorf("resolve incident %s: %w", incidentID, err)
	}
	return nil
}

// CreateAllOperationalIncident posts an already resolved incident that marks
// every given component operational, with body appended to the report text.
func (c *StatuspageClient) CreateAllOperationalIncident(ctx context.Context, componentIDs []string, body string) error {
	if len(componentIDs) == 0 {
		return fmt.Errorf("create all operational incident: %w", ErrNoComponents)
	}
	components := make(map[string]models.Status, len(componentIDs))
	for _, id := range componentIDs {
		components[id] = models.Operational
	}

	payload := models.IncidentPayload{
		Incident: models.IncidentFields{
			Name:       AllOperationalTitle,
			Status:     models.Resolved,
			Body:       "All systems have been checked and are operational.\nReport for services:\n" + body,
			Metadata:   map[string]any{},
			Components: components,
		},
	}

	if err := c.do(ctx, http.MethodPost, c.incidentsURL(), payload, nil); err != nil {
		return fmt.Errorf("create all operational incident: %w", err)
	}
	log.Println("[STATUSPAGE] Daily incident created successfully")
	return nil
}

func (c *StatuspageClient) incidentsURL() string {
	return fmt.Sprintf("%s/pages/%s/incidents", c.baseURL, url.PathEscape(c.pageID))
}

func (c *StatuspageClient) do(ctx context.Context, method, endpoint string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "OAuth "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[STATUSPAGE] API response %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
