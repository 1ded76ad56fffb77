package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"statuspage-cron/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   models.IncidentPayload
	Raw    map[string]any
}

func setUpStatuspage(t *testing.T, status int, response string) (*StatuspageClient, func() []capturedRequest) {
	t.Helper()
	var (
		mu       sync.Mutex
		requests []capturedRequest
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		req := capturedRequest{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization")}
		_ = json.Unmarshal(data, &req.Body)
		_ = json.Unmarshal(data, &req.Raw)

		mu.Lock()
		requests = append(requests, req)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	c := NewStatuspageClient(server.URL+"/v1/", "page-1", "key-1", time.Second)
	return c, func() []capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]capturedRequest(nil), requests...)
	}
}

func TestCreateIncident(t *testing.T) {
	c, requests := setUpStatuspage(t, http.StatusCreated, `{"id":"inc-42","name":"API is down","status":"investigating"}`)

	id, err := c.CreateIncident(context.Background(), "API is down", models.Investigating, models.MajorOutage, "cmp-1")

	require.NoError(t, err)
	assert.Equal(t, "inc-42", id)

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/v1/pages/page-1/incidents", reqs[0].Path)
	assert.Equal(t, "OAuth key-1", reqs[0].Auth)

	inc := reqs[0].Body.Incident
	assert.Equal(t, "API is down", inc.Name)
	assert.Equal(t, models.Investigating, inc.Status)
	assert.Equal(t, map[string]models.Status{"cmp-1": models.MajorOutage}, inc.Components)
	assert.Equal(t, []string{"cmp-1"}, inc.ComponentIDs)

	raw := reqs[0].Raw["incident"].(map[string]any)
	assert.Equal(t, map[string]any{}, raw["metadata"])
}

func TestCreateIncidentFailures(t *testing.T) {
	t.Run("error status", func(t *testing.T) {
		c, _ := setUpStatuspage(t, http.StatusUnauthorized, `{"error":"bad key"}`)
		id, err := c.CreateIncident(context.Background(), "t", models.Investigating, models.MajorOutage, "cmp-1")
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
		assert.Empty(t, id)
	})

	t.Run("missing id", func(t *testing.T) {
		c, _ := setUpStatuspage(t, http.StatusCreated, `{}`)
		_, err := c.CreateIncident(context.Background(), "t", models.Investigating, models.MajorOutage, "cmp-1")
		assert.ErrorIs(t, err, ErrNoIncidentID)
	})

	t.Run("empty body", func(t *testing.T) {
		c, _ := setUpStatuspage(t, http.StatusCreated, ``)
		_, err := c.CreateIncident(context.Background(), "t", models.Investigating, models.MajorOutage, "cmp-1")
		assert.ErrorIs(t, err, ErrNoIncidentID)
	})

	t.Run("unreachable", func(t *testing.T) {
		c := NewStatuspageClient("http://127.0.0.1:1", "page-1", "key", time.Second)
		_, err := c.CreateIncident(context.Background(), "t", models.Investigating, models.MajorOutage, "cmp-1")
		assert.Error(t, err)
	})
}

func TestResolveIncident(t *testing.T) {
	c, requests := setUpStatuspage(t, http.StatusOK, `{"id":"inc-42","status":"resolved"}`)

	require.NoError(t, c.ResolveIncident(context.Background(), "inc-42", "cmp-1"))

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPatch, reqs[0].Method)
	assert.Equal(t, "/v1/pages/page-1/incidents/inc-42", reqs[0].Path)

	inc := reqs[0].Body.Incident
	assert.Equal(t, models.Resolved, inc.Status)
	assert.Empty(t, inc.Name)
	assert.Equal(t, map[string]models.Status{"cmp-1": models.Operational}, inc.Components)
}

func TestResolveIncidentWithoutID(t *testing.T) {
	c, requests := setUpStatuspage(t, http.StatusOK, `{}`)

	err := c.ResolveIncident(context.Background(), "", "cmp-1")

	assert.ErrorIs(t, err, ErrNoIncidentID)
	assert.Empty(t, requests())
}

func TestResolveIncidentErrorStatus(t *testing.T) {
	c, _ := setUpStatuspage(t, http.StatusNotFound, `{"error":"not found"}`)

	err := c.ResolveIncident(context.Background(), "inc-1", "cmp-1")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestCreateAllOperationalIncident(t *testing.T) {
	c, requests := setUpStatuspage(t, http.StatusCreated, `{"id":"inc-daily"}`)

	err := c.CreateAllOperationalIncident(context.Background(), []string{"cmp-a", "cmp-b"}, "A: 200\nB: 200")
	require.NoError(t, err)

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/v1/pages/page-1/incidents", reqs[0].Path)

	inc := reqs[0].Body.Incident
	assert.Equal(t, AllOperationalTitle, inc.Name)
	assert.Equal(t, models.Resolved, inc.Status)
	assert.Equal(t, "All systems have been checked and are operational.\nReport for services:\nA: 200\nB: 200", inc.Body)
	assert.Equal(t, map[string]models.Status{"cmp-a": models.Operational, "cmp-b": models.Operational}, inc.Components)
}

func TestCreateAllOperationalIncidentNeedsComponents(t *testing.T) {
	c, requests := setUpStatuspage(t, http.StatusCreated, `{}`)

	err := c.CreateAllOperationalIncident(context.Background(), nil, "")
	assert.ErrorIs(t, err, ErrNoComponents)
	assert.Empty(t, requests())
}

func TestStatuspageHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	c := NewStatuspageClient(server.URL, "page-1", "key", 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.CreateIncident(ctx, "t", models.Investigating, models.MajorOutage, "cmp-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
