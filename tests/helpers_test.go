package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/helioscrm/pipeline/internal/api"
	"github.com/helioscrm/pipeline/internal/domain"
	"github.com/helioscrm/pipeline/internal/repository"
	"github.com/helioscrm/pipeline/internal/service"
	"github.com/helioscrm/pipeline/internal/store"
)

// testServer is the full HTTP surface wired over in-memory storage. The
// clock is owned by the test so edit-window scenarios can move time; the
// mutex keeps it safe across the server's handler goroutines.
type testServer struct {
	*httptest.Server
	mu  sync.Mutex
	now time.Time
}

func (s *testServer) advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(d)
}

func (s *testServer) clock() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{now: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)}
	clock := ts.clock

	client := store.NewMemoryClient()
	historyRepo := repository.NewHistoryRepository(client)
	statusChangeRepo := repository.NewStatusChangeRepository(client)
	activityRepo := repository.NewActivityRepository(client)

	recorder := service.NewHistoryRecorder(historyRepo, statusChangeRepo, clock)
	policy := domain.NewEditWindowPolicy(domain.DefaultEditWindow, clock)

	handler := api.NewHandler(
		service.NewDealService(repository.NewMemoryDealRepository(), activityRepo, recorder, nil),
		service.NewContractService(repository.NewMemoryContractRepository(), activityRepo, recorder, nil),
		service.NewCustomerService(repository.NewMemoryCustomerRepository(), activityRepo, recorder),
		service.NewActivityService(activityRepo, policy),
		service.NewTimelineService(activityRepo, statusChangeRepo, historyRepo),
		domain.DefaultTimelinePageSize,
	)

	ts.Server = httptest.NewServer(handler.Routes())
	t.Cleanup(ts.Close)
	return ts
}

// request sends a JSON request and decodes the JSON response when target
// is non-nil. The status code is returned for the caller to assert on.
func request(t *testing.T, server *testServer, method, path string, payload any, target any) int {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, server.URL+path, body)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("failed to make request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}

	if target != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, target); err != nil {
			t.Fatalf("failed to parse response: %v\nRaw: %s", err, string(raw))
		}
	}
	return resp.StatusCode
}

func createCustomer(t *testing.T, server *testServer, name string) map[string]any {
	t.Helper()
	var customer map[string]any
	status := request(t, server, http.MethodPost, "/api/customers", map[string]any{
		"name":  name,
		"email": "kunde@example.com",
	}, &customer)
	if status != http.StatusCreated {
		t.Fatalf("create customer returned %d", status)
	}
	return customer
}

func createDeal(t *testing.T, server *testServer, customerID, title string) map[string]any {
	t.Helper()
	var deal map[string]any
	status := request(t, server, http.MethodPost, "/api/deals", map[string]any{
		"customerId": customerID,
		"title":      title,
	}, &deal)
	if status != http.StatusCreated {
		t.Fatalf("create deal returned %d", status)
	}
	return deal
}

func stringField(t *testing.T, record map[string]any, field string) string {
	t.Helper()
	value, ok := record[field].(string)
	if !ok {
		t.Fatalf("field %q missing or not a string: %v", field, record[field])
	}
	return value
}
