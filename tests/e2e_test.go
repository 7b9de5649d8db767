package tests

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

// TestDealPipelineEndToEnd walks a deal from first contact into the
// contract phase: create, read the transition options, follow the
// shortcut, and confirm the transition landed in both the deal and its
// timeline.
func TestDealPipelineEndToEnd(t *testing.T) {
	server := newTestServer(t)

	customer := createCustomer(t, server, "Müller GmbH")
	deal := createDeal(t, server, stringField(t, customer, "id"), "PV-Anlage Dachmontage")
	dealID := stringField(t, deal, "id")

	if got := stringField(t, deal, "status"); got != "appointment_acquired" {
		t.Fatalf("new deal must start at appointment_acquired, got %q", got)
	}

	var options struct {
		Current           string   `json:"current"`
		Phase             string   `json:"phase"`
		SamePhaseOptions  []string `json:"samePhaseOptions"`
		NextPhaseShortcut *string  `json:"nextPhaseShortcut"`
	}
	status := request(t, server, http.MethodGet, "/api/deals/"+dealID+"/transitions", nil, &options)
	if status != http.StatusOK {
		t.Fatalf("transitions returned %d", status)
	}
	if options.Phase != "sales" {
		t.Errorf("expected sales phase, got %q", options.Phase)
	}
	if len(options.SamePhaseOptions) != 4 {
		t.Errorf("expected 4 same-phase options, got %v", options.SamePhaseOptions)
	}
	if options.NextPhaseShortcut == nil || *options.NextPhaseShortcut != "contract_type_selection" {
		t.Fatalf("expected shortcut contract_type_selection, got %v", options.NextPhaseShortcut)
	}

	var updated map[string]any
	status = request(t, server, http.MethodPost, "/api/deals/"+dealID+"/status", map[string]any{
		"status":  *options.NextPhaseShortcut,
		"comment": "customer committed on site",
	}, &updated)
	if status != http.StatusOK {
		t.Fatalf("status change returned %d", status)
	}
	if got := stringField(t, updated, "status"); got != "contract_type_selection" {
		t.Fatalf("deal status not updated, got %q", got)
	}

	status = request(t, server, http.MethodGet, "/api/deals/"+dealID+"/transitions", nil, &options)
	if status != http.StatusOK {
		t.Fatalf("transitions returned %d", status)
	}
	if options.Phase != "contract" {
		t.Errorf("after the shortcut the deal must sit in the contract phase, got %q", options.Phase)
	}

	var timeline struct {
		Items []struct {
			Kind         string `json:"kind"`
			StatusChange *struct {
				PreviousStatus *string `json:"previous_status"`
				NewStatus      string  `json:"new_status"`
			} `json:"statusChange"`
		} `json:"items"`
		Total int `json:"total"`
	}
	status = request(t, server, http.MethodGet, "/api/deals/"+dealID+"/timeline?expand=true", nil, &timeline)
	if status != http.StatusOK {
		t.Fatalf("timeline returned %d", status)
	}
	if timeline.Total != 2 {
		t.Fatalf("expected created entry + status change, got %d items", timeline.Total)
	}

	var sawTransition bool
	for _, item := range timeline.Items {
		if item.Kind == "status_change" && item.StatusChange != nil {
			sawTransition = true
			if item.StatusChange.NewStatus != "contract_type_selection" {
				t.Errorf("recorded transition targets %q", item.StatusChange.NewStatus)
			}
			if item.StatusChange.PreviousStatus == nil || *item.StatusChange.PreviousStatus != "appointment_acquired" {
				t.Errorf("recorded transition previous = %v", item.StatusChange.PreviousStatus)
			}
		}
	}
	if !sawTransition {
		t.Error("timeline is missing the status-change entry")
	}
}

func TestUnknownStatusRejected(t *testing.T) {
	server := newTestServer(t)

	customer := createCustomer(t, server, "Schmidt KG")
	deal := createDeal(t, server, stringField(t, customer, "id"), "Wallbox")
	dealID := stringField(t, deal, "id")

	status := request(t, server, http.MethodPost, "/api/deals/"+dealID+"/status", map[string]any{
		"status": "teleported_to_mars",
	}, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("unknown status must return 400, got %d", status)
	}

	var current map[string]any
	request(t, server, http.MethodGet, "/api/deals/"+dealID, nil, &current)
	if got := stringField(t, current, "status"); got != "appointment_acquired" {
		t.Errorf("rejected write must not change the deal, status is %q", got)
	}
}

func TestActivityEditWindowOverHTTP(t *testing.T) {
	server := newTestServer(t)

	customer := createCustomer(t, server, "Weber & Sohn")
	deal := createDeal(t, server, stringField(t, customer, "id"), "Speicher-Nachrüstung")
	dealID := stringField(t, deal, "id")

	var created struct {
		Activity             map[string]any `json:"activity"`
		Editable             bool           `json:"editable"`
		RemainingEditMinutes int            `json:"remainingEditMinutes"`
	}
	status := request(t, server, http.MethodPost, "/api/deals/"+dealID+"/activities", map[string]any{
		"content": "Vor-Ort-Termin vereinbart",
	}, &created)
	if status != http.StatusCreated {
		t.Fatalf("add activity returned %d", status)
	}
	if !created.Editable || created.RemainingEditMinutes != 60 {
		t.Fatalf("fresh note must be editable for 60 minutes, got editable=%v remaining=%d",
			created.Editable, created.RemainingEditMinutes)
	}
	activityID := stringField(t, created.Activity, "id")

	server.advance(30 * time.Minute)
	status = request(t, server, http.MethodPut, "/api/activities/"+activityID, map[string]any{
		"content": "Termin auf Donnerstag verschoben",
	}, &created)
	if status != http.StatusOK {
		t.Fatalf("edit inside the window returned %d", status)
	}

	server.advance(30 * time.Minute)
	status = request(t, server, http.MethodPut, "/api/activities/"+activityID, map[string]any{
		"content": "zu spät",
	}, nil)
	if status != http.StatusConflict {
		t.Fatalf("edit at the window boundary must return 409, got %d", status)
	}

	status = request(t, server, http.MethodDelete, "/api/activities/"+activityID, nil, nil)
	if status != http.StatusConflict {
		t.Fatalf("delete after the window must return 409, got %d", status)
	}
}

func TestTimelineDefaultPageAndExpand(t *testing.T) {
	server := newTestServer(t)

	customer := createCustomer(t, server, "Becker Haustechnik")
	deal := createDeal(t, server, stringField(t, customer, "id"), "Wärmepumpe")
	dealID := stringField(t, deal, "id")

	for i := 0; i < 7; i++ {
		server.advance(time.Minute)
		status := request(t, server, http.MethodPost, "/api/deals/"+dealID+"/activities", map[string]any{
			"content": fmt.Sprintf("Notiz %d", i),
		}, nil)
		if status != http.StatusCreated {
			t.Fatalf("add activity returned %d", status)
		}
	}

	var page struct {
		Items []map[string]any `json:"items"`
		Total int              `json:"total"`
	}
	status := request(t, server, http.MethodGet, "/api/deals/"+dealID+"/timeline", nil, &page)
	if status != http.StatusOK {
		t.Fatalf("timeline returned %d", status)
	}
	if len(page.Items) != 5 {
		t.Errorf("default page must hold 5 items, got %d", len(page.Items))
	}
	if page.Total != 8 {
		t.Errorf("total must count 7 notes + created entry, got %d", page.Total)
	}

	status = request(t, server, http.MethodGet, "/api/deals/"+dealID+"/timeline?expand=true", nil, &page)
	if status != http.StatusOK {
		t.Fatalf("expanded timeline returned %d", status)
	}
	if len(page.Items) != 8 {
		t.Errorf("expand must return all 8 items, got %d", len(page.Items))
	}
}

func TestDealDeleteCascadesOverHTTP(t *testing.T) {
	server := newTestServer(t)

	customer := createCustomer(t, server, "Hoffmann Solar")
	deal := createDeal(t, server, stringField(t, customer, "id"), "Carport-Anlage")
	dealID := stringField(t, deal, "id")

	var created struct {
		Activity map[string]any `json:"activity"`
	}
	request(t, server, http.MethodPost, "/api/deals/"+dealID+"/activities", map[string]any{
		"content": "wird gelöscht",
	}, &created)
	activityID := stringField(t, created.Activity, "id")

	status := request(t, server, http.MethodDelete, "/api/deals/"+dealID, nil, nil)
	if status != http.StatusNoContent {
		t.Fatalf("delete deal returned %d", status)
	}

	if status := request(t, server, http.MethodGet, "/api/deals/"+dealID, nil, nil); status != http.StatusNotFound {
		t.Errorf("deleted deal must return 404, got %d", status)
	}
	if status := request(t, server, http.MethodPut, "/api/activities/"+activityID, map[string]any{
		"content": "noch da?",
	}, nil); status != http.StatusNotFound {
		t.Errorf("cascaded activity must return 404, got %d", status)
	}
}
