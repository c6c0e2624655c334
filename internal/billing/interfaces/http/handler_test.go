package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tariff-engine/internal/billing/application"
	billing "tariff-engine/internal/billing/domain"
	billingmem "tariff-engine/internal/billing/infrastructure/memory"
	telemetry "tariff-engine/internal/telemetry/domain"
	telemetrymem "tariff-engine/internal/telemetry/infrastructure/memory"
	topologyapp "tariff-engine/internal/topology/application"
	topology "tariff-engine/internal/topology/domain"
	topologymem "tariff-engine/internal/topology/infrastructure/memory"
)

func newTestHandler(t *testing.T) *BillsHandler {
	t.Helper()
	nodes := topologymem.NewNodeRepository()
	store := telemetrymem.NewTelemetryStore()
	config := billingmem.NewConfigRepository()
	rates := billingmem.NewRateRepository()

	node := topology.MeteringNode{
		ID: "site", Name: "Site", Path: "/site", Level: 1,
		MeteringType: topology.MeteringTypeMetered,
		LinkedMeters: []topology.LinkedMeter{{MeterID: "m", Operation: topology.MeterOperationAdd}},
	}
	if err := nodes.AddNode(node, ""); err != nil {
		t.Fatalf("add node: %v", err)
	}
	nodes.SetMeterAddress("m", "addr")
	store.AddSample("addr", telemetry.Sample{
		Timestamp: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		Fields:    map[string]float64{"energy": 100},
	})
	if err := config.SetSignalMappings([]billing.SignalMapping{
		{Unit: billing.UnitKWh, FieldID: "energy", Reduction: billing.ReductionSum},
	}); err != nil {
		t.Fatalf("set mappings: %v", err)
	}
	if err := config.SetComponents([]billing.BillingComponent{
		{ID: "e1", Order: 1, CategoryID: "energy", Name: "Energy charge", Method: billing.MethodPerUnit, UnitBasis: billing.UnitKWh, Enabled: true},
	}); err != nil {
		t.Fatalf("set components: %v", err)
	}
	config.SetCategories([]billing.Category{{ID: "energy", Name: "Energy", Order: 1}})
	rates.Commit(billing.RateSet{
		Month:       "2025-03",
		CommittedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Values:      map[string]float64{"e1": 0.5},
	})

	resolver, err := topologyapp.NewResolver(nodes, store, store)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	service, err := application.NewBillService(resolver, config, rates)
	if err != nil {
		t.Fatalf("new bill service: %v", err)
	}
	handler, err := NewBillsHandler(service)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return handler
}

func TestBillsHandlerComputes(t *testing.T) {
	handler := newTestHandler(t)
	body := `{"node_path":"/site","start":"2025-03-01T00:00:00Z","end":"2025-03-31T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bills/compute", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected json content type, got %q", got)
	}
	payload := rec.Body.String()
	if !strings.Contains(payload, `"grand_total":50`) {
		t.Fatalf("expected grand total 50 in response, got %s", payload)
	}
	if !strings.Contains(payload, `"rate_set_month":"2025-03"`) {
		t.Fatalf("expected rate set month in response, got %s", payload)
	}
}

func TestBillsHandlerUnknownNode(t *testing.T) {
	handler := newTestHandler(t)
	body := `{"node_path":"/missing","start":"2025-03-01T00:00:00Z","end":"2025-03-31T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bills/compute", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestBillsHandlerRejectsBadRequests(t *testing.T) {
	handler := newTestHandler(t)
	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing node path", `{"start":"2025-03-01T00:00:00Z","end":"2025-03-31T00:00:00Z"}`},
		{"bad start", `{"node_path":"/site","start":"yesterday","end":"2025-03-31T00:00:00Z"}`},
		{"bad end", `{"node_path":"/site","start":"2025-03-01T00:00:00Z","end":"soon"}`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bills/compute", strings.NewReader(tc.body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, rec.Code)
		}
	}
}

func TestBillsHandlerMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bills/compute", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
