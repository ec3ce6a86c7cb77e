package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/xuri/excelize/v2"

	"solar-capex/core/types"
	"solar-capex/internal/config"
)

const panelScenario = `{
  "id": "%s",
  "variables": {"dc_capacity_kwp": %s, "ac_capacity_mw": 0.8, "p50_mwh_year": 1600},
  "markup": {"enabled": true, "admin_pct": 5, "contingency_pct": 3, "profit_pct": 8},
  "items": [{"id": "PAN-01", "name": "Paneles", "category": "PV-MOD", "quantity": 1000, "unit_price": "%s", "vat_rate": 19}]
}`

func scenarioJSON(id, dc, price string) string {
	return fmt.Sprintf(panelScenario, id, dc, price)
}

func newTestServer() *Server {
	return NewServer("test", config.Default().Engine, nil)
}

func post(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestEvaluate(t *testing.T) {
	rec := post(t, newTestServer(), "/evaluate", `{"scenario": `+scenarioJSON("base", "1000", "1.20")+`}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		RequestID string `json:"request_id"`
		Totals    struct {
			GrandTotalExclVAT string `json:"grand_total_excl_vat"`
			Markup            struct {
				Total string `json:"markup_total"`
			} `json:"markup"`
		} `json:"totals"`
		Metadata ResponseMetadata `json:"metadata"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Totals.GrandTotalExclVAT != "1392" || resp.Totals.Markup.Total != "192" {
		t.Errorf("unexpected totals %+v", resp.Totals)
	}
	if resp.RequestID == "" {
		t.Error("expected request id")
	}
	if len(resp.Metadata.InputHash) != 64 {
		t.Errorf("expected sha256 input hash, got %q", resp.Metadata.InputHash)
	}
}

func TestCompare(t *testing.T) {
	body := `{"a": ` + scenarioJSON("a", "0", "1.20") + `, "b": ` + scenarioJSON("b", "1000", "1.10") + `}`
	rec := post(t, newTestServer(), "/compare", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Comparison struct {
			Totals []struct {
				Name  string `json:"name"`
				Delta struct {
					Abs types.Metric `json:"delta_abs"`
				} `json:"delta"`
			} `json:"totals"`
			ModifiedCount int `json:"modified_count"`
		} `json:"comparison"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Comparison.ModifiedCount != 1 {
		t.Errorf("expected one modified item, got %d", resp.Comparison.ModifiedCount)
	}
	for _, total := range resp.Comparison.Totals {
		if total.Name == "cost_per_kwp" && total.Delta.Abs.State() != types.MetricNotComputable {
			t.Errorf("expected NotComputable cost_per_kwp delta, got %s", total.Delta.Abs)
		}
		if total.Name == "grand_total_excl_vat" {
			if v, _ := total.Delta.Abs.Value(); v.String() != "-116" {
				t.Errorf("expected -116, got %s", total.Delta.Abs)
			}
		}
	}
}

func TestMatrix(t *testing.T) {
	body := `{"scenarios": [` + scenarioJSON("a", "1000", "1.20") + `,` + scenarioJSON("b", "1000", "1.10") + `]}`
	rec := post(t, newTestServer(), "/matrix", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"TOTAL_PROJECT"`) {
		t.Errorf("expected TOTAL_PROJECT row: %s", rec.Body.String())
	}

	rec = post(t, newTestServer(), "/matrix", `{"scenarios": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty matrix, got %d", rec.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"malformed json", "/evaluate", `{"scenario": `, http.StatusBadRequest, "PARSING_ERROR"},
		{"unknown field", "/evaluate", `{"scenaro": {}}`, http.StatusBadRequest, "PARSING_ERROR"},
		{"negative price", "/evaluate", `{"scenario": ` + scenarioJSON("x", "1000", "-1") + `}`, http.StatusUnprocessableEntity, "INVALID_PRICING_INPUT"},
		{"markup out of range", "/evaluate", `{"scenario": {"markup": {"enabled": true, "admin_pct": 120}}}`, http.StatusUnprocessableEntity, "INVALID_FACTOR"},
		{"per capacity without capacity", "/evaluate", `{"scenario": {"items": [{"id": "EPC", "pricing_mode": "PER_CAPACITY", "unit_price": 10}]}}`, http.StatusUnprocessableEntity, "INVALID_PRICING_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, newTestServer(), tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid error response: %v", err)
			}
			if resp.Error.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, resp.Error.Code)
			}
		})
	}
}

func TestExport(t *testing.T) {
	rec := post(t, newTestServer(), "/export", `{"scenario": `+scenarioJSON("base", "1000", "1.20")+`}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "base.xlsx") {
		t.Errorf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
	}
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a workbook: %v", err)
	}
	defer f.Close()
}

func TestHealthVersionCatalog(t *testing.T) {
	s := newTestServer()
	for _, path := range []string{"/health", "/version", "/catalog"} {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog", nil))
	if !strings.Contains(rec.Body.String(), "PV-MOD") {
		t.Errorf("catalog should list PV-MOD: %s", rec.Body.String())
	}
}
