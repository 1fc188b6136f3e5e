package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lab-dispatch-service/internal/api/dto"
)

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestOptimizeOrdersStops(t *testing.T) {
	h := &RouteHandler{}

	body := `{
		"start": {"lat": 0, "lng": 0},
		"strategy": "nearest_neighbor",
		"stops": [
			{"id": "far", "type": "pickup", "clinic_id": "CLN-2", "lat": 0.05, "lng": 0},
			{"id": "near", "type": "delivery", "clinic_id": "CLN-1", "lat": 0.01, "lng": 0}
		]
	}`

	rec := postJSON(t, h.Optimize, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var res dto.OptimizeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(res.Stops) != 2 || res.Stops[0].ID != "near" || res.Stops[1].ID != "far" {
		t.Fatalf("stop order = %+v, want near then far", res.Stops)
	}
	if res.Stops[0].Sequence != 1 || res.Stops[1].Sequence != 2 {
		t.Errorf("sequences = %d, %d", res.Stops[0].Sequence, res.Stops[1].Sequence)
	}
	if res.Metrics.StopsTotal != 2 || res.Metrics.TotalDistanceKm <= 0 {
		t.Errorf("metrics = %+v", res.Metrics)
	}
}

func TestOptimizeRejectsBadInput(t *testing.T) {
	h := &RouteHandler{}

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"unknown field", `{"start": {"lat": 0, "lng": 0}, "bogus": 1, "stops": []}`},
		{"bad strategy", `{"start": {"lat": 0, "lng": 0}, "strategy": "magic", "stops": []}`},
		{"bad coordinates", `{"start": {"lat": 95, "lng": 0}, "stops": []}`},
		{"bad stop type", `{"start": {"lat": 0, "lng": 0}, "stops": [{"id": "x", "type": "dropoff", "lat": 0, "lng": 0}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, h.Optimize, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestOptimizeMethodNotAllowed(t *testing.T) {
	h := &RouteHandler{}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.Optimize(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != http.MethodPost {
		t.Errorf("Allow = %q, want POST", allow)
	}
}

func TestInsertPlacesStopAtCheapestPosition(t *testing.T) {
	h := &RouteHandler{}

	body := `{
		"start": {"lat": 0, "lng": 0},
		"stops": [
			{"id": "a", "type": "pickup", "lat": 0, "lng": 0.1},
			{"id": "b", "type": "pickup", "lat": 0, "lng": 0.3}
		],
		"new_stop": {"id": "new", "type": "delivery", "lat": 0, "lng": 0.2}
	}`

	rec := postJSON(t, h.Insert, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var res dto.InsertResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if res.Position != 2 {
		t.Errorf("position = %d, want 2", res.Position)
	}
	if len(res.Stops) != 3 || res.Stops[1].ID != "new" {
		t.Fatalf("stop order = %+v, want new at index 1", res.Stops)
	}
	if res.Metrics.StopsTotal != 3 {
		t.Errorf("metrics = %+v", res.Metrics)
	}
}
