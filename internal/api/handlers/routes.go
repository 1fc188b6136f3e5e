package handlers

import (
	"net/http"
	"time"

	"lab-dispatch-service/internal/api/dto"
	"lab-dispatch-service/internal/domain"
	"lab-dispatch-service/internal/services"
)

// RouteHandler exposes the route optimization heuristics.
type RouteHandler struct{}

// Optimize orders the submitted stops with the requested strategy and
// returns them with sequence, leg distances, ETAs, and derived metrics.
func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req dto.OptimizeRequest
	defer r.Body.Close()
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	start, stops, errMsg := buildStops(req.Start, req.Stops)
	if errMsg != "" {
		writeError(w, r, http.StatusBadRequest, errMsg)
		return
	}

	var ordered []*domain.RouteStop
	switch req.Strategy {
	case "", "nearest_neighbor":
		ordered = services.NearestNeighborRoute(stops, start)
	case "time_windows":
		now := time.Now()
		if req.Now != nil {
			now = *req.Now
		}
		ordered = services.OptimizeByTimeWindows(stops, start, now)
	default:
		writeError(w, r, http.StatusBadRequest, "strategy must be nearest_neighbor or time_windows")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.OptimizeResponse{
		Stops:   stopResponses(ordered),
		Metrics: metricsResponse(services.RouteMetrics(ordered)),
	})
}

// Insert places one new stop into an existing ordered route at the
// position of minimum marginal cost.
func (h *RouteHandler) Insert(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req dto.InsertRequest
	defer r.Body.Close()
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	start, stops, errMsg := buildStops(req.Start, req.Stops)
	if errMsg != "" {
		writeError(w, r, http.StatusBadRequest, errMsg)
		return
	}

	newStops, errMsg2 := toRouteStops([]dto.StopRequest{req.NewStop})
	if errMsg2 != "" {
		writeError(w, r, http.StatusBadRequest, errMsg2)
		return
	}
	newStop := newStops[0]

	updated := services.InsertStop(stops, newStop, start)

	writeJSON(w, r, http.StatusOK, dto.InsertResponse{
		Stops:    stopResponses(updated),
		Position: newStop.Sequence,
		Metrics:  metricsResponse(services.RouteMetrics(updated)),
	})
}

func buildStops(startDTO dto.Coordinates, stopDTOs []dto.StopRequest) (domain.Coordinates, []*domain.RouteStop, string) {
	start := domain.Coordinates{Lat: startDTO.Lat, Lng: startDTO.Lng}
	if err := start.Validate(); err != nil {
		return domain.Coordinates{}, nil, "start: " + err.Error()
	}

	stops, errMsg := toRouteStops(stopDTOs)
	if errMsg != "" {
		return domain.Coordinates{}, nil, errMsg
	}

	return start, stops, ""
}

func toRouteStops(stopDTOs []dto.StopRequest) ([]*domain.RouteStop, string) {
	stops := make([]*domain.RouteStop, 0, len(stopDTOs))
	for _, s := range stopDTOs {
		c := domain.Coordinates{Lat: s.Lat, Lng: s.Lng}
		if err := c.Validate(); err != nil {
			return nil, "stop " + s.ID + ": " + err.Error()
		}

		stopType := domain.StopType(s.Type)
		switch stopType {
		case domain.StopPickup, domain.StopDelivery:
		default:
			return nil, "stop " + s.ID + ": type must be pickup or delivery"
		}

		stops = append(stops, &domain.RouteStop{
			ID:             s.ID,
			Type:           stopType,
			ClinicID:       s.ClinicID,
			Coordinates:    c,
			Status:         domain.StatusPending,
			DesiredArrival: s.DesiredArrival,
		})
	}
	return stops, ""
}

func stopResponses(stops []*domain.RouteStop) []dto.StopResponse {
	out := make([]dto.StopResponse, 0, len(stops))
	for _, s := range stops {
		out = append(out, dto.StopResponse{
			ID:               s.ID,
			Type:             string(s.Type),
			ClinicID:         s.ClinicID,
			Sequence:         s.Sequence,
			Lat:              s.Coordinates.Lat,
			Lng:              s.Coordinates.Lng,
			LegDistanceKm:    s.LegDistanceKm,
			EstimatedArrival: s.EstimatedArrival,
		})
	}
	return out
}

func metricsResponse(m domain.RouteMetrics) dto.RouteMetricsResponse {
	return dto.RouteMetricsResponse{
		TotalDistanceKm:      m.TotalDistanceKm,
		EstimatedDurationMin: m.EstimatedDurationMin,
		StopsTotal:           m.StopsTotal,
	}
}
