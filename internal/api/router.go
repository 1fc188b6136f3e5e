package api

import (
	"net/http"

	"lab-dispatch-service/internal/api/handlers"
	"lab-dispatch-service/internal/ports"
	"lab-dispatch-service/internal/queue"
)

// Deps collects everything the HTTP surface needs. Handlers stay unaware
// of concrete adapters.
type Deps struct {
	Clinics  ports.ClinicRepository
	Index    ports.ProximityIndex
	Queue    *queue.Queue
	Handlers map[string]queue.Handler
}

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root.
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{}
	dispatchHandler := &handlers.DispatchHandler{Clinics: deps.Clinics}
	windowHandler := &handlers.WindowHandler{Clinics: deps.Clinics}
	actionHandler := &handlers.ActionHandler{Queue: deps.Queue, Handlers: deps.Handlers}
	clinicHandler := &handlers.ClinicHandler{Index: deps.Index}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/routes/optimize", routeHandler.Optimize)
	mux.HandleFunc("/routes/insert", routeHandler.Insert)
	mux.HandleFunc("/transitions/validate", dispatchHandler.ValidateTransition)
	mux.HandleFunc("/windows/validate", windowHandler.Validate)
	mux.HandleFunc("/windows/available", windowHandler.Available)
	mux.HandleFunc("/actions", actionHandler.Enqueue)
	mux.HandleFunc("/actions/pending", actionHandler.ListPending)
	mux.HandleFunc("/actions/sync", actionHandler.Sync)
	mux.HandleFunc("/clinics/nearby", clinicHandler.Nearby)

	return requestIDMiddleware(loggingMiddleware(mux))
}
