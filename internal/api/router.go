package api

import (
	"net/http"

	"github.com/rpattn/fleetgrid/internal/auth"
	"github.com/rpattn/fleetgrid/internal/middleware"
	"github.com/rpattn/fleetgrid/internal/ws"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth        *AuthHandler
	Vehicles    *VehicleHandler
	Coordinates *CoordinatesHandler
	Imports     *ImportHandler
	WS          *ws.Handler
	Sessions    *auth.SessionStore
}

// NewRouter mounts all routes. Everything under /api except login is
// session-protected; the websocket endpoint is open so dashboards can
// subscribe before logging in.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()
	protect := middleware.RequireSession(h.Sessions)

	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)
	mux.Handle("GET /api/auth/me", protect(http.HandlerFunc(h.Auth.Me)))

	mux.Handle("POST /api/vehicles/table", protect(http.HandlerFunc(h.Vehicles.Table)))
	mux.Handle("POST /api/vehicles", protect(http.HandlerFunc(h.Vehicles.Create)))
	mux.Handle("GET /api/vehicles/{id}", protect(http.HandlerFunc(h.Vehicles.Get)))
	mux.Handle("PUT /api/vehicles/{id}", protect(http.HandlerFunc(h.Vehicles.Update)))
	mux.Handle("DELETE /api/vehicles/{id}", protect(http.HandlerFunc(h.Vehicles.Delete)))
	mux.Handle("GET /api/vehicles/special/min-distance", protect(http.HandlerFunc(h.Vehicles.MinDistance)))
	mux.Handle("GET /api/vehicles/special/fuel-gt/count", protect(http.HandlerFunc(h.Vehicles.CountFuelGreaterThan)))
	mux.Handle("GET /api/vehicles/special/fuel-gt/ids", protect(http.HandlerFunc(h.Vehicles.ListFuelGreaterThan)))
	mux.Handle("GET /api/vehicles/special/by-type/ids", protect(http.HandlerFunc(h.Vehicles.ListByType)))
	mux.Handle("GET /api/vehicles/special/engine-between/ids", protect(http.HandlerFunc(h.Vehicles.ListEngineBetween)))

	mux.Handle("POST /api/coordinates/table", protect(http.HandlerFunc(h.Coordinates.Table)))
	mux.Handle("POST /api/coordinates", protect(http.HandlerFunc(h.Coordinates.Create)))
	mux.Handle("GET /api/coordinates/search", protect(http.HandlerFunc(h.Coordinates.Search)))
	mux.Handle("GET /api/coordinates/{id}", protect(http.HandlerFunc(h.Coordinates.Get)))
	mux.Handle("PUT /api/coordinates/{id}", protect(http.HandlerFunc(h.Coordinates.Update)))
	mux.Handle("DELETE /api/coordinates/{id}", protect(http.HandlerFunc(h.Coordinates.Delete)))
	mux.Handle("GET /api/coordinates/{id}/vehicle-count", protect(http.HandlerFunc(h.Coordinates.VehicleCount)))

	mux.Handle("POST /api/import/vehicles", protect(http.HandlerFunc(h.Imports.Import)))
	mux.Handle("GET /api/import/history", protect(http.HandlerFunc(h.Imports.History)))
	mux.Handle("GET /api/import/operations/{id}/file", protect(http.HandlerFunc(h.Imports.File)))

	mux.Handle("GET /ws/vehicles", h.WS)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return mux
}
