package api

import (
	"net/http"

	"github.com/binhauler/binhauler/internal/auth"
	"github.com/binhauler/binhauler/internal/geo"
	"github.com/binhauler/binhauler/internal/imaging"
	"github.com/binhauler/binhauler/internal/model"
	"github.com/binhauler/binhauler/internal/store"
)

// Services are the collaborators the API is built on. All fields are required.
type Services struct {
	Locations *store.LocationStore
	Signer    *auth.Signer
	Tracker   *geo.Tracker
	Photos    *imaging.Processor
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(svc Services) http.Handler {
	mux := http.NewServeMux()
	db := svc.Locations.DB()

	authHandler := &AuthHandler{DB: db, Signer: svc.Signer}
	usersHandler := &UsersHandler{DB: db}
	assetsHandler := &AssetsHandler{
		Locations: svc.Locations,
		Tracker:   svc.Tracker,
		Jobs:      store.JobDirectory{DB: db},
	}
	photosHandler := &PhotosHandler{DB: db, Processor: svc.Photos}
	yardsHandler := &YardsHandler{DB: db}
	jobsHandler := &JobsHandler{DB: db}
	fleetHandler := &FleetHandler{Locations: svc.Locations}

	authMW := AuthMiddleware(svc.Signer, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireDispatcher := RequireRole(model.RoleDispatcher)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Assets: read and move (all roles), registry changes (dispatcher+), delete (admin).
	mux.Handle("GET /api/assets", authMW(http.HandlerFunc(assetsHandler.List)))
	mux.Handle("POST /api/assets", authMW(requireDispatcher(http.HandlerFunc(assetsHandler.Create))))
	mux.Handle("GET /api/assets/{id}", authMW(http.HandlerFunc(assetsHandler.Get)))
	mux.Handle("PUT /api/assets/{id}/status", authMW(requireDispatcher(http.HandlerFunc(assetsHandler.UpdateStatus))))
	mux.Handle("DELETE /api/assets/{id}", authMW(requireAdmin(http.HandlerFunc(assetsHandler.Delete))))
	mux.Handle("POST /api/assets/{id}/location", authMW(http.HandlerFunc(assetsHandler.RecordLocation)))
	mux.Handle("POST /api/assets/{id}/samples", authMW(http.HandlerFunc(assetsHandler.RecordSample)))
	mux.Handle("GET /api/assets/{id}/timeline", authMW(http.HandlerFunc(assetsHandler.Timeline)))

	// Photos (all roles).
	mux.Handle("PUT /api/assets/{id}/photos", authMW(http.HandlerFunc(photosHandler.Upload)))
	mux.Handle("GET /api/assets/{id}/photos", authMW(http.HandlerFunc(photosHandler.List)))
	mux.Handle("GET /api/photos/{id}", authMW(http.HandlerFunc(photosHandler.Get)))

	// Yards: read (all roles), write (dispatcher+).
	mux.Handle("GET /api/yards", authMW(http.HandlerFunc(yardsHandler.List)))
	mux.Handle("POST /api/yards", authMW(requireDispatcher(http.HandlerFunc(yardsHandler.Create))))
	mux.Handle("GET /api/yards/nearest", authMW(http.HandlerFunc(yardsHandler.Nearest)))
	mux.Handle("GET /api/yards/{id}", authMW(http.HandlerFunc(yardsHandler.Get)))

	// Jobs: read (all roles), write (dispatcher+).
	mux.Handle("GET /api/jobs", authMW(http.HandlerFunc(jobsHandler.List)))
	mux.Handle("POST /api/jobs", authMW(requireDispatcher(http.HandlerFunc(jobsHandler.Create))))
	mux.Handle("GET /api/jobs/{id}", authMW(http.HandlerFunc(jobsHandler.Get)))
	mux.Handle("PUT /api/jobs/{id}/status", authMW(requireDispatcher(http.HandlerFunc(jobsHandler.UpdateStatus))))

	// Fleet dashboard (all roles).
	mux.Handle("GET /api/fleet/stats", authMW(http.HandlerFunc(fleetHandler.Stats)))
	mux.Handle("GET /api/fleet/map", authMW(http.HandlerFunc(fleetHandler.Map)))

	return mux
}
