package www

import (
	"net/http"

	"servicetrack/engine"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	engine   *engine.Engine
	sessions *sessionStore
	eventHub *EventHub
}

// NewRouter creates the chi router and returns it along with a stop function.
func NewRouter(eng *engine.Engine) (http.Handler, func()) {
	h := &Handlers{
		engine:   eng,
		sessions: newSessionStore(eng.AppConfig().Web.SessionSecret),
		eventHub: NewEventHub(),
	}

	h.eventHub.Start()
	h.eventHub.SetupEngineListeners(eng)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(h.corsMiddleware)

	// Live dashboard feed
	r.Get("/events", h.eventHub.HandleSSE)

	// Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Auth
		r.Post("/register", h.apiRegister)
		r.Post("/login", h.apiLogin)
		r.Post("/logout", h.apiLogout)

		// Stage-event submission (scanner clients)
		r.Post("/vehicle-check", h.apiVehicleCheck)

		// Vehicle queries
		r.Get("/vehicles", h.apiListVehicles)
		r.Get("/vehicles/bay-allocation-in-progress", h.apiBayAllocationInProgress)
		r.Get("/vehicles/interactive-started", h.apiInteractiveStarted)
		r.Get("/vehicles/{vehicleNumber}", h.apiGetVehicle)
		r.Get("/finished-interactive-bay", h.apiFinishedInteractiveBay)

		// Dashboards
		r.Get("/dashboard/stage-performance", h.apiStagePerformance)
		r.Get("/dashboard/vehicle/{vehicleNumber}", h.apiVehicleTimeline)
		r.Get("/dashboard/vehicle-count-per-stage", h.apiVehicleCountPerStage)
		r.Get("/dashboard/all-vehicles", h.apiAllVehicleTimelines)
		r.Get("/dashboard/pending-vehicles", h.apiPendingVehicles)

		// Admin
		r.Group(func(r chi.Router) {
			r.Use(h.adminMiddleware)
			r.Get("/users", h.apiListUsers)
			r.Delete("/vehicles", h.apiDeleteVehicles)
		})
	})

	return r, func() {
		h.eventHub.Stop()
	}
}

// corsMiddleware applies the configured origin allow-list. Requests without
// an Origin header (scanners, curl) pass through untouched.
func (h *Handlers) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			for _, allowed := range h.engine.AppConfig().Web.CORSOrigins {
				if allowed == origin {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Credentials", "true")
					w.Header().Set("Vary", "Origin")
					break
				}
			}
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
