package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/glidebook/glidebook/internal/booking"
	"github.com/glidebook/glidebook/internal/customer"
	httpmiddleware "github.com/glidebook/glidebook/internal/http/middleware"
	"github.com/glidebook/glidebook/internal/media"
	"github.com/glidebook/glidebook/internal/pricing"
	"github.com/glidebook/glidebook/internal/provider"
	"github.com/glidebook/glidebook/internal/servicearea"
	"github.com/glidebook/glidebook/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger *logging.Logger

	BookingHandler      *booking.Handler
	BookingStatsHandler *booking.StatsHandler
	ProviderHandler     *provider.Handler
	CustomerHandler     *customer.Handler
	PricingHandler      *pricing.Handler
	ServiceAreaHandler  *servicearea.Handler
	MediaHandler        *media.Handler

	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimitPerSecond > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}

	// Public endpoints.
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Admin console API, behind the admin JWT and business scoping.
	r.Route("/api", func(api chi.Router) {
		if cfg.AdminAuthSecret != "" {
			api.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
		}
		api.Use(requireBusinessID)

		api.Route("/admin", func(admin chi.Router) {
			if cfg.BookingHandler != nil {
				admin.Route("/bookings", func(b chi.Router) {
					b.Get("/", cfg.BookingHandler.List)
					b.Get("/calendar", cfg.BookingHandler.Calendar)
					if cfg.BookingStatsHandler != nil {
						b.Get("/stats", cfg.BookingStatsHandler.GetStats)
					}
					b.Patch("/{bookingID}/status", cfg.BookingHandler.ChangeStatus)
					b.Post("/{bookingID}/assign", cfg.BookingHandler.AssignProvider)
				})
			}
			if cfg.ProviderHandler != nil {
				admin.Get("/providers", cfg.ProviderHandler.List)
			}
			if cfg.CustomerHandler != nil {
				admin.Route("/customers", func(c chi.Router) {
					c.Get("/", cfg.CustomerHandler.List)
					c.Post("/", cfg.CustomerHandler.Create)
					c.Get("/{customerID}", cfg.CustomerHandler.Get)
					c.Put("/{customerID}", cfg.CustomerHandler.Update)
					c.Delete("/{customerID}", cfg.CustomerHandler.Delete)
				})
			}
			if cfg.MediaHandler != nil {
				admin.Route("/media", func(m chi.Router) {
					m.Post("/{kind}", cfg.MediaHandler.Upload)
					m.Get("/{kind}/{mediaID}", cfg.MediaHandler.Serve)
					m.Delete("/{kind}/{mediaID}", cfg.MediaHandler.Delete)
				})
			}
		})

		if cfg.PricingHandler != nil {
			api.Route("/pricing-parameters", func(p chi.Router) {
				p.Get("/", cfg.PricingHandler.ListParameters)
				p.Post("/", cfg.PricingHandler.SaveParameter)
				p.Put("/{parameterID}", cfg.PricingHandler.SaveParameter)
				p.Delete("/{parameterID}", cfg.PricingHandler.DeleteParameter)
			})
			api.Route("/extras", func(e chi.Router) {
				e.Get("/", cfg.PricingHandler.ListExtras)
				e.Post("/", cfg.PricingHandler.SaveExtra)
				e.Put("/{extraID}", cfg.PricingHandler.SaveExtra)
			})
			api.Route("/industry-frequency", func(f chi.Router) {
				f.Get("/", cfg.PricingHandler.ListFrequencies)
				f.Post("/", cfg.PricingHandler.SaveFrequency)
				f.Put("/{frequencyID}", cfg.PricingHandler.SaveFrequency)
			})
			api.Route("/locations", func(l chi.Router) {
				l.Get("/", cfg.PricingHandler.ListLocations)
				l.Post("/", cfg.PricingHandler.SaveLocation)
				l.Put("/{locationID}", cfg.PricingHandler.SaveLocation)
			})
		}
		if cfg.ServiceAreaHandler != nil {
			api.Post("/service-areas/{locationID}/resolve", cfg.ServiceAreaHandler.Resolve)
		}
	})

	return r
}
