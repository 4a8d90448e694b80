package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/darknebula/leadchat/internal/http/middleware"
	"github.com/darknebula/leadchat/internal/leads"
	"github.com/darknebula/leadchat/internal/webchat"
	"github.com/darknebula/leadchat/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	ChatHandler        *webchat.Handler
	LeadsHandler       *leads.Handler
	MetricsHandler     http.Handler
	AdminAuthSecret    string
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured.
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

	r.Group(func(public chi.Router) {
		public.Get("/healthz", handleHealth)

		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		if cfg.ChatHandler != nil {
			public.Route("/chat", func(chat chi.Router) {
				chat.Get("/ws", cfg.ChatHandler.HandleWebSocket)
				chat.Post("/message", cfg.ChatHandler.HandleMessage)
				chat.Get("/history", cfg.ChatHandler.HandleHistory)
				chat.Get("/state", cfg.ChatHandler.HandleState)
				chat.Post("/reset", cfg.ChatHandler.HandleReset)
				chat.Post("/contact-url", cfg.ChatHandler.HandleContactURL)
			})
		}

		if cfg.LeadsHandler != nil {
			public.Post("/leads/web", cfg.LeadsHandler.CreateWebLead)
		}
	})

	if cfg.LeadsHandler != nil && cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/leads", cfg.LeadsHandler.ListLeads)
			admin.Get("/leads/{id}", cfg.LeadsHandler.GetLead)
		})
	}

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
