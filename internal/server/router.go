package server

import (
	"net/http"
	"strings"

	"github.com/phodsawiR/MedGuideApp2/internal/server/handlers"
	"github.com/phodsawiR/MedGuideApp2/internal/server/middleware"
	"github.com/phodsawiR/MedGuideApp2/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(
		s.engine,
		s.cache,
		s.broker,
		s.wsHub,
		s.sseBroadcaster,
		s.upgrader,
		s.logger,
	)

	s.registerRoutes(mux, h)
	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	// Return 204 for favicons to avoid 404 noise in logs.
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public health endpoints
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/ready", h.HandleReady)

	// Topic endpoints
	mux.HandleFunc(prefix+"/topics", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.HandleListTopics(w, r)
		case http.MethodPost:
			h.HandleCreateTopic(w, r)
		default:
			response.MethodNotAllowed(w, r.Method)
		}
	})

	mux.HandleFunc(prefix+"/topics/", func(w http.ResponseWriter, r *http.Request) {
		id := extractPathParam(r.URL.Path, prefix+"/topics/")
		if id == "" {
			response.NotFound(w, "Topic ID required", "")
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.HandleGetTopic(w, r, id)
		case http.MethodPut:
			h.HandleUpdateTopic(w, r, id)
		case http.MethodDelete:
			h.HandleDeleteTopic(w, r, id)
		default:
			response.MethodNotAllowed(w, r.Method)
		}
	})

	mux.HandleFunc(prefix+"/systems", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		h.HandleListSystems(w, r)
	})

	// Progress endpoints
	mux.HandleFunc(prefix+"/progress", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		h.HandleGetProgress(w, r)
	})

	mux.HandleFunc(prefix+"/progress/", func(w http.ResponseWriter, r *http.Request) {
		parts := splitPath(r.URL.Path[len(prefix+"/progress/"):])
		if len(parts) == 2 && parts[1] == "toggle" && r.Method == http.MethodPost {
			h.HandleToggleProgress(w, r, parts[0])
			return
		}
		response.NotFound(w, "Not found", "")
	})

	// Admin endpoints
	mux.HandleFunc(prefix+"/sync", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		h.HandleSync(w, r)
	})

	mux.HandleFunc(prefix+"/stats", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		h.HandleStats(w, r)
	})

	mux.HandleFunc(prefix+"/export", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		h.HandleExport(w, r)
	})

	mux.HandleFunc(prefix+"/import", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		h.HandleImport(w, r)
	})

	// Real-time endpoints
	mux.HandleFunc(prefix+"/updates/ws", h.HandleWebSocket)
	mux.HandleFunc(prefix+"/updates/stream", h.HandleSSE)
}

// applyMiddleware wraps the mux in the middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
	}

	if s.config.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(s.config.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = s.config.CORSOrigins
		} else {
			corsConfig.AllowAll = true
		}
		chain = append(chain, middleware.CORS(corsConfig))
	}

	if s.config.AuthEnabled {
		authConfig := middleware.DefaultAuthConfig()
		authConfig.Enabled = true
		authConfig.APIKey = s.config.AuthAPIKey
		if s.config.AuthHeader != "" {
			authConfig.HeaderName = s.config.AuthHeader
		}
		chain = append(chain, middleware.Auth(authConfig, s.logger))
	}

	return middleware.Chain(chain...)(handler)
}

// extractPathParam returns the single path segment after the prefix,
// or "" when the remainder is empty or nested.
func extractPathParam(path, prefix string) string {
	rest := strings.TrimPrefix(path, prefix)
	if rest == "" || strings.Contains(rest, "/") {
		return ""
	}
	return rest
}

// splitPath splits a path remainder into non-empty segments.
func splitPath(path string) []string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
