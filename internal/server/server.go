// Package server provides the HTTP server for the catalog API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	medguide "github.com/phodsawiR/MedGuideApp2"
	"github.com/phodsawiR/MedGuideApp2/internal/server/cache"
	"github.com/phodsawiR/MedGuideApp2/internal/server/events"
	"github.com/phodsawiR/MedGuideApp2/internal/server/events/adapters"
	"github.com/phodsawiR/MedGuideApp2/internal/server/sse"
	ws "github.com/phodsawiR/MedGuideApp2/internal/server/websocket"
	"github.com/phodsawiR/MedGuideApp2/pkg/catalogs"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	engine         medguide.MedGuide
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	config         Config
	ctx            context.Context
	cancel         context.CancelFunc
	startTime      time.Time
}

// New creates a server over an engine. The engine's hooks are wired to
// the event broker, and both realtime transports subscribe to it.
func New(engine medguide.MedGuide, cfg Config, logger *zerolog.Logger) *Server {
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)

	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))
	broker.Subscribe(adapters.NewSSESubscriber(sseBroadcaster))

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		engine:         engine,
		cache:          cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}

	s.connectHooks()
	return s
}

// connectHooks publishes engine events to the broker.
func (s *Server) connectHooks() {
	s.engine.OnCatalogChanged(func(topics catalogs.Topics) {
		s.cache.Clear()
		s.broker.Publish(events.CatalogUpdated, map[string]any{
			"topics":  len(topics),
			"systems": topics.Systems(),
		})
		s.logger.Debug().
			Int("topics", len(topics)).
			Msg("Catalog updated event published")
	})

	s.engine.OnDuplicatesRemoved(func(removed int) {
		s.broker.Publish(events.DuplicatesRemoved, map[string]any{
			"removed": removed,
			"message": "Duplicate records were removed during maintenance",
		})
		s.logger.Debug().
			Int("removed", removed).
			Msg("Duplicates removed event published")
	})

	s.engine.OnSeeded(func(seeded int) {
		s.broker.Publish(events.TopicsSeeded, map[string]any{
			"seeded": seeded,
		})
		s.logger.Debug().
			Int("seeded", seeded).
			Msg("Topics seeded event published")
	})
}

// Start launches the background services: broker, WebSocket hub and
// SSE broadcaster.
func (s *Server) Start() {
	go s.broker.Run(s.ctx)
	go s.wsHub.Run(s.ctx)
	go s.sseBroadcaster.Run(s.ctx)
	s.logger.Debug().Msg("Background services started")
}

// Handler returns the configured http.Handler with the middleware
// chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown stops the background services.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")
	s.cancel()
	return nil
}

// Broker returns the event broker.
func (s *Server) Broker() *events.Broker {
	return s.broker
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
