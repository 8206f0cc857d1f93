// Package handlers provides the HTTP request handlers for the catalog
// API.
package handlers

import (
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	medguide "github.com/phodsawiR/MedGuideApp2"
	"github.com/phodsawiR/MedGuideApp2/internal/server/cache"
	"github.com/phodsawiR/MedGuideApp2/internal/server/events"
	"github.com/phodsawiR/MedGuideApp2/internal/server/sse"
	ws "github.com/phodsawiR/MedGuideApp2/internal/server/websocket"
)

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	engine         medguide.MedGuide
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
}

// New creates a Handlers instance.
func New(
	engine medguide.MedGuide,
	c *cache.Cache,
	broker *events.Broker,
	wsHub *ws.Hub,
	sseBroadcaster *sse.Broadcaster,
	upgrader websocket.Upgrader,
	logger *zerolog.Logger,
) *Handlers {
	return &Handlers{
		engine:         engine,
		cache:          c,
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader:       upgrader,
		logger:         logger,
	}
}
