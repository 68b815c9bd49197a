// Package app wires the client runtime together: identity provider,
// session controller, story collection and request flow, and the shared
// speech player. The view layer (external to this module) drives the
// components and subscribes to their change streams.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"storyvoice/internal/config"
	"storyvoice/internal/identity"
	"storyvoice/internal/session"
	"storyvoice/internal/speech"
	"storyvoice/internal/stories"
)

const refreshTimeout = 30 * time.Second

// App owns the singly-owned service instances for the lifetime of the
// process: constructed once at startup, torn down by Close.
type App struct {
	Session    *session.Controller
	Collection *stories.Collection
	Flow       *stories.RequestFlow
	Player     *speech.Player

	provider identity.Provider
	logger   *zap.Logger
	stop     func()
}

// New builds the full runtime from configuration.
func New(cfg *config.Config, logger *zap.Logger) *App {
	provider := identity.NewFirebaseProvider(cfg.FirebaseAuthURL, cfg.FirebaseAPIKey, logger)
	controller := session.NewController(provider, logger)

	storyAPI := stories.NewClient(cfg.StoryAPIBaseURL, cfg.HTTPTimeout, logger)
	collection := stories.NewCollection(storyAPI, controller, logger)
	flow := stories.NewRequestFlow(storyAPI, collection, controller, logger)

	engine := speech.NewCommandEngine(cfg.SpeechCommand, logger)
	player := speech.NewPlayer(engine, logger)
	if !engine.Available() {
		logger.Warn("Speech capability unavailable, read-aloud will be rejected",
			zap.String("command", cfg.SpeechCommand))
	}

	a := &App{
		Session:    controller,
		Collection: collection,
		Flow:       flow,
		Player:     player,
		provider:   provider,
		logger:     logger.Named("App"),
	}

	changes, cancel := controller.Watch()
	a.stop = cancel
	go a.followSession(changes)

	return a
}

// followSession keeps the collection in step with the session: a newly
// authenticated identity triggers a refresh; sign-out resets the
// tracking so the next sign-in refreshes again.
func (a *App) followSession(changes <-chan struct{}) {
	lastUserID := ""
	for range changes {
		snap := a.Session.Snapshot()
		if snap.UserID == "" {
			lastUserID = ""
			continue
		}
		if snap.Authenticated() && snap.UserID != lastUserID {
			lastUserID = snap.UserID
			ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
			if err := a.Collection.Refresh(ctx, snap.UserID); err != nil {
				a.logger.Warn("Story refresh after sign-in failed", zap.Error(err))
			}
			cancel()
		}
	}
}

// Close tears the runtime down in reverse construction order.
func (a *App) Close() {
	a.Player.Stop()
	a.stop()
	a.Session.Close()
}
