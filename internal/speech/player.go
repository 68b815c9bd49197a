package speech

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storyvoice/internal/models"
	"storyvoice/internal/watch"
)

// Player is the single shared owner of the speech capability. No other
// component invokes the engine directly; the player guarantees at most
// one playback request is active system-wide.
type Player struct {
	engine   Engine
	logger   *zap.Logger
	notifier *watch.Notifier

	mu        sync.Mutex
	readingID string
	gen       uint64
}

// NewPlayer wraps the engine in the shared player.
func NewPlayer(engine Engine, logger *zap.Logger) *Player {
	return &Player{
		engine:   engine,
		logger:   logger.Named("SpeechPlayer"),
		notifier: watch.NewNotifier(),
	}
}

// Speak narrates the request, cancelling any active utterance first.
// The cancel and the start happen under one lock, so two utterances can
// never overlap even under rapid toggling. A blank SourceID gets an
// ephemeral id so the currently-reading identity stays observable.
//
// Toggle semantics (asking for the item already being read means stop)
// are the caller's decision; the player always cancels then starts.
func (p *Player) Speak(req models.PlaybackRequest) error {
	if !p.engine.Available() {
		return models.ErrSpeechUnavailable
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.engine.Cancel()
	p.gen++
	gen := p.gen

	sourceID := req.SourceID
	if sourceID == "" {
		sourceID = uuid.NewString()
	}

	if err := p.engine.Speak(req.Text, req.Language(), func() { p.utteranceEnded(gen) }); err != nil {
		p.readingID = ""
		p.notifier.Notify()
		return err
	}

	p.readingID = sourceID
	p.logger.Debug("Reading", zap.String("sourceID", sourceID))
	p.notifier.Notify()
	return nil
}

// Stop cancels the active utterance and clears the reading state
// synchronously. Calling it while nothing is playing is a no-op.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.engine.Cancel()
	// Invalidate any pending end callback; the state is already clear.
	p.gen++
	if p.readingID != "" {
		p.readingID = ""
		p.notifier.Notify()
	}
}

// utteranceEnded clears the reading state when the utterance that set
// it finishes. End callbacks for cancelled or superseded utterances
// carry a stale generation and are ignored.
func (p *Player) utteranceEnded(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.gen != gen {
		return
	}
	p.readingID = ""
	p.notifier.Notify()
}

// Reading returns the source id currently being narrated, or "".
func (p *Player) Reading() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.readingID
}

// Watch subscribes to playback state changes.
func (p *Player) Watch() (<-chan struct{}, func()) {
	return p.notifier.Watch()
}
