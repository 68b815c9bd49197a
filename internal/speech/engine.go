// Package speech wraps the platform text-to-speech capability behind a
// single shared player that enforces at-most-one active utterance.
package speech

// Engine is the platform speech capability. Implementations play one
// utterance at a time. Speak returns once playback has started; onEnd
// fires from the engine when the utterance finishes, and may also fire
// after Cancel, so callers must treat it as idempotent.
type Engine interface {
	Speak(text, lang string, onEnd func()) error
	Cancel()
	Available() bool
}
