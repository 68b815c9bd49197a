package speech_test

import (
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storyvoice/internal/models"
	"storyvoice/internal/speech"
)

func TestCommandEngineUnavailable(t *testing.T) {
	t.Run("empty command", func(t *testing.T) {
		engine := speech.NewCommandEngine("", zap.NewNop())
		assert.False(t, engine.Available())
		err := engine.Speak("hello", "en-US", nil)
		assert.ErrorIs(t, err, models.ErrSpeechUnavailable)
	})

	t.Run("command not on PATH", func(t *testing.T) {
		engine := speech.NewCommandEngine("definitely-not-a-real-synthesizer", zap.NewNop())
		assert.False(t, engine.Available())
	})
}

func TestCommandEngineReportsUtteranceEnd(t *testing.T) {
	// "true" stands in for a synthesizer that finishes immediately.
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available on PATH")
	}

	engine := speech.NewCommandEngine("true", zap.NewNop())
	require.True(t, engine.Available())

	ended := make(chan struct{})
	require.NoError(t, engine.Speak("hello", "en-US", func() { close(ended) }))

	select {
	case <-ended:
	case <-time.After(2 * time.Second):
		t.Fatal("expected the end callback to fire")
	}
}

func TestCommandEngineCancelWithoutActiveUtterance(t *testing.T) {
	engine := speech.NewCommandEngine("definitely-not-a-real-synthesizer", zap.NewNop())
	// Must not panic with nothing playing.
	engine.Cancel()
}
