package speech_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storyvoice/internal/models"
	"storyvoice/internal/speech"
	"storyvoice/internal/speech/mocks"
)

// speakingEngine returns a mock engine that accepts any utterance and
// records the end callbacks it was handed.
func speakingEngine() (*mocks.MockEngine, *[]func()) {
	var callbacks []func()
	engine := new(mocks.MockEngine)
	engine.On("Available").Return(true)
	engine.On("Cancel").Return()
	engine.On("Speak", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			callbacks = append(callbacks, args.Get(2).(func()))
		}).
		Return(nil)
	return engine, &callbacks
}

func TestSpeakRejectsWhenCapabilityUnavailable(t *testing.T) {
	engine := new(mocks.MockEngine)
	engine.On("Available").Return(false)

	p := speech.NewPlayer(engine, zap.NewNop())
	err := p.Speak(models.PlaybackRequest{Text: "hello", SourceID: "s1"})

	require.ErrorIs(t, err, models.ErrSpeechUnavailable)
	assert.Empty(t, p.Reading(), "no partial mutation on unsupported capability")
	engine.AssertNotCalled(t, "Speak", mock.Anything, mock.Anything, mock.Anything)
}

func TestSpeakSetsReadingAndDefaultsLanguage(t *testing.T) {
	engine, _ := speakingEngine()
	p := speech.NewPlayer(engine, zap.NewNop())

	require.NoError(t, p.Speak(models.PlaybackRequest{Text: "hello", SourceID: "s1"}))

	assert.Equal(t, "s1", p.Reading())
	engine.AssertCalled(t, "Speak", "hello", models.DefaultLanguageTag, mock.Anything)
}

func TestSpeakWhileSpeakingCancelsThenStarts(t *testing.T) {
	engine, _ := speakingEngine()
	p := speech.NewPlayer(engine, zap.NewNop())

	require.NoError(t, p.Speak(models.PlaybackRequest{Text: "first", SourceID: "s1"}))
	require.NoError(t, p.Speak(models.PlaybackRequest{Text: "second", SourceID: "s2"}))

	// Exactly one active utterance afterwards, no overlap.
	assert.Equal(t, "s2", p.Reading())
	engine.AssertNumberOfCalls(t, "Cancel", 2)
	engine.AssertNumberOfCalls(t, "Speak", 2)
}

func TestEndCallbackClearsReading(t *testing.T) {
	engine, callbacks := speakingEngine()
	p := speech.NewPlayer(engine, zap.NewNop())

	require.NoError(t, p.Speak(models.PlaybackRequest{Text: "hello", SourceID: "s1"}))
	require.Len(t, *callbacks, 1)

	(*callbacks)[0]()
	assert.Empty(t, p.Reading())
}

func TestStaleEndCallbackIsIgnored(t *testing.T) {
	engine, callbacks := speakingEngine()
	p := speech.NewPlayer(engine, zap.NewNop())

	require.NoError(t, p.Speak(models.PlaybackRequest{Text: "first", SourceID: "s1"}))
	require.NoError(t, p.Speak(models.PlaybackRequest{Text: "second", SourceID: "s2"}))
	require.Len(t, *callbacks, 2)

	// The cancelled first utterance reports its end late; the second
	// utterance keeps the floor.
	(*callbacks)[0]()
	assert.Equal(t, "s2", p.Reading())

	(*callbacks)[1]()
	assert.Empty(t, p.Reading())
}

func TestStopClearsSynchronously(t *testing.T) {
	engine, callbacks := speakingEngine()
	p := speech.NewPlayer(engine, zap.NewNop())

	require.NoError(t, p.Speak(models.PlaybackRequest{Text: "hello", SourceID: "s1"}))
	p.Stop()
	assert.Empty(t, p.Reading())

	// The engine's end callback arriving after Stop must stay a no-op.
	(*callbacks)[0]()
	assert.Empty(t, p.Reading())
}

func TestStopWhenIdleIsANoOp(t *testing.T) {
	engine := new(mocks.MockEngine)
	engine.On("Cancel").Return()

	p := speech.NewPlayer(engine, zap.NewNop())
	p.Stop()
	assert.Empty(t, p.Reading())
}

func TestEphemeralRequestGetsASourceID(t *testing.T) {
	engine, _ := speakingEngine()
	p := speech.NewPlayer(engine, zap.NewNop())

	require.NoError(t, p.Speak(models.PlaybackRequest{Text: "a just-generated story"}))
	assert.NotEmpty(t, p.Reading(), "the currently-reading identity stays observable")
}
