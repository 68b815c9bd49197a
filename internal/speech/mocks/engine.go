package mocks

import (
	"github.com/stretchr/testify/mock"

	"storyvoice/internal/speech"
)

// MockEngine is a mock type for the speech.Engine type
type MockEngine struct {
	mock.Mock
}

// Speak provides a mock function with given fields: text, lang, onEnd
func (_m *MockEngine) Speak(text string, lang string, onEnd func()) error {
	ret := _m.Called(text, lang, onEnd)
	return ret.Error(0)
}

// Cancel provides a mock function with no fields
func (_m *MockEngine) Cancel() {
	_m.Called()
}

// Available provides a mock function with no fields
func (_m *MockEngine) Available() bool {
	ret := _m.Called()
	return ret.Bool(0)
}

var _ speech.Engine = (*MockEngine)(nil)
