package speech

import (
	"fmt"
	"os/exec"
	"sync"

	"go.uber.org/zap"

	"storyvoice/internal/models"
)

// Compile-time check that CommandEngine implements Engine.
var _ Engine = (*CommandEngine)(nil)

// CommandEngine synthesizes speech by running a local espeak-compatible
// command (`<command> -v <lang> <text>`). One process runs at a time;
// Cancel kills it and a watcher goroutine reports the end of the
// utterance.
type CommandEngine struct {
	command   string
	available bool
	logger    *zap.Logger

	mu     sync.Mutex
	active *exec.Cmd
}

// NewCommandEngine creates an engine around the given synthesizer
// command. An empty command, or one not present on PATH, yields an
// engine that reports itself unavailable.
func NewCommandEngine(command string, logger *zap.Logger) *CommandEngine {
	e := &CommandEngine{
		command: command,
		logger:  logger.Named("SpeechEngine"),
	}
	if command != "" {
		if _, err := exec.LookPath(command); err == nil {
			e.available = true
		} else {
			e.logger.Warn("Speech command not found on PATH", zap.String("command", command))
		}
	}
	return e
}

// Available reports whether the synthesizer command can be run.
func (e *CommandEngine) Available() bool {
	return e.available
}

// Speak starts narrating text, killing any leftover process first.
func (e *CommandEngine) Speak(text, lang string, onEnd func()) error {
	if !e.available {
		return models.ErrSpeechUnavailable
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active != nil {
		e.kill()
	}

	cmd := exec.Command(e.command, "-v", lang, text)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start speech command: %w", err)
	}
	e.active = cmd
	e.logger.Debug("Utterance started", zap.Int("textLength", len(text)), zap.String("lang", lang))

	go func() {
		// Wait returns on natural completion and on Cancel's kill alike.
		_ = cmd.Wait()
		e.mu.Lock()
		if e.active == cmd {
			e.active = nil
		}
		e.mu.Unlock()
		if onEnd != nil {
			onEnd()
		}
	}()
	return nil
}

// Cancel kills the active utterance, if any.
func (e *CommandEngine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active != nil {
		e.kill()
	}
}

// kill terminates the active process. Caller holds e.mu.
func (e *CommandEngine) kill() {
	if e.active.Process != nil {
		if err := e.active.Process.Kill(); err != nil {
			e.logger.Debug("Failed to kill speech process", zap.Error(err))
		}
	}
	e.active = nil
}
