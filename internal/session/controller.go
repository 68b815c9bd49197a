// Package session owns the authentication state machine. The session
// transitions between signed-out, pending-verification and authenticated
// exclusively in response to identity-provider events; user commands
// only talk to the provider and record a user-visible notice.
package session

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"go.uber.org/zap"

	"storyvoice/internal/identity"
	"storyvoice/internal/models"
	"storyvoice/internal/watch"
)

const minPasswordLength = 6

// Controller drives the session state machine. A single event-loop
// goroutine is the only writer of Status/UserID/Email, so a command
// racing an in-flight identity event can never corrupt the session.
type Controller struct {
	provider identity.Provider
	logger   *zap.Logger
	notifier *watch.Notifier

	mu      sync.RWMutex
	session models.Session

	done chan struct{}
}

// NewController creates the controller and subscribes it to the
// provider's identity stream. Call Close on teardown to release the
// subscription.
func NewController(provider identity.Provider, logger *zap.Logger) *Controller {
	c := &Controller{
		provider: provider,
		logger:   logger.Named("SessionController"),
		notifier: watch.NewNotifier(),
		session:  models.Session{Status: models.StatusSignedOut},
		done:     make(chan struct{}),
	}
	go c.loop()
	return c
}

// loop consumes identity events strictly in arrival order.
func (c *Controller) loop() {
	defer close(c.done)
	for ident := range c.provider.Events() {
		c.apply(ident)
	}
}

// apply is the single writer of the session's identity fields.
func (c *Controller) apply(ident *identity.Identity) {
	c.mu.Lock()
	if ident == nil {
		c.session = models.Session{Status: models.StatusSignedOut}
		c.mu.Unlock()
		c.logger.Info("Session signed out")
		c.notifier.Notify()
		return
	}

	status := models.StatusPendingVerification
	if ident.EmailVerified {
		status = models.StatusAuthenticated
	}
	c.session.Status = status
	c.session.UserID = ident.UID
	c.session.Email = ident.Email
	c.mu.Unlock()

	c.logger.Info("Session transitioned",
		zap.String("status", string(status)),
		zap.String("uid", ident.UID),
	)
	c.notifier.Notify()
}

// Login validates the credentials locally and delegates to the
// provider. The session transition arrives via the identity stream, not
// from this call.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	if err := validateCredentials(email, password); err != nil {
		c.setNotice(err.Error(), true)
		return err
	}

	if _, err := c.provider.SignIn(ctx, email, password); err != nil {
		c.setNotice("Login failed: "+err.Error(), true)
		return err
	}

	c.clearNotice()
	return nil
}

// Register validates the credentials, creates the account and
// dispatches a verification email. A verification dispatch failure is
// recorded but does not undo the registration; the account exists and
// the pending-verification transition still arrives via the stream.
func (c *Controller) Register(ctx context.Context, email, password string) error {
	if err := validateCredentials(email, password); err != nil {
		c.setNotice(err.Error(), true)
		return err
	}

	if _, err := c.provider.Register(ctx, email, password); err != nil {
		c.setNotice("Registration failed: "+err.Error(), true)
		return err
	}

	if err := c.provider.SendVerification(ctx); err != nil {
		c.logger.Warn("Verification email dispatch failed after registration", zap.Error(err))
		c.setNotice("Failed to send verification email: "+err.Error(), true)
		return nil
	}

	c.setNotice("A verification email has been sent. Please check your inbox.", false)
	return nil
}

// ResendVerification re-dispatches the verification email. Valid only
// while the session is pending verification; otherwise there is no
// unverified identity to target and the notice is left untouched.
func (c *Controller) ResendVerification(ctx context.Context) error {
	if c.Snapshot().Status != models.StatusPendingVerification {
		return fmt.Errorf("no pending identity to verify: %w", models.ErrPrecondition)
	}

	if err := c.provider.SendVerification(ctx); err != nil {
		c.setNotice("Failed to resend verification email: "+err.Error(), true)
		return err
	}

	c.setNotice("Verification email resent successfully.", false)
	return nil
}

// Logout requests sign-out from the provider. The transition to
// signed-out happens only when the identity-absent event arrives;
// callers must not assume immediate effect.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.provider.SignOut(ctx); err != nil {
		c.setNotice("Logout failed: "+err.Error(), true)
		return err
	}
	return nil
}

// Snapshot returns a copy of the current session.
func (c *Controller) Snapshot() models.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := c.session
	if s.Notice != nil {
		notice := *s.Notice
		s.Notice = &notice
	}
	return s
}

// UserID returns the current session's user id, or "" when signed out.
func (c *Controller) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.UserID
}

// Watch subscribes to session changes.
func (c *Controller) Watch() (<-chan struct{}, func()) {
	return c.notifier.Watch()
}

// Close releases the provider subscription and waits for the event loop
// to drain.
func (c *Controller) Close() {
	c.provider.Close()
	<-c.done
}

func (c *Controller) setNotice(text string, isErr bool) {
	c.mu.Lock()
	c.session.Notice = &models.Notice{Text: text, IsError: isErr}
	c.mu.Unlock()
	c.notifier.Notify()
}

func (c *Controller) clearNotice() {
	c.mu.Lock()
	c.session.Notice = nil
	c.mu.Unlock()
	c.notifier.Notify()
}

// validateCredentials applies the local checks that gate any provider
// call: both fields present, a parseable email and a minimum password
// length.
func validateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return fmt.Errorf("please enter both email and password: %w", models.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("please enter a valid email address: %w", models.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long: %w", minPasswordLength, models.ErrValidation)
	}
	return nil
}
