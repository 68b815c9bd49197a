package identity

import "context"

// Identity is an authenticated principal as reported by the provider.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
}

// Provider defines the boundary to the external identity service.
//
// Events delivers the asynchronous identity stream: a non-nil Identity
// after every confirmed sign-in or registration, nil after sign-out.
// Events are delivered in the order the provider confirmed them; the
// channel is closed by Close.
type Provider interface {
	// SignIn authenticates with email/password credentials.
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	// Register creates a new account and signs it in. The new identity
	// is reported unverified.
	Register(ctx context.Context, email, password string) (*Identity, error)
	// SendVerification dispatches a verification email to the currently
	// signed-in identity.
	SendVerification(ctx context.Context) error
	// SignOut discards the current credentials. The resulting
	// identity-absent event arrives via Events, not synchronously.
	SignOut(ctx context.Context) error
	// Events returns the identity event stream. Subscribe exactly once.
	Events() <-chan *Identity
	// Close releases the event stream.
	Close()
}
