package models

// SessionStatus describes the authentication state of the local session.
type SessionStatus string

const (
	StatusSignedOut           SessionStatus = "signed_out"
	StatusPendingVerification SessionStatus = "pending_verification"
	StatusAuthenticated       SessionStatus = "authenticated"
)

// Notice is a short user-visible message attached to the session.
// Most notices report failures; a few (e.g. "verification email resent")
// are purely informational, which IsError distinguishes.
type Notice struct {
	Text    string
	IsError bool
}

// Session is the local representation of the current identity's
// authentication status. UserID and Email are set iff Status is not
// StatusSignedOut; they transition together with Status and never
// outlive it.
type Session struct {
	Status SessionStatus
	UserID string
	Email  string
	Notice *Notice
}

// Authenticated reports whether the session holds a verified identity.
func (s Session) Authenticated() bool {
	return s.Status == StatusAuthenticated
}
