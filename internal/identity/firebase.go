package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"storyvoice/internal/models"
)

const defaultTimeout = 30 * time.Second

// Compile-time check that FirebaseProvider implements Provider.
var _ Provider = (*FirebaseProvider)(nil)

// FirebaseProvider talks to the Firebase Identity Toolkit REST API, the
// same client-side auth surface the web SDK uses. It holds the current
// ID token and republishes confirmed identity changes on its event
// stream.
type FirebaseProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger

	mu      sync.Mutex
	idToken string
	closed  bool
	events  chan *Identity
}

// NewFirebaseProvider creates a provider against the given Identity
// Toolkit base URL (e.g. "https://identitytoolkit.googleapis.com/v1").
func NewFirebaseProvider(baseURL, apiKey string, logger *zap.Logger) *FirebaseProvider {
	return &FirebaseProvider{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger.Named("FirebaseProvider"),
		events:     make(chan *Identity, 16),
	}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

type lookupResponse struct {
	Users []struct {
		LocalID       string `json:"localId"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"emailVerified"`
	} `json:"users"`
}

type oobCodeRequest struct {
	RequestType string `json:"requestType"`
	IDToken     string `json:"idToken"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn authenticates the credentials and emits the resulting identity
// event. The verified flag is taken from an accounts:lookup call, since
// signInWithPassword does not report it.
func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	p.logger.Info("Sign-in attempt", zap.String("email", email))

	var resp signInResponse
	err := p.post(ctx, "accounts:signInWithPassword", signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, &resp)
	if err != nil {
		p.logger.Warn("Sign-in failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	verified, err := p.lookupVerified(ctx, resp.IDToken)
	if err != nil {
		return nil, err
	}

	ident := &Identity{UID: resp.LocalID, Email: resp.Email, EmailVerified: verified}
	p.setToken(resp.IDToken)
	p.emit(ident)
	p.logger.Info("Sign-in confirmed", zap.String("uid", ident.UID), zap.Bool("verified", verified))
	return ident, nil
}

// Register creates the account. Firebase signs the new user in as part
// of sign-up; the identity is reported unverified.
func (p *FirebaseProvider) Register(ctx context.Context, email, password string) (*Identity, error) {
	p.logger.Info("Registration attempt", zap.String("email", email))

	var resp signInResponse
	err := p.post(ctx, "accounts:signUp", signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, &resp)
	if err != nil {
		p.logger.Warn("Registration failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	ident := &Identity{UID: resp.LocalID, Email: resp.Email, EmailVerified: false}
	p.setToken(resp.IDToken)
	p.emit(ident)
	p.logger.Info("Registration confirmed", zap.String("uid", ident.UID))
	return ident, nil
}

// SendVerification dispatches a VERIFY_EMAIL message for the currently
// signed-in identity.
func (p *FirebaseProvider) SendVerification(ctx context.Context) error {
	token := p.token()
	if token == "" {
		return fmt.Errorf("no signed-in identity to verify: %w", models.ErrPrecondition)
	}
	err := p.post(ctx, "accounts:sendOobCode", oobCodeRequest{
		RequestType: "VERIFY_EMAIL",
		IDToken:     token,
	}, nil)
	if err != nil {
		p.logger.Warn("Verification email dispatch failed", zap.Error(err))
		return err
	}
	p.logger.Info("Verification email dispatched")
	return nil
}

// SignOut discards the held credentials. The REST surface has no
// sign-out endpoint; disposal of the ID token is the sign-out. The
// identity-absent event goes through the stream like every other
// transition.
func (p *FirebaseProvider) SignOut(ctx context.Context) error {
	p.setToken("")
	p.emit(nil)
	p.logger.Info("Signed out")
	return nil
}

func (p *FirebaseProvider) Events() <-chan *Identity {
	return p.events
}

// Close closes the event stream. Further emits are dropped.
func (p *FirebaseProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.events)
	}
}

func (p *FirebaseProvider) lookupVerified(ctx context.Context, idToken string) (bool, error) {
	var resp lookupResponse
	err := p.post(ctx, "accounts:lookup", map[string]string{"idToken": idToken}, &resp)
	if err != nil {
		return false, err
	}
	if len(resp.Users) == 0 {
		return false, fmt.Errorf("account lookup returned no users: %w", models.ErrAuthProvider)
	}
	return resp.Users[0].EmailVerified, nil
}

// post issues one Identity Toolkit call and decodes the response into
// out when out is non-nil. API failures are wrapped in ErrAuthProvider
// with the upstream message preserved.
func (p *FirebaseProvider) post(ctx context.Context, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", endpoint, err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", p.baseURL, endpoint, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w: %w", endpoint, err, models.ErrAuthProvider)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		msg := resp.Status
		if jsonErr := json.Unmarshal(data, &apiErr); jsonErr == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return fmt.Errorf("%s rejected: %s: %w", endpoint, msg, models.ErrAuthProvider)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
		}
	}
	return nil
}

func (p *FirebaseProvider) setToken(token string) {
	p.mu.Lock()
	p.idToken = token
	p.mu.Unlock()
}

func (p *FirebaseProvider) token() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idToken
}

// emit publishes an identity event in confirmation order. The channel
// is buffered; the session controller is expected to keep draining it.
func (p *FirebaseProvider) emit(ident *Identity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.events <- ident:
	default:
		p.logger.Warn("Identity event dropped: stream full")
	}
}
