package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/wadani-market/cms/internal/logging"
	"github.com/wadani-market/cms/pkg/interfaces"
)

// ErrMissingCredential indicates the request carried no session credential.
var ErrMissingCredential = errors.New("auth: missing credential")

// ErrInvalidCredential indicates the credential was rejected by the verifier.
// Invalid and expired credentials are deliberately indistinguishable to the
// caller.
var ErrInvalidCredential = errors.New("auth: invalid or expired credential")

// ErrVerifierRequired indicates the gate was constructed without a verifier.
var ErrVerifierRequired = errors.New("auth: token verifier is required")

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
	adminTokenHeader    = "X-Admin-Token"
)

// ExtractCredential pulls the session token from the request headers,
// preferring the Authorization bearer scheme over the legacy admin header.
func ExtractCredential(headers http.Header) (string, error) {
	if value := strings.TrimSpace(headers.Get(authorizationHeader)); value != "" {
		if strings.HasPrefix(value, bearerPrefix) {
			if token := strings.TrimSpace(strings.TrimPrefix(value, bearerPrefix)); token != "" {
				return token, nil
			}
		}
		return "", ErrMissingCredential
	}
	if token := strings.TrimSpace(headers.Get(adminTokenHeader)); token != "" {
		return token, nil
	}
	return "", ErrMissingCredential
}

// Gate verifies admin credentials before any handler touches persisted state.
// The core services never authenticate; they assume they run post-gate.
type Gate struct {
	verifier interfaces.TokenVerifier
	logger   interfaces.Logger
}

// Option mutates the gate configuration.
type Option func(*Gate)

// WithLogger attaches a logger to the gate.
func WithLogger(logger interfaces.Logger) Option {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGate constructs a gate over the provided verifier.
func NewGate(verifier interfaces.TokenVerifier, opts ...Option) *Gate {
	g := &Gate{
		verifier: verifier,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authenticate verifies the token and returns the resulting principal. Every
// verifier failure collapses to ErrInvalidCredential so the response does not
// leak whether a credential exists.
func (g *Gate) Authenticate(ctx context.Context, token string) (interfaces.Principal, error) {
	if g.verifier == nil {
		return interfaces.Principal{}, ErrVerifierRequired
	}
	if strings.TrimSpace(token) == "" {
		return interfaces.Principal{}, ErrMissingCredential
	}
	principal, err := g.verifier.Verify(ctx, token)
	if err != nil {
		g.logger.Warn("auth.credential_rejected", "error", err)
		return interfaces.Principal{}, ErrInvalidCredential
	}
	if strings.TrimSpace(principal.Subject) == "" {
		g.logger.Warn("auth.principal_missing_subject")
		return interfaces.Principal{}, ErrInvalidCredential
	}
	return principal, nil
}

// AuthenticateRequest extracts the credential from the request and verifies
// it in one step.
func (g *Gate) AuthenticateRequest(r *http.Request) (interfaces.Principal, error) {
	if r == nil {
		return interfaces.Principal{}, ErrMissingCredential
	}
	token, err := ExtractCredential(r.Header)
	if err != nil {
		return interfaces.Principal{}, err
	}
	return g.Authenticate(r.Context(), token)
}
