package interfaces

import "context"

// Principal is the authenticated identity resulting from credential
// verification. Subject is never empty for a verified principal.
type Principal struct {
	Subject string
	Name    string
	Roles   []string
}

// TokenVerifier validates an opaque session credential. Token issuance and
// verification mechanics live in the host application; the CMS module only
// consumes the verdict.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}

// TokenVerifierFunc adapts a function to the TokenVerifier contract.
type TokenVerifierFunc func(ctx context.Context, token string) (Principal, error)

// Verify implements TokenVerifier.
func (f TokenVerifierFunc) Verify(ctx context.Context, token string) (Principal, error) {
	return f(ctx, token)
}
