package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/wadani-market/cms/pkg/interfaces"
)

func staticVerifier(valid string) interfaces.TokenVerifier {
	return interfaces.TokenVerifierFunc(func(_ context.Context, token string) (interfaces.Principal, error) {
		if token == valid {
			return interfaces.Principal{Subject: "admin-1", Name: "Admin"}, nil
		}
		return interfaces.Principal{}, errors.New("unknown token")
	})
}

func TestExtractCredentialBearer(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer secret-token")

	token, err := ExtractCredential(headers)
	if err != nil {
		t.Fatalf("ExtractCredential() error = %v", err)
	}
	if token != "secret-token" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestExtractCredentialAdminHeader(t *testing.T) {
	headers := http.Header{}
	headers.Set("X-Admin-Token", "legacy")

	token, err := ExtractCredential(headers)
	if err != nil {
		t.Fatalf("ExtractCredential() error = %v", err)
	}
	if token != "legacy" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestExtractCredentialMissing(t *testing.T) {
	if _, err := ExtractCredential(http.Header{}); !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}

	headers := http.Header{}
	headers.Set("Authorization", "Basic dXNlcjpwYXNz")
	if _, err := ExtractCredential(headers); !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("non-bearer scheme should be rejected, got %v", err)
	}
}

func TestGateAuthenticate(t *testing.T) {
	gate := NewGate(staticVerifier("good"))

	principal, err := gate.Authenticate(context.Background(), "good")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if principal.Subject != "admin-1" {
		t.Fatalf("unexpected principal %+v", principal)
	}

	if _, err := gate.Authenticate(context.Background(), "bad"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
	if _, err := gate.Authenticate(context.Background(), " "); !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestGateRejectsEmptySubject(t *testing.T) {
	gate := NewGate(interfaces.TokenVerifierFunc(func(context.Context, string) (interfaces.Principal, error) {
		return interfaces.Principal{}, nil
	}))
	if _, err := gate.Authenticate(context.Background(), "token"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential for empty subject, got %v", err)
	}
}

func TestGateRequiresVerifier(t *testing.T) {
	gate := NewGate(nil)
	if _, err := gate.Authenticate(context.Background(), "token"); !errors.Is(err, ErrVerifierRequired) {
		t.Fatalf("expected ErrVerifierRequired, got %v", err)
	}
}
