package oidc

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/GoAuthBridge/GoAuthBridge/internal/provider"
)

func TestConfigValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty", Config{}},
		{"missing issuer", Config{
			ClientID:    "client",
			RedirectURL: "http://localhost:8080/api/auth/callback",
		}},
		{"missing client id", Config{
			Issuer:      "https://issuer.example",
			RedirectURL: "http://localhost:8080/api/auth/callback",
		}},
		{"issuer not a url", Config{
			Issuer:      "not-a-url",
			ClientID:    "client",
			RedirectURL: "http://localhost:8080/api/auth/callback",
		}},
		{"redirect not a url", Config{
			Issuer:      "https://issuer.example",
			ClientID:    "client",
			RedirectURL: "not-a-url",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(ctx, tt.cfg); err == nil {
				t.Fatalf("New(%s) should fail validation", tt.name)
			}
		})
	}
}

// callbackProvider skips issuer discovery; the callback's state and code
// checks run before any verifier or token-endpoint call.
func callbackProvider() *Provider {
	return &Provider{
		cfg:  Config{CookieName: defaultCookieName},
		opts: &provider.Options{BasePath: "/api/auth"},
	}
}

func callbackErr(t *testing.T, url string, headers map[string]string) *provider.APIError {
	t.Helper()

	_, err := callbackProvider().Handle(context.Background(), &provider.Request{
		Method:  http.MethodGet,
		URL:     url,
		Headers: headers,
	})
	if err == nil {
		t.Fatal("Handle(callback) should fail")
	}

	var apiErr *provider.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Handle(callback) error = %v, want an APIError", err)
	}

	return apiErr
}

func TestCallbackStateMismatch(t *testing.T) {
	apiErr := callbackErr(t,
		"http://localhost:8080/api/auth/callback?state=evil&code=abc",
		map[string]string{"Cookie": stateCookieName + "=good"},
	)

	if apiErr.Status != http.StatusBadRequest || apiErr.Code != "INVALID_STATE" {
		t.Fatalf("state mismatch error = %+v, want 400 INVALID_STATE", apiErr)
	}
}

func TestCallbackMissingStateCookie(t *testing.T) {
	apiErr := callbackErr(t,
		"http://localhost:8080/api/auth/callback?state=good&code=abc",
		nil,
	)

	if apiErr.Status != http.StatusBadRequest || apiErr.Code != "INVALID_STATE" {
		t.Fatalf("missing state cookie error = %+v, want 400 INVALID_STATE", apiErr)
	}
}

func TestCallbackMissingCode(t *testing.T) {
	apiErr := callbackErr(t,
		"http://localhost:8080/api/auth/callback?state=good",
		map[string]string{"Cookie": stateCookieName + "=good"},
	)

	if apiErr.Status != http.StatusBadRequest || apiErr.Code != "MISSING_CODE" {
		t.Fatalf("missing code error = %+v, want 400 MISSING_CODE", apiErr)
	}
}
