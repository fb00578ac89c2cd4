package token

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/GoAuthBridge/GoAuthBridge/internal/provider"
	"github.com/GoAuthBridge/GoAuthBridge/internal/storage/memstore"
)

const testSecret = "unit-test-secret-0123456789"

func newTestProvider(t *testing.T) *Provider {
	t.Helper()

	p, err := New(Config{
		Secret:   testSecret,
		Storage:  memstore.New(),
		BasePath: "/api/auth",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return p
}

func handle(t *testing.T, p *Provider, method, path string, headers map[string]string) *provider.Response {
	t.Helper()

	resp, err := p.Handle(context.Background(), &provider.Request{
		Method:  method,
		URL:     "http://localhost:8080/api/auth" + path,
		Headers: headers,
	})
	if err != nil {
		t.Fatalf("Handle(%s %s) error = %v", method, path, err)
	}

	return resp
}

func signIn(t *testing.T, p *Provider) (token string, user provider.User) {
	t.Helper()

	resp := handle(t, p, http.MethodPost, "/sign-in/anonymous", nil)
	if resp.Status != http.StatusOK {
		t.Fatalf("sign-in status = %d, want 200", resp.Status)
	}

	var body struct {
		Token string        `json:"token"`
		User  provider.User `json:"user"`
	}

	if err := json.Unmarshal(resp.Body, &body); err != nil {
		t.Fatalf("failed to decode sign-in body: %v", err)
	}

	return body.Token, body.User
}

func TestConfigValidation(t *testing.T) {
	if _, err := New(Config{Storage: memstore.New()}); err == nil {
		t.Fatal("New() without secret should fail")
	}

	if _, err := New(Config{Secret: "too-short", Storage: memstore.New()}); err == nil {
		t.Fatal("New() with a short secret should fail")
	}

	if _, err := New(Config{Secret: testSecret}); err == nil {
		t.Fatal("New() without storage should fail")
	}
}

func TestOK(t *testing.T) {
	resp := handle(t, newTestProvider(t), http.MethodGet, "/ok", nil)

	if resp.Status != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.Status)
	}

	if string(resp.Body) != `{"ok":true}` {
		t.Fatalf("body = %q", resp.Body)
	}
}

func TestUnknownRoute(t *testing.T) {
	p := newTestProvider(t)

	_, err := p.Handle(context.Background(), &provider.Request{
		Method: http.MethodGet,
		URL:    "http://localhost:8080/api/auth/bogus",
	})

	apiErr, ok := err.(*provider.APIError)
	if !ok || apiErr.Status != http.StatusNotFound {
		t.Fatalf("Handle(bogus) error = %v, want a 404 APIError", err)
	}
}

func TestSignInAnonymous(t *testing.T) {
	p := newTestProvider(t)

	token, user := signIn(t, p)
	if token == "" {
		t.Fatal("sign-in returned no token")
	}

	if user.ID == "" || !user.Anonymous {
		t.Fatalf("sign-in user = %+v, want an anonymous user with an ID", user)
	}

	// the session resolves through the bearer token
	sess, err := p.Session(context.Background(), &provider.Request{
		Headers: map[string]string{"Authorization": "Bearer " + token},
	})
	if err != nil {
		t.Fatalf("Session() error = %v", err)
	}

	if sess == nil || sess.UserID != user.ID {
		t.Fatalf("Session() = %+v, want the signed-in user's session", sess)
	}
}

func TestSignInSetsCookie(t *testing.T) {
	p := newTestProvider(t)

	resp := handle(t, p, http.MethodPost, "/sign-in/anonymous", nil)

	cookie := resp.Headers["Set-Cookie"]
	if !strings.HasPrefix(cookie, defaultCookieName+"=") {
		t.Fatalf("Set-Cookie = %q, want the session cookie", cookie)
	}

	if !strings.Contains(cookie, "HttpOnly") {
		t.Fatalf("Set-Cookie = %q, want HttpOnly", cookie)
	}

	// the session resolves through the cookie as well
	value := strings.SplitN(strings.SplitN(cookie, ";", 2)[0], "=", 2)[1]

	sess, err := p.Session(context.Background(), &provider.Request{
		Headers: map[string]string{"Cookie": defaultCookieName + "=" + value},
	})
	if err != nil || sess == nil {
		t.Fatalf("Session() via cookie = %v, %v, want a session", sess, err)
	}
}

func TestGetSession(t *testing.T) {
	p := newTestProvider(t)

	// anonymous request mirrors a JSON null
	resp := handle(t, p, http.MethodGet, "/get-session", nil)
	if string(resp.Body) != "null" {
		t.Fatalf("anonymous get-session body = %q, want null", resp.Body)
	}

	token, user := signIn(t, p)

	resp = handle(t, p, http.MethodGet, "/get-session", map[string]string{
		"Authorization": "Bearer " + token,
	})

	var sess provider.Session
	if err := json.Unmarshal(resp.Body, &sess); err != nil {
		t.Fatalf("failed to decode session: %v", err)
	}

	if sess.UserID != user.ID || sess.User == nil || !sess.User.Anonymous {
		t.Fatalf("get-session = %+v, want the anonymous session", sess)
	}
}

func TestSignOut(t *testing.T) {
	p := newTestProvider(t)

	token, _ := signIn(t, p)
	auth := map[string]string{"Authorization": "Bearer " + token}

	resp := handle(t, p, http.MethodPost, "/sign-out", auth)
	if resp.Status != http.StatusOK {
		t.Fatalf("sign-out status = %d, want 200", resp.Status)
	}

	if cookie := resp.Headers["Set-Cookie"]; !strings.Contains(cookie, "Max-Age=") {
		t.Fatalf("Set-Cookie = %q, want an expiring cookie", cookie)
	}

	// the session record is gone
	sess, err := p.Session(context.Background(), &provider.Request{Headers: auth})
	if err != nil {
		t.Fatalf("Session() after sign-out error = %v", err)
	}

	if sess != nil {
		t.Fatalf("Session() after sign-out = %+v, want nil", sess)
	}
}

func TestSessionRejectsForgedToken(t *testing.T) {
	p := newTestProvider(t)
	token, _ := signIn(t, p)

	other, err := New(Config{
		Secret:  "a-different-secret-key-entirely",
		Storage: memstore.New(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// a token signed with the wrong key resolves to no session
	sess, err := other.Session(context.Background(), &provider.Request{
		Headers: map[string]string{"Authorization": "Bearer " + token},
	})
	if err != nil || sess != nil {
		t.Fatalf("Session() with forged token = %v, %v, want nil, nil", sess, err)
	}

	// garbage is no session either
	sess, err = p.Session(context.Background(), &provider.Request{
		Headers: map[string]string{"Authorization": "Bearer not.a.token"},
	})
	if err != nil || sess != nil {
		t.Fatalf("Session() with garbage token = %v, %v, want nil, nil", sess, err)
	}
}

func TestSessionExpiry(t *testing.T) {
	store := memstore.New()

	p, err := New(Config{
		Secret:     testSecret,
		Storage:    store,
		SessionTTL: time.Second,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sess := &provider.Session{
		ID:        "expired-session",
		UserID:    "u1",
		CreatedAt: time.Now().Add(-2 * time.Hour).Unix(),
		ExpiresAt: time.Now().Add(-time.Hour).Unix(),
	}

	if err = p.store(sess); err != nil {
		t.Fatalf("store() error = %v", err)
	}

	token, err := p.sign(sess)
	if err != nil {
		t.Fatalf("sign() error = %v", err)
	}

	got, err := p.Session(context.Background(), &provider.Request{
		Headers: map[string]string{"Authorization": "Bearer " + token},
	})
	if err != nil {
		t.Fatalf("Session() error = %v", err)
	}

	if got != nil {
		t.Fatalf("Session() for an expired record = %+v, want nil", got)
	}
}

func TestHooksRunAroundRoutes(t *testing.T) {
	p := newTestProvider(t)

	var order []string

	p.Options().Hooks = provider.Hooks{
		Before: func(_ context.Context, hc *provider.HookContext) error {
			order = append(order, "before:"+hc.Path)
			return nil
		},
		After: func(_ context.Context, hc *provider.HookContext) error {
			order = append(order, "after:"+hc.Path)
			return nil
		},
	}

	handle(t, p, http.MethodGet, "/ok", nil)

	if len(order) != 2 || order[0] != "before:/ok" || order[1] != "after:/ok" {
		t.Fatalf("hook order = %v, want [before:/ok after:/ok]", order)
	}
}
