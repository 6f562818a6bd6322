package googleauth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

// freePort grabs an available localhost port for the callback listener.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()
	return port
}

const clientSecretJSON = `{
  "installed": {
    "client_id": "client-id.apps.googleusercontent.com",
    "client_secret": "secret",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "redirect_uris": ["http://localhost"]
  }
}`

func TestNewAuthenticator(t *testing.T) {
	dir := t.TempDir()
	secretPath := filepath.Join(dir, "client_secret.json")
	if err := os.WriteFile(secretPath, []byte(clientSecretJSON), 0o600); err != nil {
		t.Fatal(err)
	}

	a, err := NewAuthenticator(secretPath, filepath.Join(dir, "token.json"), 8080, DocsScopes)
	if err != nil {
		t.Fatalf("NewAuthenticator: %v", err)
	}
	if a.config.ClientID != "client-id.apps.googleusercontent.com" {
		t.Errorf("unexpected client id: %q", a.config.ClientID)
	}
	if len(a.config.Scopes) != len(DocsScopes) {
		t.Errorf("unexpected scopes: %v", a.config.Scopes)
	}
}

func TestNewAuthenticatorMissingClientSecret(t *testing.T) {
	_, err := NewAuthenticator(filepath.Join(t.TempDir(), "nope.json"), "token.json", 8080, DocsScopes)
	if !errors.Is(err, ErrNoClientSecret) {
		t.Fatalf("expected ErrNoClientSecret, got %v", err)
	}
}

func TestAuthenticateReturnsValidCachedToken(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "token.json"))
	cached := &oauth2.Token{
		AccessToken: "cached",
		Expiry:      time.Now().Add(time.Hour),
	}
	if err := store.Save(cached); err != nil {
		t.Fatal(err)
	}

	a := &Authenticator{
		config: &oauth2.Config{ClientID: "id", ClientSecret: "secret"},
		store:  store,
	}

	tok, err := a.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if tok.AccessToken != "cached" {
		t.Errorf("expected cached token, got %q", tok.AccessToken)
	}
}

func TestAuthenticateRefreshesExpiredToken(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if got := r.Form.Get("refresh_token"); got != "refresh" {
			http.Error(w, fmt.Sprintf("unexpected refresh token %q", got), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token": "fresh", "token_type": "Bearer", "expires_in": 3600}`)
	}))
	defer tokenServer.Close()

	store := NewStore(filepath.Join(t.TempDir(), "token.json"))
	expired := &oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(-time.Hour),
	}
	if err := store.Save(expired); err != nil {
		t.Fatal(err)
	}

	a := &Authenticator{
		config: &oauth2.Config{
			ClientID:     "id",
			ClientSecret: "secret",
			Endpoint:     oauth2.Endpoint{TokenURL: tokenServer.URL},
		},
		store: store,
	}

	tok, err := a.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if tok.AccessToken != "fresh" {
		t.Errorf("expected refreshed token, got %q", tok.AccessToken)
	}

	// The refreshed token must be persisted, replacing the stale cache.
	persisted, err := store.Load()
	if err != nil {
		t.Fatalf("Load persisted: %v", err)
	}
	if persisted.AccessToken != "fresh" {
		t.Errorf("persisted token = %q, want %q", persisted.AccessToken, "fresh")
	}
	if persisted.RefreshToken != "refresh" {
		t.Errorf("refresh token should be retained, got %q", persisted.RefreshToken)
	}
}

func TestInteractiveFlowExchangesCallbackCode(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if got := r.Form.Get("code"); got != "auth-code" {
			http.Error(w, fmt.Sprintf("unexpected code %q", got), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token": "granted", "refresh_token": "granted-refresh", "token_type": "Bearer", "expires_in": 3600}`)
	}))
	defer tokenServer.Close()

	port := freePort(t)
	store := NewStore(filepath.Join(t.TempDir(), "token.json"))
	a := &Authenticator{
		config: &oauth2.Config{
			ClientID:     "id",
			ClientSecret: "secret",
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://example.com/auth",
				TokenURL: tokenServer.URL,
			},
		},
		store: store,
		port:  port,
	}
	// Simulate the provider redirecting the browser back to the listener once
	// the consent URL (carrying the state token) has been produced.
	a.promptFunc = func(authURL string) {
		parsed, err := url.Parse(authURL)
		if err != nil {
			t.Errorf("bad auth url: %v", err)
			return
		}
		state := parsed.Query().Get("state")
		go func() {
			callback := fmt.Sprintf("http://localhost:%d/?state=%s&code=auth-code", port, state)
			resp, err := http.Get(callback)
			if err == nil {
				resp.Body.Close()
			}
		}()
	}

	tok, err := a.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if tok.AccessToken != "granted" {
		t.Errorf("expected exchanged token, got %q", tok.AccessToken)
	}

	persisted, err := store.Load()
	if err != nil {
		t.Fatalf("Load persisted: %v", err)
	}
	if persisted.RefreshToken != "granted-refresh" {
		t.Errorf("persisted refresh token = %q", persisted.RefreshToken)
	}
}
