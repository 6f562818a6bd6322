package googleauth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
)

// ErrNoClientSecret means no usable client-secret configuration exists and no
// cached token can be obtained, so credentials cannot be acquired at all.
var ErrNoClientSecret = errors.New("googleauth: client secret configuration not found")

// CallbackTimeout is how long the interactive flow waits for the OAuth callback.
const CallbackTimeout = 5 * time.Minute

// DocsScopes covers every document operation the agent exposes. The drive
// scope is needed for search and for anchored comments.
var DocsScopes = []string{docs.DocumentsScope, drive.DriveScope}

// Authenticator acquires Google OAuth2 credentials: cached token first, then
// refresh, then the interactive authorization-code flow with a local callback
// listener.
type Authenticator struct {
	config *oauth2.Config
	store  *Store
	port   int

	// promptFunc presents the consent URL to the user. Defaults to a log line.
	promptFunc func(authURL string)
}

// NewAuthenticator parses the client-secret file and prepares the token cache.
func NewAuthenticator(clientSecretPath, tokenCachePath string, callbackPort int, scopes []string) (*Authenticator, error) {
	data, err := os.ReadFile(clientSecretPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoClientSecret, clientSecretPath)
		}
		return nil, fmt.Errorf("read client secret %s: %w", clientSecretPath, err)
	}

	cfg, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse client secret %s: %w", clientSecretPath, err)
	}

	return &Authenticator{
		config: cfg,
		store:  NewStore(tokenCachePath),
		port:   callbackPort,
	}, nil
}

// Authenticate returns a usable token: the cached one when still valid, a
// refreshed one when a refresh token is present, otherwise the result of the
// interactive flow. Refreshed and newly obtained tokens are persisted,
// overwriting any prior cache file.
func (a *Authenticator) Authenticate(ctx context.Context) (*oauth2.Token, error) {
	tok, err := a.store.Load()
	if err != nil {
		return nil, err
	}
	if tok != nil && tok.Valid() {
		return tok, nil
	}

	if tok != nil && tok.RefreshToken != "" {
		refreshed, err := a.config.TokenSource(ctx, tok).Token()
		if err == nil {
			if err := a.store.Save(refreshed); err != nil {
				return nil, err
			}
			return refreshed, nil
		}
		log.Printf("token refresh failed, falling back to interactive flow: %v", err)
	}

	tok, err = a.interactiveFlow(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.store.Save(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// Client returns an HTTP client that authorizes requests with the token,
// refreshing it transparently as it expires.
func (a *Authenticator) Client(ctx context.Context, tok *oauth2.Token) *http.Client {
	return oauth2.NewClient(ctx, a.config.TokenSource(ctx, tok))
}

type callbackResult struct {
	token *oauth2.Token
	err   error
}

// interactiveFlow runs the authorization-code exchange: it starts a temporary
// HTTP server on the fixed callback port, prints the consent URL, and waits
// for the provider to redirect back with the code.
func (a *Authenticator) interactiveFlow(ctx context.Context) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", a.port))
	if err != nil {
		return nil, fmt.Errorf("start callback listener on port %d: %w", a.port, err)
	}

	cfg := *a.config
	cfg.RedirectURL = fmt.Sprintf("http://localhost:%d/", a.port)

	state := uuid.New().String()
	resultChan := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			resultChan <- callbackResult{err: errors.New("invalid state token")}
			http.Error(w, "Invalid state token", http.StatusBadRequest)
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			resultChan <- callbackResult{err: errors.New("authorization code missing from callback")}
			http.Error(w, "Authorization code missing", http.StatusBadRequest)
			return
		}

		tok, err := cfg.Exchange(r.Context(), code)
		if err != nil {
			resultChan <- callbackResult{err: fmt.Errorf("token exchange failed: %w", err)}
			http.Error(w, fmt.Sprintf("Token exchange failed: %v", err), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><body>Authentication successful! You may close this window.</body></html>")
		resultChan <- callbackResult{token: tok}
	})

	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("callback server stopped: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
	if a.promptFunc != nil {
		a.promptFunc(authURL)
	} else {
		log.Printf("open the following URL in a browser to authorize access:\n%s", authURL)
	}

	select {
	case res := <-resultChan:
		if res.err != nil {
			return nil, res.err
		}
		return res.token, nil
	case <-time.After(CallbackTimeout):
		return nil, errors.New("timed out waiting for OAuth callback")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
