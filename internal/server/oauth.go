package server

import (
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// successPage is rendered in the browser after Spotify redirects back with a
// valid authorization code.
const successPage = `
<!DOCTYPE html>
<html>
<head>
    <title>Spotify Playlist Generator</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #121212; }
        .card { text-align: center; background: #181818; padding: 2.5rem 3rem;
                border-radius: 8px; border: 1px solid #282828; }
        h1 { color: #1DB954; margin: 0 0 0.5rem 0; }
        h2 { color: #fff; font-weight: 400; margin: 0 0 1rem 0; font-size: 1rem; }
        p { color: #b3b3b3; margin: 0; }
    </style>
</head>
<body>
    <div class="card">
        <h1>Connected to Spotify</h1>
        <h2>Spotify Playlist Generator</h2>
        <p>You can close this window and return to spg in your terminal.</p>
    </div>
</body>
</html>
`

// OAuthResult carries the outcome of one authorization code exchange. Exactly
// one result is delivered per handler.
type OAuthResult struct {
	Token *oauth2.Token
	err   error
}

func (o *OAuthResult) Error() error {
	return o.err
}

// OAuthHandler serves the /callback leg of the Spotify authorization code
// flow. The login command blocks on Result while the user approves access in
// the browser.
type OAuthHandler struct {
	config  *oauth2.Config
	state   string
	results chan OAuthResult

	sendOnce sync.Once
	mu       sync.Mutex
	handled  bool
}

// NewOAuthHandler builds a callback handler bound to the given OAuth2 config.
// The state value must match the one embedded in the authorization URL and
// should come from GenerateState.
func NewOAuthHandler(config *oauth2.Config, state string) *OAuthHandler {
	return &OAuthHandler{
		config:  config,
		state:   state,
		results: make(chan OAuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP validates the state parameter, exchanges the authorization code
// for a token, and publishes the outcome on the result channel. Repeat
// callbacks after the first are rejected.
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.handled {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.handled = true
	h.mu.Unlock()

	if state := r.URL.Query().Get("state"); state != h.state {
		h.Send(OAuthResult{err: fmt.Errorf("invalid state parameter")})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		// Spotify reports denial through error/error_description.
		err := fmt.Errorf("authorization failed: %s - %s",
			r.URL.Query().Get("error"), r.URL.Query().Get("error_description"))
		h.Send(OAuthResult{err: err})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		h.Send(OAuthResult{err: fmt.Errorf("token exchange failed: %w", err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.Send(OAuthResult{Token: token})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, successPage)
}

// Send publishes the result and closes the channel. Subsequent calls are
// no-ops.
func (h *OAuthHandler) Send(result OAuthResult) {
	h.sendOnce.Do(func() {
		h.results <- result
		close(h.results)
	})
}

// Result returns the channel the flow outcome is delivered on. It receives
// exactly one value and is then closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.results
}
