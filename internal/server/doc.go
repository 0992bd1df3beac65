// Package server provides HTTP routing, middleware, and the OAuth callback used by the CLI auth flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback flow.
// The handler validates the state parameter (CSRF protection), exchanges the authorization code for tokens,
// and sends the result through a channel. It only processes one callback to prevent replay attacks.
//
// # Usage
//
// When the user runs `spg auth`, a temporary HTTP server starts on the configured
// host/port (localhost:3000 by default), handles the Spotify redirect, and shuts
// down after delivering the OAuth token to the CLI.
package server
