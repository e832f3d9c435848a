// Package server implements the localhost OAuth2 callback used by the
// interactive `spotify auth` command.
//
// The [OAuthHandler] validates the state parameter (CSRF protection),
// exchanges the authorization code for tokens, and delivers the result
// through a channel. It processes exactly one callback. A temporary
// [http.Server] built with [NewCallbackServer] hosts the handler for the
// duration of the flow and is shut down as soon as a result arrives.
package server
