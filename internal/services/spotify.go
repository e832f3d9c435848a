// Spotify API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"spogitify/internal/shared"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// spotifyPaginatedPlaylists is one page of the current user's playlists.
type spotifyPaginatedPlaylists struct {
	Items []RawPlaylist `json:"items"`
	Next  *string       `json:"next"`
}

// spotifyPaginatedTracks is one page of a playlist's tracks.
type spotifyPaginatedTracks struct {
	Items []RawPlaylistTrack `json:"items"`
	Next  *string            `json:"next"`
}

// OAuthService extends Service with the OAuth2 flow needed for interactive login.
type OAuthService interface {
	Service
	GetAuthURL(state string) string
	GetOAuthConfig() *oauth2.Config
	OAuthenticate(ctx context.Context, token *oauth2.Token) error
}

// SpotifyService implements the Service interface for Spotify API interactions.
// Uses [oauth2] for authentication and refresh.
type SpotifyService struct {
	config     *oauth2.Config
	token      *oauth2.Token
	httpClient *http.Client
	baseURL    string
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:8888/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-library-read",
			"playlist-read-private",
			"playlist-read-collaborative",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
		baseURL:    spotifyBaseURL,
	}, nil
}

// Authenticate authenticates with a stored token. Expects "access_token" and
// optionally "refresh_token" in credentials.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	accessToken := credentials["access_token"]
	refreshToken := credentials["refresh_token"]
	if accessToken == "" && refreshToken == "" {
		return fmt.Errorf("%w: missing access_token", shared.ErrMissingCredentials)
	}

	return s.OAuthenticate(ctx, &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// OAuthenticate installs an [oauth2.Token]; the underlying client refreshes it as needed.
func (s *SpotifyService) OAuthenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("%w: nil token", shared.ErrMissingCredentials)
	}
	s.token = token
	s.httpClient = s.config.Client(ctx, token)
	return nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig exposes the OAuth2 config for the callback handler.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// doRequest performs an authenticated GET against the Spotify API and decodes the response.
//
// apiURL may be a path relative to the API base or a fully qualified "next" page URL.
func (s *SpotifyService) doRequest(ctx context.Context, apiURL string, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrAuthFailed)
	}

	if len(apiURL) > 0 && apiURL[0] == '/' {
		apiURL = s.baseURL + apiURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: status %d", shared.ErrTokenExpired, resp.StatusCode)
	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", shared.ErrAuthFailed, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: retry-after %s", shared.ErrRateLimited, resp.Header.Get("Retry-After"))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// ListPlaylists retrieves all playlists for the authenticated user, following pagination.
func (s *SpotifyService) ListPlaylists(ctx context.Context) ([]RawPlaylist, error) {
	var all []RawPlaylist
	url := "/me/playlists?limit=50"

	for url != "" {
		var page spotifyPaginatedPlaylists
		if err := s.doRequest(ctx, url, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Items...)

		url = ""
		if page.Next != nil {
			url = *page.Next
		}
	}

	return all, nil
}

// ListTracks retrieves the full ordered track listing of a playlist, following pagination.
func (s *SpotifyService) ListTracks(ctx context.Context, playlistID string) ([]RawPlaylistTrack, error) {
	var all []RawPlaylistTrack
	url := fmt.Sprintf("/playlists/%s/tracks?limit=100", playlistID)

	for url != "" {
		var page spotifyPaginatedTracks
		if err := s.doRequest(ctx, url, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Items...)

		url = ""
		if page.Next != nil {
			url = *page.Next
		}
	}

	return all, nil
}
