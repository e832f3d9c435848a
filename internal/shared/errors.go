package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed     = fmt.Errorf("authentication failed")
	ErrTokenExpired   = fmt.Errorf("access token expired")
	ErrNoRefreshToken = fmt.Errorf("no refresh token available")
	ErrTimeout        = fmt.Errorf("operation timed out")

	// Fetch errors (run-fatal, safe to retry on the next scheduled run)
	ErrRateLimited = fmt.Errorf("rate limited by service")
	ErrAPIRequest  = fmt.Errorf("API request failed")

	// Archival errors
	ErrMalformedRecord = fmt.Errorf("malformed record")
	ErrArchiveBusy     = fmt.Errorf("archive is locked by another run")
	ErrCommitFailed    = fmt.Errorf("revision commit failed")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
