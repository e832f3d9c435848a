// Package repositories implements SQLite persistence for the run ledger.
//
// The ledger is observability state, not archive state: the revision store
// remains the single source of truth for snapshots. Every run is recorded,
// including no-ops and failures, so `archive status` can answer "when did
// this last work" without walking git history.
package repositories
