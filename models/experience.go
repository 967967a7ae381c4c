package models

// ExperienceEntry is a (user, experience) pair for server-scoped reporting.
// The ledger row itself is keyed by user only; server_id records which
// server the most recent write came from.
type ExperienceEntry struct {
	UserID     int64 `db:"user_id"`
	Experience int64 `db:"experience"`
}
