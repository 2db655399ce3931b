package domain

// UserProfile represents an application user record in the store.
// Enabled=false is a terminal soft delete; no reactivation path exists.
type UserProfile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}
