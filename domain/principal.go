package domain

// Principal is the authenticated identity resolved from a request's bearer
// credential. It lives for exactly one request and is never persisted.
// AccessToken is the delegated credential forwarded to the store so that the
// store's own row-level authorization applies per user.
type Principal struct {
	ID          string
	Email       string
	AccessToken string
}
