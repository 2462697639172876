package ports

// TokenStore persists the single bearer token across process restarts.
// Load returns domain.ErrNoToken when nothing is saved.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}
