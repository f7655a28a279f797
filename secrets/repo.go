package secrets

import "context"

// Store looks up named secret values. Callers fetch on every use; nothing is cached.
type Store interface {
	GetParameter(ctx context.Context, name string) (string, error)
}
