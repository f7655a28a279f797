package token

import (
	"context"

	"github.com/jrsteele09/go-club-sync/oauthmodel"
)

// CredentialRepo loads and persists the OAuth credential between invocations.
type CredentialRepo interface {
	Load(ctx context.Context) (*oauthmodel.Credential, error)
	Save(ctx context.Context, credential *oauthmodel.Credential) error
}
