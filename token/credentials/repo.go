// Package credentials persists the OAuth credential as a JSON blob.
package credentials

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/jrsteele09/go-club-sync/blobstore"
	apperrors "github.com/jrsteele09/go-club-sync/internal/errors"
	"github.com/jrsteele09/go-club-sync/oauthmodel"
	"github.com/jrsteele09/go-club-sync/token"
	"github.com/pkg/errors"
)

var _ token.CredentialRepo = (*Repo)(nil)

type Repo struct {
	store *blobstore.Store
	key   string
}

func NewRepo(store *blobstore.Store, key string) *Repo {
	return &Repo{store: store, key: key}
}

// Load reads the credential blob. A missing or undecodable blob is
// ErrCredentialsNotFound: there is nothing to authenticate with.
func (r *Repo) Load(ctx context.Context) (*oauthmodel.Credential, error) {
	data, ok := r.store.Get(ctx, r.key)
	if !ok {
		return nil, errors.Wrapf(apperrors.ErrCredentialsNotFound, "[credentials.Load] %s", r.key)
	}
	c := &oauthmodel.Credential{}
	if err := json.Unmarshal([]byte(data), c); err != nil {
		return nil, errors.Wrapf(apperrors.ErrCredentialsNotFound, "[credentials.Load] %s: %v", r.key, err)
	}
	return c, nil
}

// Save writes the full credential. Store failures are logged by the store and
// not returned.
func (r *Repo) Save(ctx context.Context, c *oauthmodel.Credential) error {
	data, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "[credentials.Save] Marshal")
	}
	r.store.Put(ctx, r.key, string(data))
	return nil
}
