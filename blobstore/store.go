package blobstore

import (
	"context"

	apperrors "github.com/jrsteele09/go-club-sync/internal/errors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Store is the durable key/blob store bound to a single bucket. Read failures
// degrade to "absent" and write failures are logged and swallowed, so a caller
// only ever sees whether data was there.
type Store struct {
	backend Backend
	bucket  string
}

func New(backend Backend, bucket string) *Store {
	return &Store{backend: backend, bucket: bucket}
}

// Get returns the blob stored under key. ok is false when the blob is missing
// or could not be read.
func (s *Store) Get(ctx context.Context, key string) (data string, ok bool) {
	log.Ctx(ctx).Debug().Str("bucket", s.bucket).Str("key", key).Msg("fetching object")
	data, err := s.backend.Read(ctx, s.bucket, key)
	if err != nil {
		err = errors.Wrapf(apperrors.ErrStoreRead, "[Store.Get] %s/%s: %v", s.bucket, key, err)
		log.Ctx(ctx).Error().Err(err).Msg("error getting object, treating as absent")
		return "", false
	}
	return data, true
}

// Put replaces the blob stored under key. Last write wins.
func (s *Store) Put(ctx context.Context, key, data string) {
	log.Ctx(ctx).Debug().Str("bucket", s.bucket).Str("key", key).Int("bytes", len(data)).Msg("uploading object")
	if err := s.backend.Write(ctx, s.bucket, key, data); err != nil {
		err = errors.Wrapf(apperrors.ErrStoreWrite, "[Store.Put] %s/%s: %v", s.bucket, key, err)
		log.Ctx(ctx).Error().Err(err).Msg("error uploading object")
	}
}
