package blobstore

import "context"

// Backend reads and writes opaque string blobs in a bucket. Implementations
// surface errors; Store decides what to do with them.
type Backend interface {
	Read(ctx context.Context, bucket, key string) (string, error)
	Write(ctx context.Context, bucket, key, data string) error
}
