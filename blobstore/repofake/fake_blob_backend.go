package blobrepofake

import (
	"context"
	"errors"
	"sync"

	"github.com/jrsteele09/go-club-sync/blobstore"
)

var _ blobstore.Backend = (*FakeBlobBackend)(nil)

var ErrNotFound = errors.New("not found")

// Write records a single Write call.
type Write struct {
	Bucket string
	Key    string
	Data   string
}

type FakeBlobBackend struct {
	blobs    map[string]string
	writes   []Write
	reads    int
	readErr  error
	writeErr error
	lock     sync.RWMutex
}

func NewFakeBlobBackend() *FakeBlobBackend {
	return &FakeBlobBackend{
		blobs: make(map[string]string),
	}
}

func objectKey(bucket, key string) string {
	return bucket + "/" + key
}

// Seed stores a blob without recording a write.
func (b *FakeBlobBackend) Seed(bucket, key, data string) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.blobs[objectKey(bucket, key)] = data
}

// FailReads makes every Read return err until cleared with nil.
func (b *FakeBlobBackend) FailReads(err error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.readErr = err
}

// FailWrites makes every Write return err until cleared with nil.
func (b *FakeBlobBackend) FailWrites(err error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.writeErr = err
}

func (b *FakeBlobBackend) Read(_ context.Context, bucket, key string) (string, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.reads++
	if b.readErr != nil {
		return "", b.readErr
	}
	data, ok := b.blobs[objectKey(bucket, key)]
	if !ok {
		return "", ErrNotFound
	}
	return data, nil
}

func (b *FakeBlobBackend) Write(_ context.Context, bucket, key, data string) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.writeErr != nil {
		return b.writeErr
	}
	b.blobs[objectKey(bucket, key)] = data
	b.writes = append(b.writes, Write{Bucket: bucket, Key: key, Data: data})
	return nil
}

// Blob returns the current value under bucket/key.
func (b *FakeBlobBackend) Blob(bucket, key string) (string, bool) {
	b.lock.RLock()
	defer b.lock.RUnlock()
	data, ok := b.blobs[objectKey(bucket, key)]
	return data, ok
}

// Writes returns every successful write in order.
func (b *FakeBlobBackend) Writes() []Write {
	b.lock.RLock()
	defer b.lock.RUnlock()
	return append([]Write(nil), b.writes...)
}

// Reads returns the number of Read calls.
func (b *FakeBlobBackend) Reads() int {
	b.lock.RLock()
	defer b.lock.RUnlock()
	return b.reads
}
