package activities

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/jrsteele09/go-club-sync/blobstore"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Cache holds the last fetched activity batch in the durable store.
type Cache struct {
	store *blobstore.Store
	key   string
}

func NewCache(store *blobstore.Store, key string) *Cache {
	return &Cache{store: store, key: key}
}

// Load returns the cached batch. ok is false when there is no usable cache,
// which callers treat as no prior history. A store outage looks the same.
func (c *Cache) Load(ctx context.Context) (batch []Activity, ok bool) {
	data, ok := c.store.Get(ctx, c.key)
	if !ok || data == "" {
		return nil, false
	}
	if err := json.Unmarshal([]byte(data), &batch); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", c.key).Msg("activity cache unreadable, treating as empty")
		return nil, false
	}
	return batch, true
}

// Save replaces the cached batch.
func (c *Cache) Save(ctx context.Context, batch []Activity) error {
	if batch == nil {
		batch = []Activity{}
	}
	data, err := json.Marshal(batch)
	if err != nil {
		return errors.Wrap(err, "[Cache.Save] Marshal")
	}
	c.store.Put(ctx, c.key, string(data))
	return nil
}
