// Package kvstore exposes a small document store keyed by partition key
// plus optional sort key. Repositories own their tables and keep items as
// JSON documents; all atomicity is delegated to single-key conditional
// operations of the backing store.
package kvstore

import (
	"context"
	"errors"
	"time"
)

var (
	ErrKeyNotFound = errors.New("key not found")
)

// Key identifies one item. SK is empty for tables keyed by partition
// key only.
type Key struct {
	PK string
	SK string
}

type Store interface {
	// Get returns the document stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, table string, key Key) ([]byte, error)

	// Put stores doc under key, overwriting any existing item.
	Put(ctx context.Context, table string, key Key, doc []byte) error

	// PutWithExpiry is Put with an expiry timestamp after which the item
	// may be purged by an external sweep. Expiry is advisory; readers are
	// not filtered by it.
	PutWithExpiry(ctx context.Context, table string, key Key, doc []byte, expiresAt time.Time) error

	// Update replaces the document under key only if the item already
	// exists, atomically, and returns the stored document. Returns
	// ErrKeyNotFound without writing when the item is absent.
	Update(ctx context.Context, table string, key Key, doc []byte) ([]byte, error)

	// Delete atomically removes the item and returns the document it held
	// at the moment of deletion, or ErrKeyNotFound.
	Delete(ctx context.Context, table string, key Key) ([]byte, error)

	// Scan returns every document in the table, in no particular order.
	Scan(ctx context.Context, table string) ([][]byte, error)

	// Query returns the documents of one partition, ordered by sort key.
	Query(ctx context.Context, table string, pk string) ([][]byte, error)

	// BatchGet returns the documents of the keys that exist. Missing keys
	// are silently omitted; result order is unspecified.
	BatchGet(ctx context.Context, table string, keys []Key) ([][]byte, error)
}
