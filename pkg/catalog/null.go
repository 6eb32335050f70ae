package catalog

import "context"

// NullStore discards everything. Useful for disabling the catalog without
// branching at call sites.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() *NullStore { return &NullStore{} }

// Put does nothing.
func (*NullStore) Put(ctx context.Context, rec *Record) error { return nil }

// Get always reports not found.
func (*NullStore) Get(ctx context.Context, key string) (*Record, error) {
	return nil, ErrNotFound
}

// Has always reports false.
func (*NullStore) Has(ctx context.Context, key string) (bool, error) { return false, nil }

// Delete does nothing.
func (*NullStore) Delete(ctx context.Context, key string) error { return nil }

// Count always reports zero.
func (*NullStore) Count(ctx context.Context) (int64, error) { return 0, nil }

// Close does nothing.
func (*NullStore) Close() error { return nil }

var _ Store = (*NullStore)(nil)
