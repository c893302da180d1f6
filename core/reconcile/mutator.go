package reconcile

import "context"

// Mutator deletes lists in the backing store.
type Mutator interface {
	// Delete removes one list and its items.
	Delete(ctx context.Context, id string) error
}

// BatchDeleter is implemented by mutators that can delete many lists in one call.
type BatchDeleter interface {
	DeleteBatch(ctx context.Context, ids []string) error
}
