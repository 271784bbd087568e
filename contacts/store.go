package contacts

import "context"

// Store persists a Directory. Save must be all-or-nothing from the caller's
// point of view; Mutate wraps one load-mutate-save cycle so concurrent
// invocations cannot lose each other's writes.
type Store interface {
	Load(ctx context.Context) (*Directory, error)
	Save(ctx context.Context, dir *Directory) error
	Mutate(ctx context.Context, fn func(dir *Directory) error) error
}
