package tree

import "context"

// StoreError represents an error related with tree stores
type StoreError string

/*
ErrNotFound is the error returned by the Load method of a Store when
there is no tree with the requested ID.
*/
const ErrNotFound = StoreError("tree not found")

func (se StoreError) Error() string {
	return string(se)
}

/*
Store is an interface to manage a store
where trees can be saved, loaded and deleted
without growing them again.

All it methods take a context that may allow
cancelling the operation (thus forcing the return
of an error) if the implementation allows it.
*/
type Store interface {
	// Save takes a tree and stores it under its ID,
	// replacing any tree stored with the same ID.
	// Trees without ID get a new one. It returns
	// an error if the tree cannot be stored.
	Save(ctx context.Context, t *Tree) error
	// Load takes an id and returns the tree in the
	// store with that id, ErrNotFound if there is
	// none, or another error if the store cannot be
	// queried
	Load(ctx context.Context, id string) (*Tree, error)
	// Delete takes an id and deletes the tree with
	// that id from the store. Deleting a tree that
	// is not stored is not an error.
	Delete(ctx context.Context, id string) error
	// Close closes the store, implementations should
	// free any resources in use as well as ensure
	// any pending changes are applied before returning
	// (unless the context expires).
	Close(ctx context.Context) error
}
