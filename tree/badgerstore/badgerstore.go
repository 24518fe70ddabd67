/*
Package badgerstore provides a tree.Store that keeps trees in an embedded
badger key-value database, so grown trees survive the process without an
external server.
*/
package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/uab-projects/decision-trees/tree"
	"github.com/uab-projects/decision-trees/tree/json"
)

const keyPrefix = "tree:"

type badgerStore struct {
	db *badger.DB
}

/*
Open takes the path of a directory and returns a tree.Store backed by a
badger database in it, creating the directory if needed. An empty path
opens an in-memory database that is lost on Close.
*/
func Open(path string) (tree.Store, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0750); err != nil {
			return nil, fmt.Errorf("creating badger directory %s: %w", path, err)
		}
		opts = badger.DefaultOptions(path)
	}
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("opening badger database: %w", err)
	}
	return New(db), nil
}

// New returns a tree.Store on an open badger DB. Closing the store closes the DB.
func New(db *badger.DB) tree.Store {
	return &badgerStore{db}
}

func (bs *badgerStore) Save(ctx context.Context, t *tree.Tree) error {
	if t.ID == "" {
		t.ID = tree.NewID()
	}
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("storing tree %q: encoding tree: %w", t.ID, err)
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	err = bs.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(t.ID), data)
	})
	if err != nil {
		return fmt.Errorf("storing tree %q: %w", t.ID, err)
	}
	return nil
}

func (bs *badgerStore) Load(ctx context.Context, id string) (*tree.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err := bs.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(id))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, tree.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving tree %q: %w", id, err)
	}
	t, err := json.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("retrieving tree %q: decoding: %w", id, err)
	}
	return t, nil
}

func (bs *badgerStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := bs.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(id))
	})
	if err != nil {
		return fmt.Errorf("deleting tree %q: %w", id, err)
	}
	return nil
}

func (bs *badgerStore) Close(ctx context.Context) error {
	return bs.db.Close()
}

func key(id string) []byte {
	return []byte(keyPrefix + id)
}
