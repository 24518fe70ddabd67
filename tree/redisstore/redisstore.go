/*
Package redisstore provides a tree.Store that keeps trees in a redis DB, so
that grown trees can be shared by several processes.
*/
package redisstore

import (
	"context"
	"fmt"

	"github.com/uab-projects/decision-trees/tree"
	"github.com/uab-projects/decision-trees/tree/json"
	"gopkg.in/redis.v5"
)

/*
TreeEncodeDecoder is an interface for objects
that allow encoding trees into slices of
bytes and decoding them back to trees.
*/
type TreeEncodeDecoder interface {

	//Encode receives a *tree.Tree
	// and returns a slice of bytes with the tree
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(*tree.Tree) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a *tree.Tree decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (*tree.Tree, error)
}

type jsonEncodeDecoder struct{}

func (jsonEncodeDecoder) Encode(t *tree.Tree) ([]byte, error) {
	return json.Marshal(t)
}

func (jsonEncodeDecoder) Decode(data []byte) (*tree.Tree, error) {
	return json.Unmarshal(data)
}

// JSON is a TreeEncodeDecoder using the tree/json format
var JSON TreeEncodeDecoder = jsonEncodeDecoder{}

type redisStore struct {
	rc      *redis.Client
	prefix  string
	tencdec TreeEncodeDecoder
}

// New builds a tree.Store backed by a redis DB
func New(rc *redis.Client, prefix string, tencdec TreeEncodeDecoder) tree.Store {
	return &redisStore{rc, prefix, tencdec}
}

/*
Open takes a redis URL such as redis://localhost:6379/0 and a key prefix
and returns a tree.Store saving JSON encoded trees on the redis DB at the
URL. An error is returned if the URL cannot be parsed or the DB does not
answer a ping.
*/
func Open(url, prefix string) (tree.Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url %q: %v", url, err)
	}
	rc := redis.NewClient(opts)
	if err = rc.Ping().Err(); err != nil {
		rc.Close()
		return nil, fmt.Errorf("connecting to redis at %q: %v", url, err)
	}
	return New(rc, prefix, JSON), nil
}

func (rs *redisStore) Save(ctx context.Context, t *tree.Tree) error {
	if t.ID == "" {
		t.ID = tree.NewID()
	}
	redisID := rs.keyFor(t.ID)
	data, err := rs.tencdec.Encode(t)
	if err != nil {
		return fmt.Errorf("storing tree %q: encoding tree: %v", redisID, err)
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	_, err = rs.rc.Set(redisID, data, 0).Result()
	if err != nil {
		return fmt.Errorf("storing tree %q in redis: %v", redisID, err)
	}
	return nil
}

func (rs *redisStore) Load(ctx context.Context, id string) (*tree.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := rs.rc.Get(rs.keyFor(id)).Bytes()
	if err == redis.Nil {
		return nil, tree.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving tree %q: %v", id, err)
	}
	t, err := rs.tencdec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("retrieving tree %q: decoding %q: %v", id, data, err)
	}
	return t, nil
}

func (rs *redisStore) Delete(ctx context.Context, id string) error {
	redisID := rs.keyFor(id)
	_, err := rs.rc.Del(redisID).Result()
	if err != nil {
		return fmt.Errorf("deleting tree %q from redis: %v", redisID, err)
	}
	return nil
}

func (rs *redisStore) Close(ctx context.Context) error {
	return rs.rc.Close()
}

func (rs *redisStore) keyFor(id string) string {
	return fmt.Sprintf("%s:%s", rs.prefix, id)
}
