/*
Package json serializes trees as JSON documents so they can be stored and
restored without growing them again.
*/
package json

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/uab-projects/decision-trees/tree"
)

/*
WriteJSONTree takes a context.Context, a pointer to a tree.Tree and an
io.Writer and serializes the given tree as JSON onto the io.Writer.
A tree is serialized as a JSON object with the following fields:
  - "id": a string with the ID of the tree
  - "target": the column of the feature the tree predicts
  - "algorithm": the name of the algorithm that grew the tree
  - "rootID": a string with the ID of the node at the root of the tree
  - "nodes": an array containing the nodes of the tree in pre-order, each
    with the ID of its parent and the IDs of its subtrees

Nodes without ID are numbered before being written.
An error is returned if the tree cannot be traversed, serialized or written
onto the io.Writer.
*/
func WriteJSONTree(ctx context.Context, t *tree.Tree, w io.Writer) error {
	if t.Root == nil {
		return fmt.Errorf("cannot serialize a tree without root")
	}
	if t.Root.ID == "" {
		t.Number()
	}
	err := marshalJSONTreeHeader(t, w)
	if err != nil {
		return err
	}
	parents := make(map[*tree.Node]string)
	var i int
	err = t.Traverse(ctx, false, func(ctx context.Context, n *tree.Node) error {
		for _, c := range n.Children {
			parents[c] = n.ID
		}
		err := writeNode(i, encodeNode(n, parents[n]), w)
		i++
		return err
	})
	if err != nil {
		return err
	}
	_, err = w.Write([]byte(`]}`))
	return err
}

/*
ReadJSONTree takes a context.Context and an io.Reader and unmarshals the
contents of the io.Reader into a new tree.
A tree is expected to be a JSON object with the fields written by
WriteJSONTree. An error is returned if the JSON cannot be read from the
io.Reader or does not describe a tree.
*/
func ReadJSONTree(ctx context.Context, r io.Reader) (*tree.Tree, error) {
	dec := json.NewDecoder(r)
	jt := &struct {
		ID        string  `json:"id"`
		Target    int     `json:"target"`
		Algorithm string  `json:"algorithm"`
		RootID    string  `json:"rootID"`
		Nodes     []*node `json:"nodes"`
	}{}
	err := dec.Decode(jt)
	if err != nil {
		return nil, err
	}
	if jt.RootID == "" {
		return nil, fmt.Errorf("no root node id available")
	}
	nodes := make(map[string]*tree.Node, len(jt.Nodes))
	for _, jn := range jt.Nodes {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		if _, ok := nodes[jn.ID]; ok {
			return nil, fmt.Errorf("unmarshalling node %v: duplicated id", jn.ID)
		}
		nodes[jn.ID] = jn.decode()
	}
	root, ok := nodes[jt.RootID]
	if !ok {
		return nil, fmt.Errorf("root node %v not found", jt.RootID)
	}
	if err = link(nodes, jt.Nodes, jt.RootID); err != nil {
		return nil, err
	}
	return &tree.Tree{ID: jt.ID, Target: jt.Target, Algorithm: jt.Algorithm, Root: root}, nil
}

// Marshal returns the JSON serialization of the tree written by WriteJSONTree.
func Marshal(t *tree.Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSONTree(context.Background(), t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal returns the tree serialized in data.
func Unmarshal(data []byte) (*tree.Tree, error) {
	return ReadJSONTree(context.Background(), bytes.NewReader(data))
}

func marshalJSONTreeHeader(t *tree.Tree, w io.Writer) error {
	jID, err := json.Marshal(t.ID)
	if err != nil {
		return err
	}
	jAlgorithm, err := json.Marshal(t.Algorithm)
	if err != nil {
		return err
	}
	jRootID, err := json.Marshal(t.Root.ID)
	if err != nil {
		return err
	}
	header := fmt.Sprintf(`{"id":%s,"target":%d,"algorithm":%s,"rootID":%s,"nodes":[`, jID, t.Target, jAlgorithm, jRootID)
	_, err = w.Write([]byte(header))
	return err
}

func writeNode(i int, jn *node, w io.Writer) error {
	if i != 0 {
		_, err := w.Write([]byte(","))
		if err != nil {
			return err
		}
	}
	data, err := json.Marshal(jn)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
