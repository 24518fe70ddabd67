package json

import (
	"fmt"

	"github.com/uab-projects/decision-trees/tree"
)

type node struct {
	ID           string   `json:"id"`
	ParentID     string   `json:"pId,omitempty"`
	SubtreeIDs   []string `json:"stIds,omitempty"`
	Branch       bool     `json:"branch,omitempty"`
	Discriminant float64  `json:"d"`
	Samples      int      `json:"n"`
	Class        float64  `json:"class,omitempty"`
	Feature      int      `json:"f,omitempty"`
	Continuous   bool     `json:"cont,omitempty"`
	Threshold    float64  `json:"t,omitempty"`
	Meaning      string   `json:"meaning,omitempty"`
	Condition    string   `json:"cond,omitempty"`
}

func encodeNode(n *tree.Node, parentID string) *node {
	jn := &node{
		ID:           n.ID,
		ParentID:     parentID,
		Branch:       !n.IsLeaf(),
		Discriminant: n.Discriminant,
		Samples:      n.Samples,
		Meaning:      n.Meaning,
		Condition:    n.Condition,
	}
	if n.IsLeaf() {
		jn.Class = n.Class
		return jn
	}
	jn.Feature = n.Feature
	jn.Continuous = n.Continuous
	jn.Threshold = n.Threshold
	jn.SubtreeIDs = make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		jn.SubtreeIDs = append(jn.SubtreeIDs, c.ID)
	}
	return jn
}

func (jn *node) decode() *tree.Node {
	var n *tree.Node
	if jn.Branch {
		n = tree.NewBranch(jn.Feature, jn.Continuous, jn.Threshold, jn.Samples)
	} else {
		n = tree.NewLeaf(jn.Class, jn.Samples)
	}
	n.ID = jn.ID
	n.Discriminant = jn.Discriminant
	n.Meaning = jn.Meaning
	n.Condition = jn.Condition
	return n
}

/*
link takes the decoded nodes indexed by ID, the encoded nodes and the ID of
the root and sets the children of every branch, returning an error if a
node references an unknown subtree, a subtree is referenced twice, a leaf
has subtrees, the root is referenced as a subtree or a node is not
reachable from the root.
*/
func link(nodes map[string]*tree.Node, jns []*node, rootID string) error {
	linked := make(map[string]bool, len(jns))
	for _, jn := range jns {
		n := nodes[jn.ID]
		if n.IsLeaf() && len(jn.SubtreeIDs) > 0 {
			return fmt.Errorf("unmarshalling node %v: leaf with subtrees", jn.ID)
		}
		for _, stID := range jn.SubtreeIDs {
			st, ok := nodes[stID]
			if !ok {
				return fmt.Errorf("unmarshalling node %v: unknown subtree %v", jn.ID, stID)
			}
			if stID == rootID {
				return fmt.Errorf("unmarshalling node %v: root %v referenced as subtree", jn.ID, stID)
			}
			if linked[stID] {
				return fmt.Errorf("unmarshalling node %v: subtree %v has more than one parent", jn.ID, stID)
			}
			linked[stID] = true
			n.Children = append(n.Children, st)
		}
	}
	if reached := count(nodes[rootID]); reached != len(nodes) {
		return fmt.Errorf("only %d of %d nodes are reachable from root %v", reached, len(nodes), rootID)
	}
	return nil
}

// count returns the number of nodes in the subtree of n.
func count(n *tree.Node) int {
	result := 1
	for _, c := range n.Children {
		result += count(c)
	}
	return result
}
