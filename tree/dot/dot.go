/*
Package dot renders trees as graphviz graphs, as DOT source or as SVG, PNG
or JPG images.
*/
package dot

import (
	"fmt"
	"io"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/uab-projects/decision-trees/tree"
)

// Formats maps the names accepted by Render to graphviz output formats.
var Formats = map[string]graphviz.Format{
	"dot": graphviz.XDOT,
	"svg": graphviz.SVG,
	"png": graphviz.PNG,
	"jpg": graphviz.JPG,
}

/*
Render takes a tree, the name of an output format in Formats and an
io.Writer and writes the tree rendered in that format onto the writer.
Nodes are numbered first if they have no ID. Labels use the meanings and
conditions set by tree.Translate when available.
*/
func Render(t *tree.Tree, format string, w io.Writer) error {
	f, ok := Formats[format]
	if !ok {
		return fmt.Errorf("unknown graph format %q", format)
	}
	if t.Root == nil {
		return fmt.Errorf("cannot render a tree without root")
	}
	if t.Root.ID == "" {
		t.Number()
	}
	gv := graphviz.New()
	defer gv.Close()
	graph, err := gv.Graph()
	if err != nil {
		return err
	}
	defer graph.Close()
	if err = draw(graph, t.Root, nil); err != nil {
		return err
	}
	return gv.Render(graph, f, w)
}

func draw(g *cgraph.Graph, n *tree.Node, parent *cgraph.Node) error {
	current, err := g.CreateNode(n.ID)
	if err != nil {
		return err
	}
	if parent != nil {
		e, err := g.CreateEdge("", parent, current)
		if err != nil {
			return err
		}
		e.SetLabel(condition(n))
	}
	current.Set("label", label(n))
	if n.IsLeaf() {
		current.Set("shape", "box")
		return nil
	}
	for _, c := range n.Children {
		if err = draw(g, c, current); err != nil {
			return err
		}
	}
	return nil
}

func label(n *tree.Node) string {
	switch {
	case n.Meaning != "":
		return fmt.Sprintf("%s\n(%d)", n.Meaning, n.Samples)
	case n.IsLeaf():
		return fmt.Sprintf("%g\n(%d)", n.Class, n.Samples)
	case n.Continuous:
		return fmt.Sprintf("f%d < %g\n(%d)", n.Feature, n.Threshold, n.Samples)
	}
	return fmt.Sprintf("f%d\n(%d)", n.Feature, n.Samples)
}

func condition(n *tree.Node) string {
	if n.Condition != "" {
		return n.Condition
	}
	return fmt.Sprintf("%g", n.Discriminant)
}
