// Package dot renders the layer topology of a network as a graphviz graph.
package dot

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"

	"github.com/gorgonia/cadence"
	"github.com/gorgonia/cadence/layers"
)

// Marshal returns the network's topology in dot notation: one node per
// layer, chained in pipeline order. Multi-task heads fan out from the layer
// that owns them.
func Marshal(n *cadence.Network) (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName("N"); err != nil {
		return "", errors.WithStack(err)
	}
	if err := g.SetDir(true); err != nil {
		return "", errors.WithStack(err)
	}

	if err := g.AddNode("N", "input", map[string]string{"label": `"input"`, "shape": "plaintext"}); err != nil {
		return "", errors.WithStack(err)
	}
	prev := "input"
	for i, l := range n.Layers() {
		name := fmt.Sprintf("l%d", i)
		if err := addLayer(g, prev, name, l); err != nil {
			return "", err
		}
		prev = name
	}
	return g.String(), nil
}

func addLayer(g *gographviz.Graph, prev, name string, l cadence.Layer) error {
	if err := g.AddNode("N", name, map[string]string{"label": label(l), "shape": "box"}); err != nil {
		return errors.WithStack(err)
	}
	if err := g.AddEdge(prev, name, true, nil); err != nil {
		return errors.WithStack(err)
	}

	// draw the heads of a multi-task layer as a fan-out
	if mt, ok := l.(*layers.MultiTask); ok {
		for i, h := range mt.Heads {
			hname := fmt.Sprintf("%sh%d", name, i)
			if err := g.AddNode("N", hname, map[string]string{"label": label(h), "shape": "box"}); err != nil {
				return errors.WithStack(err)
			}
			if err := g.AddEdge(name, hname, true, nil); err != nil {
				return errors.WithStack(err)
			}
		}
	}
	return nil
}

func label(l interface{}) string {
	if s, ok := l.(fmt.Stringer); ok {
		return fmt.Sprintf("%q", s.String())
	}
	return fmt.Sprintf("%q", fmt.Sprintf("%T", l))
}
