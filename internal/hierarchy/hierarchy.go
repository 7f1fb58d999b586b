// Package hierarchy builds the class inheritance graph for a set of
// translated classes.
package hierarchy

import (
	"github.com/zboralski/lattice"

	"unshrink/internal/classinfo"
)

// Build constructs a lattice.Graph from class models. Each class becomes a
// node; each class gains one edge to its superclass and one per declared
// interface. Classes referenced but not defined in the set (library types)
// still appear as edge targets.
func Build(classes []classinfo.CommonClassInfo) *lattice.Graph {
	g := &lattice.Graph{}
	for _, c := range classes {
		g.Nodes = append(g.Nodes, c.Name())
		if c.SuperName() != "" {
			g.Edges = append(g.Edges, lattice.Edge{
				Caller: c.Name(),
				Callee: c.SuperName(),
			})
		}
		for _, itf := range c.Interfaces() {
			g.Edges = append(g.Edges, lattice.Edge{
				Caller: c.Name(),
				Callee: itf,
			})
		}
	}
	g.Dedup()
	return g
}
