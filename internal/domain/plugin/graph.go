package plugin

import (
	"github.com/poly1603/ldesign-engine-sub006/internal/domain/version"
)

// color is the transient DFS marker on a graph node.
type color int

const (
	colorUnvisited color = iota
	colorVisiting
	colorVisited
)

// Node wraps a plugin inside a dependency graph.
type Node struct {
	// Plugin is the wrapped plugin.
	Plugin *Plugin
	// Depth is the longest dependency chain from a root to this node.
	Depth int

	mark color
}

// Edge is a single dependency relationship that participates in the graph.
type Edge struct {
	// From is the depending plugin.
	From string
	// To is the depended-upon plugin.
	To string
	// Kind is the dependency kind.
	Kind DependencyKind
	// Constraint bounds acceptable versions of the target.
	Constraint version.Constraint
	// Conditional marks an optional edge whose condition evaluated true.
	Conditional bool
}

// Graph is the dependency graph over a plugin collection, derived for
// diagnostics. Nodes are keyed by plugin name; edges point from a plugin
// to the plugins it depends on.
type Graph struct {
	// Nodes maps plugin name to its node.
	Nodes map[string]*Node
	// Edges maps plugin name to its outgoing dependency edges, in
	// declaration order.
	Edges map[string][]Edge
	// Dependents maps plugin name to the names depending on it (any kind),
	// in insertion order of the dependent.
	Dependents map[string][]string
	// Roots are plugin names with no outgoing edges.
	Roots []string

	// order is the insertion order of the input collection, used for
	// deterministic traversal and sort tie-breaking.
	order []string
}

// BuildGraph turns a plugin collection into a dependency graph. Optional
// dependency conditions are evaluated eagerly here, so later stages stay
// deterministic for a given graph. Duplicate names keep the first
// occurrence; nil entries are skipped.
func BuildGraph(plugins []*Plugin) *Graph {
	g := &Graph{
		Nodes:      make(map[string]*Node, len(plugins)),
		Edges:      make(map[string][]Edge, len(plugins)),
		Dependents: make(map[string][]string),
	}

	for _, p := range plugins {
		if p == nil || p.Name == "" {
			continue
		}
		if _, exists := g.Nodes[p.Name]; exists {
			continue
		}
		g.Nodes[p.Name] = &Node{Plugin: p}
		g.order = append(g.order, p.Name)
	}

	for _, name := range g.order {
		p := g.Nodes[name].Plugin
		for _, d := range p.Dependencies {
			kind := d.EffectiveKind()
			conditional := false
			// Conditions only gate optional edges; a false condition
			// removes the edge entirely.
			if kind == KindOptional && d.Condition != nil {
				if !d.Condition() {
					continue
				}
				conditional = true
			}
			edge := Edge{
				From:        name,
				To:          d.Name,
				Kind:        kind,
				Constraint:  d.Constraint,
				Conditional: conditional,
			}
			g.Edges[name] = append(g.Edges[name], edge)
			g.Dependents[d.Name] = append(g.Dependents[d.Name], name)
		}
		if len(g.Edges[name]) == 0 {
			g.Roots = append(g.Roots, name)
		}
	}

	g.computeDepths()
	return g
}

// Names returns the node names in insertion order.
func (g *Graph) Names() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Size returns the number of nodes.
func (g *Graph) Size() int {
	return len(g.Nodes)
}

// EdgeCount returns the total number of participating edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, edges := range g.Edges {
		n += len(edges)
	}
	return n
}

// computeDepths assigns every node the length of the longest dependency
// chain below it. Roots sit at depth zero; nodes on a cycle keep the
// depth accumulated before the cycle closes.
func (g *Graph) computeDepths() {
	depths := make(map[string]int, len(g.Nodes))
	visiting := make(map[string]bool, len(g.Nodes))

	var depth func(name string) int
	depth = func(name string) int {
		if d, ok := depths[name]; ok {
			return d
		}
		if visiting[name] {
			return 0
		}
		visiting[name] = true
		defer delete(visiting, name)

		max := 0
		for _, e := range g.Edges[name] {
			if _, present := g.Nodes[e.To]; !present {
				continue
			}
			if d := depth(e.To) + 1; d > max {
				max = d
			}
		}
		depths[name] = max
		return max
	}

	for _, name := range g.order {
		g.Nodes[name].Depth = depth(name)
	}
}

// resetMarks clears the transient DFS markers on all nodes.
func (g *Graph) resetMarks() {
	for _, n := range g.Nodes {
		n.mark = colorUnvisited
	}
}
