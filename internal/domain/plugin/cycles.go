package plugin

import (
	"sort"
	"strings"
)

// detectCycles runs a three-coloring DFS over the graph and returns every
// distinct cycle as an ordered list of plugin names. Detection continues
// across all remaining unvisited nodes, so multiple independent cycles are
// reported in one pass. Edges to absent plugins are ignored.
func detectCycles(g *Graph) [][]string {
	g.resetMarks()

	var cycles [][]string
	seen := make(map[string]bool)
	var path []string

	var visit func(name string)
	visit = func(name string) {
		node := g.Nodes[name]
		node.mark = colorVisiting
		path = append(path, name)

		for _, e := range g.Edges[name] {
			target, present := g.Nodes[e.To]
			if !present {
				continue
			}
			switch target.mark {
			case colorVisiting:
				// Reached a node on the active recursion path: the path
				// slice from its first occurrence is one cycle.
				for i, n := range path {
					if n == e.To {
						cycle := make([]string, len(path)-i)
						copy(cycle, path[i:])
						if key := cycleKey(cycle); !seen[key] {
							seen[key] = true
							cycles = append(cycles, cycle)
						}
						break
					}
				}
			case colorUnvisited:
				visit(e.To)
			}
		}

		path = path[:len(path)-1]
		node.mark = colorVisited
	}

	for _, name := range g.order {
		if g.Nodes[name].mark == colorUnvisited {
			visit(name)
		}
	}

	return cycles
}

// cycleKey canonicalizes a cycle's membership so the same cycle reached
// through different entry points is reported once.
func cycleKey(cycle []string) string {
	names := make([]string, len(cycle))
	copy(names, cycle)
	sort.Strings(names)
	return strings.Join(names, "\x00")
}
