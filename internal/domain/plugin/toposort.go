package plugin

// topoSort computes an install order for the graph using Kahn's algorithm.
// In-degree counts only required edges whose target is present; optional
// and peer edges never constrain the order. Ties are broken by the input
// collection's insertion order so results are deterministic. The returned
// sequence is shorter than the node count when a residual cycle exists.
func topoSort(g *Graph) []string {
	index := make(map[string]int, len(g.order))
	for i, name := range g.order {
		index[name] = i
	}

	indegree := make(map[string]int, len(g.Nodes))
	requiredDependents := make(map[string][]string, len(g.Nodes))
	for _, name := range g.order {
		indegree[name] = 0
	}
	for _, name := range g.order {
		for _, e := range g.Edges[name] {
			if e.Kind != KindRequired {
				continue
			}
			if _, present := g.Nodes[e.To]; !present {
				continue
			}
			indegree[name]++
			requiredDependents[e.To] = append(requiredDependents[e.To], name)
		}
	}

	ready := make([]string, 0, len(g.Nodes))
	for _, name := range g.order {
		if indegree[name] == 0 {
			ready = append(ready, name)
		}
	}

	order := make([]string, 0, len(g.Nodes))
	for len(ready) > 0 {
		// Dequeue the earliest-inserted ready node.
		best := 0
		for i := 1; i < len(ready); i++ {
			if index[ready[i]] < index[ready[best]] {
				best = i
			}
		}
		name := ready[best]
		ready = append(ready[:best], ready[best+1:]...)
		order = append(order, name)

		for _, dependent := range requiredDependents[name] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	return order
}
