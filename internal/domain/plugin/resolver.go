package plugin

import "fmt"

// Incompatibility names a version constraint violation between a plugin
// and one of its present dependencies.
type Incompatibility struct {
	// Plugin is the requiring plugin.
	Plugin string
	// Dependency is the depended-upon plugin.
	Dependency string
	// Reason names the constraint and the actual version found.
	Reason string
}

// Result aggregates every diagnostic from one resolution pass. All
// categories are populated, not just the first problem encountered, so
// batch analysis surfaces everything in one call.
type Result struct {
	// Success is true when an install order exists.
	Success bool
	// Order is the dependency-respecting install order. Only set on success.
	Order []string
	// Cycles lists each dependency cycle as an ordered list of names.
	Cycles [][]string
	// Missing lists required dependency names that are absent.
	Missing []string
	// Incompatible lists version constraint violations.
	Incompatible []Incompatibility
	// Warnings lists non-blocking findings, such as absent optional
	// dependencies.
	Warnings []string
}

// HasErrors returns true if any blocking diagnostic was found.
func (r *Result) HasErrors() bool {
	return len(r.Cycles) > 0 || len(r.Missing) > 0 || len(r.Incompatible) > 0
}

// Resolver performs full dependency resolution over a plugin collection:
// graph construction, cycle detection, missing and version checks, and
// topological ordering. Resolve is pure over its input snapshot; the only
// state a Resolver keeps is the last-built graph, for visualization.
type Resolver struct {
	lastGraph *Graph
}

// NewResolver creates a new dependency resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve analyzes the given collection and returns one aggregate result.
// It never returns an error: every failure mode is encoded in the result.
func (r *Resolver) Resolve(plugins []*Plugin) *Result {
	g := BuildGraph(plugins)
	r.lastGraph = g

	result := &Result{}

	r.warnDuplicates(plugins, g, result)

	missingSeen := make(map[string]bool)
	for _, name := range g.Names() {
		for _, e := range g.Edges[name] {
			target, present := g.Nodes[e.To]
			if !present {
				if e.Kind == KindRequired || e.Conditional {
					if !missingSeen[e.To] {
						missingSeen[e.To] = true
						result.Missing = append(result.Missing, e.To)
					}
				} else {
					result.Warnings = append(result.Warnings,
						fmt.Sprintf("%s dependency %q of %q is not present", e.Kind, e.To, e.From))
				}
				continue
			}

			if e.Constraint.IsZero() {
				continue
			}
			actual := target.Plugin.Version
			if actual == "" {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("cannot verify constraint %s on %q: %q declares no version",
						e.Constraint, e.To, e.To))
				continue
			}
			if !e.Constraint.Satisfies(actual) {
				result.Incompatible = append(result.Incompatible, Incompatibility{
					Plugin:     e.From,
					Dependency: e.To,
					Reason:     fmt.Sprintf("requires %s, found %s", e.Constraint, actual),
				})
			}
		}
	}

	result.Cycles = detectCycles(g)

	if result.HasErrors() {
		return result
	}

	order := topoSort(g)
	if len(order) < g.Size() {
		// Residual cycle the detector missed; should not occur.
		leftover := make([]string, 0, g.Size()-len(order))
		placed := make(map[string]bool, len(order))
		for _, name := range order {
			placed[name] = true
		}
		for _, name := range g.Names() {
			if !placed[name] {
				leftover = append(leftover, name)
			}
		}
		result.Cycles = append(result.Cycles, leftover)
		return result
	}

	result.Success = true
	result.Order = order
	return result
}

// Reset clears all transient state so the next Resolve starts clean.
func (r *Resolver) Reset() {
	r.lastGraph = nil
}

// warnDuplicates records a warning for every input name that appears more
// than once. The graph keeps the first occurrence.
func (r *Resolver) warnDuplicates(plugins []*Plugin, g *Graph, result *Result) {
	if len(plugins) == len(g.Nodes) {
		return
	}
	counts := make(map[string]int, len(plugins))
	for _, p := range plugins {
		if p == nil || p.Name == "" {
			continue
		}
		counts[p.Name]++
	}
	for _, name := range g.Names() {
		if counts[name] > 1 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("plugin %q appears %d times in the collection; using the first occurrence", name, counts[name]))
		}
	}
}
