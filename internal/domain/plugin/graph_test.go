package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poly1603/ldesign-engine-sub006/internal/domain/version"
)

func TestBuildGraph(t *testing.T) {
	t.Run("nodes edges and roots", func(t *testing.T) {
		g := BuildGraph([]*Plugin{
			{Name: "core", Version: "1.0.0"},
			{Name: "router", Dependencies: []DependencySpec{
				{Name: "core", Kind: KindRequired, Constraint: version.Constraint{Min: "1.0.0"}},
			}},
			{Name: "app", Dependencies: []DependencySpec{
				{Name: "router"},
				{Name: "theme", Kind: KindOptional},
			}},
		})

		assert.Equal(t, 3, g.Size())
		assert.Equal(t, 3, g.EdgeCount())
		assert.Equal(t, []string{"core", "router", "app"}, g.Names())
		assert.Equal(t, []string{"core"}, g.Roots)

		require.Len(t, g.Edges["router"], 1)
		edge := g.Edges["router"][0]
		assert.Equal(t, "router", edge.From)
		assert.Equal(t, "core", edge.To)
		assert.Equal(t, KindRequired, edge.Kind)
		assert.Equal(t, ">=1.0.0", edge.Constraint.String())

		assert.Equal(t, []string{"router"}, g.Dependents["core"])
		assert.Equal(t, []string{"app"}, g.Dependents["router"])
	})

	t.Run("skips nil entries and duplicates", func(t *testing.T) {
		g := BuildGraph([]*Plugin{
			nil,
			{Name: "core", Version: "1.0.0"},
			{Name: "core", Version: "2.0.0"},
		})

		require.Equal(t, 1, g.Size())
		assert.Equal(t, "1.0.0", g.Nodes["core"].Plugin.Version)
	})

	t.Run("false optional condition removes the edge", func(t *testing.T) {
		g := BuildGraph([]*Plugin{
			{Name: "app", Dependencies: []DependencySpec{
				{Name: "theme", Kind: KindOptional, Condition: func() bool { return false }},
			}},
		})

		assert.Empty(t, g.Edges["app"])
		assert.Equal(t, []string{"app"}, g.Roots)
	})

	t.Run("true optional condition keeps a conditional edge", func(t *testing.T) {
		g := BuildGraph([]*Plugin{
			{Name: "theme"},
			{Name: "app", Dependencies: []DependencySpec{
				{Name: "theme", Kind: KindOptional, Condition: func() bool { return true }},
			}},
		})

		require.Len(t, g.Edges["app"], 1)
		assert.True(t, g.Edges["app"][0].Conditional)
	})

	t.Run("condition on required edge is ignored", func(t *testing.T) {
		g := BuildGraph([]*Plugin{
			{Name: "core"},
			{Name: "app", Dependencies: []DependencySpec{
				{Name: "core", Kind: KindRequired, Condition: func() bool { return false }},
			}},
		})

		require.Len(t, g.Edges["app"], 1)
		assert.False(t, g.Edges["app"][0].Conditional)
	})
}

func TestGraph_Depths(t *testing.T) {
	t.Run("longest chain wins", func(t *testing.T) {
		g := BuildGraph([]*Plugin{
			{Name: "core"},
			{Name: "router", Dependencies: []DependencySpec{{Name: "core"}}},
			{Name: "app", Dependencies: []DependencySpec{
				{Name: "core"},
				{Name: "router"},
			}},
		})

		assert.Equal(t, 0, g.Nodes["core"].Depth)
		assert.Equal(t, 1, g.Nodes["router"].Depth)
		assert.Equal(t, 2, g.Nodes["app"].Depth)
	})

	t.Run("absent targets do not contribute", func(t *testing.T) {
		g := BuildGraph([]*Plugin{
			{Name: "app", Dependencies: []DependencySpec{{Name: "ghost"}}},
		})
		assert.Equal(t, 0, g.Nodes["app"].Depth)
	})

	t.Run("cycles terminate", func(t *testing.T) {
		g := BuildGraph([]*Plugin{
			{Name: "a", Dependencies: []DependencySpec{{Name: "b"}}},
			{Name: "b", Dependencies: []DependencySpec{{Name: "a"}}},
		})
		// Depth must be computed without recursing forever.
		assert.GreaterOrEqual(t, g.Nodes["a"].Depth, 0)
		assert.GreaterOrEqual(t, g.Nodes["b"].Depth, 0)
	})
}

func TestDetectCycles(t *testing.T) {
	t.Run("acyclic graph has no cycles", func(t *testing.T) {
		g := BuildGraph([]*Plugin{
			{Name: "core"},
			{Name: "app", Dependencies: []DependencySpec{{Name: "core"}}},
		})
		assert.Empty(t, detectCycles(g))
	})

	t.Run("two node cycle", func(t *testing.T) {
		g := BuildGraph([]*Plugin{
			{Name: "a", Dependencies: []DependencySpec{{Name: "b"}}},
			{Name: "b", Dependencies: []DependencySpec{{Name: "a"}}},
		})

		cycles := detectCycles(g)
		require.Len(t, cycles, 1)
		assert.ElementsMatch(t, []string{"a", "b"}, cycles[0])
	})

	t.Run("self cycle", func(t *testing.T) {
		// Validate rejects self dependencies, but the detector still has
		// to handle graphs built from unvalidated input.
		g := BuildGraph([]*Plugin{
			{Name: "a", Dependencies: []DependencySpec{{Name: "a"}}},
		})

		cycles := detectCycles(g)
		require.Len(t, cycles, 1)
		assert.Equal(t, []string{"a"}, cycles[0])
	})

	t.Run("multiple independent cycles reported in one pass", func(t *testing.T) {
		g := BuildGraph([]*Plugin{
			{Name: "a", Dependencies: []DependencySpec{{Name: "b"}}},
			{Name: "b", Dependencies: []DependencySpec{{Name: "a"}}},
			{Name: "x", Dependencies: []DependencySpec{{Name: "y"}}},
			{Name: "y", Dependencies: []DependencySpec{{Name: "x"}}},
		})

		cycles := detectCycles(g)
		require.Len(t, cycles, 2)
		assert.ElementsMatch(t, []string{"a", "b"}, cycles[0])
		assert.ElementsMatch(t, []string{"x", "y"}, cycles[1])
	})

	t.Run("same cycle reached from two entry points reported once", func(t *testing.T) {
		g := BuildGraph([]*Plugin{
			{Name: "left", Dependencies: []DependencySpec{{Name: "a"}}},
			{Name: "right", Dependencies: []DependencySpec{{Name: "b"}}},
			{Name: "a", Dependencies: []DependencySpec{{Name: "b"}}},
			{Name: "b", Dependencies: []DependencySpec{{Name: "a"}}},
		})

		cycles := detectCycles(g)
		require.Len(t, cycles, 1)
		assert.ElementsMatch(t, []string{"a", "b"}, cycles[0])
	})

	t.Run("edges to absent plugins are ignored", func(t *testing.T) {
		g := BuildGraph([]*Plugin{
			{Name: "a", Dependencies: []DependencySpec{{Name: "ghost"}}},
		})
		assert.Empty(t, detectCycles(g))
	})
}

func TestTopoSort(t *testing.T) {
	t.Run("dependencies come first", func(t *testing.T) {
		g := BuildGraph([]*Plugin{
			{Name: "app", Dependencies: []DependencySpec{{Name: "router"}}},
			{Name: "router", Dependencies: []DependencySpec{{Name: "core"}}},
			{Name: "core"},
		})

		assert.Equal(t, []string{"core", "router", "app"}, topoSort(g))
	})

	t.Run("independent plugins keep insertion order", func(t *testing.T) {
		g := BuildGraph([]*Plugin{
			{Name: "charlie"},
			{Name: "alpha"},
			{Name: "bravo"},
		})

		assert.Equal(t, []string{"charlie", "alpha", "bravo"}, topoSort(g))
	})

	t.Run("optional and peer edges never constrain the order", func(t *testing.T) {
		g := BuildGraph([]*Plugin{
			{Name: "app", Dependencies: []DependencySpec{
				{Name: "theme", Kind: KindOptional},
				{Name: "icons", Kind: KindPeer},
			}},
			{Name: "theme"},
			{Name: "icons"},
		})

		assert.Equal(t, []string{"app", "theme", "icons"}, topoSort(g))
	})

	t.Run("mixed optional and required edges to the same target", func(t *testing.T) {
		g := BuildGraph([]*Plugin{
			{Name: "app", Dependencies: []DependencySpec{
				{Name: "core", Kind: KindOptional},
				{Name: "core", Kind: KindRequired},
			}},
			{Name: "core"},
		})

		assert.Equal(t, []string{"core", "app"}, topoSort(g))
	})

	t.Run("cycle yields a short order", func(t *testing.T) {
		g := BuildGraph([]*Plugin{
			{Name: "a", Dependencies: []DependencySpec{{Name: "b"}}},
			{Name: "b", Dependencies: []DependencySpec{{Name: "a"}}},
			{Name: "free"},
		})

		assert.Equal(t, []string{"free"}, topoSort(g))
	})
}
