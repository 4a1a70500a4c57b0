package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// VisualizationFormat selects an export format for the dependency graph.
type VisualizationFormat string

const (
	// FormatTree is an indented text listing.
	FormatTree VisualizationFormat = "tree"
	// FormatDOT is Graphviz DOT.
	FormatDOT VisualizationFormat = "dot"
	// FormatMermaid is a Mermaid flowchart.
	FormatMermaid VisualizationFormat = "mermaid"
	// FormatJSON is a machine-readable node/edge dump.
	FormatJSON VisualizationFormat = "json"
)

// ErrNoGraph indicates Visualization was called before any Resolve.
var ErrNoGraph = errors.New("no dependency graph available: call Resolve first")

// Visualization exports the last-built graph in the requested format.
// This is a diagnostic convenience; no invariant depends on it.
func (r *Resolver) Visualization(format VisualizationFormat) (string, error) {
	if r.lastGraph == nil {
		return "", ErrNoGraph
	}
	switch format {
	case FormatTree:
		return renderTree(r.lastGraph), nil
	case FormatDOT:
		return renderDOT(r.lastGraph), nil
	case FormatMermaid:
		return renderMermaid(r.lastGraph), nil
	case FormatJSON:
		return renderJSON(r.lastGraph)
	default:
		return "", fmt.Errorf("unknown visualization format %q", format)
	}
}

func renderTree(g *Graph) string {
	var b strings.Builder
	for _, name := range g.Names() {
		node := g.Nodes[name]
		b.WriteString(node.Plugin.String())
		fmt.Fprintf(&b, " (depth %d)\n", node.Depth)

		edges := g.Edges[name]
		for i, e := range edges {
			branch := "├─"
			if i == len(edges)-1 {
				branch = "└─"
			}
			line := fmt.Sprintf("  %s %s %s", branch, e.Kind, e.To)
			if !e.Constraint.IsZero() {
				line += " " + e.Constraint.String()
			}
			if _, present := g.Nodes[e.To]; !present {
				line += " (absent)"
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

func renderDOT(g *Graph) string {
	var b strings.Builder
	b.WriteString("digraph dependencies {\n")
	for _, name := range g.Names() {
		fmt.Fprintf(&b, "  %q;\n", name)
	}
	for _, name := range g.Names() {
		for _, e := range g.Edges[name] {
			attr := ""
			switch e.Kind {
			case KindOptional:
				attr = " [style=dashed]"
			case KindPeer:
				attr = " [style=dotted]"
			}
			fmt.Fprintf(&b, "  %q -> %q%s;\n", e.From, e.To, attr)
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func renderMermaid(g *Graph) string {
	var b strings.Builder
	b.WriteString("graph TD\n")
	for _, name := range g.Names() {
		node := g.Nodes[name]
		fmt.Fprintf(&b, "  %s[%s]\n", name, node.Plugin.String())
	}
	for _, name := range g.Names() {
		for _, e := range g.Edges[name] {
			arrow := "-->"
			if e.Kind != KindRequired {
				arrow = "-.->"
			}
			fmt.Fprintf(&b, "  %s %s %s\n", e.From, arrow, e.To)
		}
	}
	return b.String()
}

type graphDump struct {
	Nodes []nodeDump `json:"nodes"`
	Edges []edgeDump `json:"edges"`
	Roots []string   `json:"roots,omitempty"`
}

type nodeDump struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Depth   int    `json:"depth"`
}

type edgeDump struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Kind       string `json:"kind"`
	Constraint string `json:"constraint,omitempty"`
}

func renderJSON(g *Graph) (string, error) {
	dump := graphDump{Roots: g.Roots}
	for _, name := range g.Names() {
		node := g.Nodes[name]
		dump.Nodes = append(dump.Nodes, nodeDump{
			Name:    name,
			Version: node.Plugin.Version,
			Depth:   node.Depth,
		})
		for _, e := range g.Edges[name] {
			ed := edgeDump{From: e.From, To: e.To, Kind: string(e.Kind)}
			if !e.Constraint.IsZero() {
				ed.Constraint = e.Constraint.String()
			}
			dump.Edges = append(dump.Edges, ed)
		}
	}

	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding graph: %w", err)
	}
	return string(data), nil
}
