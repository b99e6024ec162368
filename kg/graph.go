package kg

import (
	"sort"
)

// Edge is one outgoing (predicate, target) pair of a node.
type Edge struct {
	Predicate string
	Target    string
}

// Triple is a single subject-predicate-object fact.
type Triple struct {
	Subject   string
	Predicate string
	Object    string
}

// Neighborer is the read-only view walk sampling needs.
type Neighborer interface {
	Neighbors(node string) []Edge
}

// Graph is an immutable adjacency map from subject to its outgoing edges.
// It is safe for concurrent reads once built.
type Graph struct {
	adjacency map[string][]Edge
	edges     int
}

var _ Neighborer = (*Graph)(nil)

// Neighbors returns the outgoing edges of node in input order. Nodes never
// seen as a subject have none. The returned slice must not be modified.
func (g *Graph) Neighbors(node string) []Edge {
	return g.adjacency[node]
}

// Len returns the number of subjects in the graph.
func (g *Graph) Len() int {
	return len(g.adjacency)
}

// EdgeCount returns the total number of edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Empty reports whether the graph holds no triples.
func (g *Graph) Empty() bool {
	return g.edges == 0
}

// Nodes returns every subject in sorted order.
func (g *Graph) Nodes() []string {
	nodes := make([]string, 0, len(g.adjacency))
	for node := range g.adjacency {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}

// StartNodes returns, in sorted order, the nodes with at least one outgoing
// edge. Only these are eligible as walk origins.
func (g *Graph) StartNodes() []string {
	nodes := make([]string, 0, len(g.adjacency))
	for node, edges := range g.adjacency {
		if len(edges) > 0 {
			nodes = append(nodes, node)
		}
	}
	sort.Strings(nodes)
	return nodes
}

// Builder accumulates triples into a Graph. A Builder is not safe for
// concurrent use and must not be used after Build.
type Builder struct {
	adjacency map[string][]Edge
	edges     int
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{adjacency: make(map[string][]Edge)}
}

// Add appends the triple's edge to its subject's edge list. Triples with a
// missing field are rejected with a *TripleError and leave the builder as is.
func (b *Builder) Add(t Triple) error {
	if t.Subject == "" || t.Predicate == "" || t.Object == "" {
		return &TripleError{Triple: t}
	}
	b.adjacency[t.Subject] = append(b.adjacency[t.Subject], Edge{
		Predicate: t.Predicate,
		Target:    t.Object,
	})
	b.edges++
	return nil
}

// Build hands the accumulated adjacency over to an immutable Graph.
func (b *Builder) Build() *Graph {
	g := &Graph{adjacency: b.adjacency, edges: b.edges}
	b.adjacency = nil
	return g
}

// FromTriples builds a graph from in-memory triples, returning the first
// rejected triple's error alongside the graph of the accepted ones.
func FromTriples(triples ...Triple) (*Graph, error) {
	b := NewBuilder()
	var firstErr error
	for _, t := range triples {
		if err := b.Add(t); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return b.Build(), firstErr
}
