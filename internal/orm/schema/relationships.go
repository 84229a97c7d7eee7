package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrCircularDependency is returned when a dependency graph contains a cycle
var ErrCircularDependency = errors.New("circular dependency detected")

// Graph is a directed dependency graph over named nodes. An edge from a to b
// means a depends on b.
type Graph struct {
	nodes map[string]bool
	edges map[string][]string
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]bool),
		edges: make(map[string][]string),
	}
}

// AddNode adds a node without edges
func (g *Graph) AddNode(name string) {
	g.nodes[name] = true
}

// AddEdge records that from depends on to. Both nodes are added.
func (g *Graph) AddEdge(from, to string) {
	g.nodes[from] = true
	g.nodes[to] = true
	for _, existing := range g.edges[from] {
		if existing == to {
			return
		}
	}
	g.edges[from] = append(g.edges[from], to)
}

// Nodes returns all nodes sorted by name
func (g *Graph) Nodes() []string {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DetectCycles detects circular dependencies. Nodes are visited in name
// order so the reported cycles are stable.
func (g *Graph) DetectCycles() [][]string {
	var cycles [][]string
	visited := make(map[string]bool)
	recursionStack := make(map[string]bool)

	var dfs func(node string, path []string) bool
	dfs = func(node string, path []string) bool {
		visited[node] = true
		recursionStack[node] = true
		path = append(path, node)

		for _, neighbor := range g.edges[node] {
			if !visited[neighbor] {
				if dfs(neighbor, path) {
					return true
				}
			} else if recursionStack[neighbor] {
				cycleStart := -1
				for i, n := range path {
					if n == neighbor {
						cycleStart = i
						break
					}
				}
				if cycleStart >= 0 {
					cycle := make([]string, len(path)-cycleStart)
					copy(cycle, path[cycleStart:])
					cycles = append(cycles, cycle)
				}
				return true
			}
		}

		recursionStack[node] = false
		return false
	}

	for _, node := range g.Nodes() {
		if !visited[node] {
			dfs(node, []string{})
		}
	}

	return cycles
}

// TopologicalSort returns nodes in dependency order (dependencies first).
// Among nodes that are ready at the same time the smallest name wins.
func (g *Graph) TopologicalSort() ([]string, error) {
	outDegree := make(map[string]int, len(g.nodes))
	reverseEdges := make(map[string][]string)
	for node := range g.nodes {
		outDegree[node] = len(g.edges[node])
		for _, target := range g.edges[node] {
			reverseEdges[target] = append(reverseEdges[target], node)
		}
	}

	var ready []string
	for node, degree := range outDegree {
		if degree == 0 {
			ready = append(ready, node)
		}
	}
	sort.Strings(ready)

	result := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		node := ready[0]
		ready = ready[1:]
		result = append(result, node)

		released := false
		for _, dependent := range reverseEdges[node] {
			outDegree[dependent]--
			if outDegree[dependent] == 0 {
				ready = append(ready, dependent)
				released = true
			}
		}
		if released {
			sort.Strings(ready)
		}
	}

	if len(result) != len(g.nodes) {
		if cycles := g.DetectCycles(); len(cycles) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrCircularDependency, FormatCycles(cycles))
		}
		return nil, ErrCircularDependency
	}

	return result, nil
}

// Dependencies returns the direct dependencies of a node
func (g *Graph) Dependencies(node string) []string {
	return append([]string(nil), g.edges[node]...)
}

// Dependents returns the nodes that depend directly on the given node, sorted
func (g *Graph) Dependents(node string) []string {
	var dependents []string
	for from, deps := range g.edges {
		for _, dep := range deps {
			if dep == node {
				dependents = append(dependents, from)
				break
			}
		}
	}
	sort.Strings(dependents)
	return dependents
}

// FormatCycles formats cycle information for error messages
func FormatCycles(cycles [][]string) string {
	var b strings.Builder
	for i, cycle := range cycles {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("  Cycle %d: %s -> %s",
			i+1,
			strings.Join(cycle, " -> "),
			cycle[0]))
	}
	return b.String()
}
