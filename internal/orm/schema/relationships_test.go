package schema

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_TopologicalSort(t *testing.T) {
	t.Run("dependency chain", func(t *testing.T) {
		g := NewGraph()
		g.AddEdge("measurement", "module")
		g.AddEdge("module", "project")

		order, err := g.TopologicalSort()
		require.NoError(t, err)
		assert.Equal(t, []string{"project", "module", "measurement"}, order)
	})

	t.Run("ties broken by name", func(t *testing.T) {
		g := NewGraph()
		g.AddNode("zeta")
		g.AddNode("alpha")
		g.AddEdge("beta", "alpha")
		g.AddEdge("gamma", "alpha")

		order, err := g.TopologicalSort()
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "beta", "gamma", "zeta"}, order)
	})

	t.Run("cycle", func(t *testing.T) {
		g := NewGraph()
		g.AddEdge("a", "b")
		g.AddEdge("b", "c")
		g.AddEdge("c", "a")

		_, err := g.TopologicalSort()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrCircularDependency))
		assert.Contains(t, err.Error(), "a -> b -> c -> a")
	})
}

func TestGraph_DetectCycles(t *testing.T) {
	g := NewGraph()
	g.AddEdge("root", "root")
	g.AddEdge("leaf", "root")

	cycles := g.DetectCycles()
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"root"}, cycles[0])

	formatted := FormatCycles(cycles)
	assert.True(t, strings.HasPrefix(formatted, "  Cycle 1: root -> root"))
}

func TestGraph_Neighbours(t *testing.T) {
	g := NewGraph()
	g.AddEdge("b", "a")
	g.AddEdge("c", "a")
	g.AddEdge("c", "a")
	g.AddEdge("c", "b")

	assert.Equal(t, []string{"a", "b"}, g.Dependencies("c"))
	assert.Equal(t, []string{"b", "c"}, g.Dependents("a"))
	assert.Empty(t, g.Dependencies("a"))
	assert.Equal(t, []string{"a", "b", "c"}, g.Nodes())
}
