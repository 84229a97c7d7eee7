package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ridTable(name string, kind TableKind) *Table {
	table := NewTable(name, kind)
	table.AddColumn(&Column{Name: "rid", Type: TypeSpec{BaseType: TypeInteger}, PrimaryKey: true})
	return table
}

func TestRegistry(t *testing.T) {
	t.Run("register and get", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(ridTable("module", KindEntity)))

		table, ok := r.Get("module")
		require.True(t, ok)
		assert.Equal(t, "module", table.Name)
		assert.Equal(t, 1, r.Count())
	})

	t.Run("duplicate registration", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(ridTable("module", KindEntity)))
		assert.Error(t, r.Register(ridTable("module", KindEntity)))
	})

	t.Run("registration order", func(t *testing.T) {
		r := NewRegistry()
		for _, name := range []string{"project", "module", "header"} {
			require.NoError(t, r.Register(ridTable(name, KindEntity)))
		}
		assert.Equal(t, []string{"project", "module", "header"}, r.List())
		assert.Len(t, r.Tables(), 3)
	})
}

func TestRegistry_DependencyOrder(t *testing.T) {
	r := NewRegistry()

	owner := ridTable("function", KindEntity)
	list := ridTable("def_characteristic", KindEntity)
	list.AddColumn(&Column{Name: "_function_rid", Type: TypeSpec{BaseType: TypeInteger}, Nullable: true})
	list.AddForeignKey(&ForeignKey{Column: "_function_rid", RefTable: "function", RefColumn: "rid", OnDelete: ActionCascade})
	values := ridTable("def_characteristic_identifiers", KindValueList)
	values.AddColumn(&Column{Name: "owner_rid", Type: TypeSpec{BaseType: TypeInteger}})
	values.AddForeignKey(&ForeignKey{Column: "owner_rid", RefTable: "def_characteristic", RefColumn: "rid", OnDelete: ActionCascade})

	require.NoError(t, r.Register(values))
	require.NoError(t, r.Register(list))
	require.NoError(t, r.Register(owner))
	require.NoError(t, r.Validate())

	order, err := r.DependencyOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"function", "def_characteristic", "def_characteristic_identifiers"}, order)
}

func TestRegistry_Validate(t *testing.T) {
	t.Run("unknown table", func(t *testing.T) {
		r := NewRegistry()
		table := ridTable("measurement", KindEntity)
		table.AddColumn(&Column{Name: "_module_rid", Type: TypeSpec{BaseType: TypeInteger}, Nullable: true})
		table.AddForeignKey(&ForeignKey{Column: "_module_rid", RefTable: "module", RefColumn: "rid"})
		require.NoError(t, r.Register(table))

		assert.ErrorContains(t, r.Validate(), "unknown table module")
	})

	t.Run("cycle", func(t *testing.T) {
		r := NewRegistry()
		a := ridTable("a", KindEntity)
		a.AddColumn(&Column{Name: "b_rid", Type: TypeSpec{BaseType: TypeInteger}, Nullable: true})
		a.AddForeignKey(&ForeignKey{Column: "b_rid", RefTable: "b", RefColumn: "rid"})
		b := ridTable("b", KindEntity)
		b.AddColumn(&Column{Name: "a_rid", Type: TypeSpec{BaseType: TypeInteger}, Nullable: true})
		b.AddForeignKey(&ForeignKey{Column: "a_rid", RefTable: "a", RefColumn: "rid"})
		require.NoError(t, r.Register(a))
		require.NoError(t, r.Register(b))

		assert.ErrorIs(t, r.Validate(), ErrCircularDependency)
	})
}
