package synth

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a2ldb/a2ldb/internal/a2l/catalog"
	"github.com/a2ldb/a2ldb/internal/a2l/resolver"
	"github.com/a2ldb/a2ldb/internal/orm/codegen"
	"github.com/a2ldb/a2ldb/internal/orm/schema"
)

func table(t *testing.T, s *Schema, name string) *schema.Table {
	t.Helper()
	tbl, ok := s.Tables.Get(name)
	require.True(t, ok, "table %s not found", name)
	return tbl
}

func TestDefault_EntityTable(t *testing.T) {
	s := Default()
	require.Same(t, s, Default())

	measurement := table(t, s, "measurement")
	assert.Equal(t, schema.KindEntity, measurement.Kind)
	assert.Equal(t, "MEASUREMENT", measurement.Tag)

	names := measurement.ColumnNames()
	assert.Equal(t, []string{"rid", "name", "longIdentifier", "datatype", "conversion", "resolution", "accuracy", "lowerLimit", "upperLimit"}, names[:9])
	for _, col := range []string{"read_write", "read_only", "discrete", "_module_rid"} {
		assert.Contains(t, names, col)
	}
	assert.NotContains(t, names, "annotation_rid")
	assert.NotContains(t, names, "format_rid")

	readOnly, _ := measurement.Column("read_only")
	assert.Equal(t, schema.TypeBoolean, readOnly.Type.BaseType)
	assert.False(t, readOnly.Nullable)
	assert.Equal(t, "false", readOnly.Default)

	name, _ := measurement.Column("name")
	assert.Equal(t, IdentLength, name.Type.Length)
	assert.False(t, name.Nullable)

	parent, ok := measurement.ForeignKey("_module_rid")
	require.True(t, ok)
	assert.Equal(t, "module", parent.RefTable)
	assert.Equal(t, schema.ActionCascade, parent.OnDelete)

	format := table(t, s, "format")
	owner, ok := format.ForeignKey("_measurement_rid")
	require.True(t, ok)
	assert.Equal(t, "measurement", owner.RefTable)
	assert.Equal(t, schema.ActionCascade, owner.OnDelete)
	assert.Contains(t, format.Uniques, []string{"_measurement_rid"})
	require.Len(t, format.Checks, 1)
	assert.Equal(t, schema.CheckExactlyOne, format.Checks[0].Kind)
	assert.Contains(t, format.Checks[0].Columns, "_measurement_rid")
}

func TestDefault_Layouts(t *testing.T) {
	s := Default()

	layout, err := s.Layout("MEASUREMENT")
	require.NoError(t, err)
	assert.Equal(t, "measurement", layout.Table)
	assert.Equal(t, "read_only", layout.Flags["READ_ONLY"])
	assert.Equal(t, "read_write", layout.Flags["READ_WRITE"])
	assert.Equal(t, map[string]string{"MODULE": "_module_rid"}, layout.Parents)
	assert.Nil(t, layout.Association)

	format, err := s.Layout("FORMAT")
	require.NoError(t, err)
	assert.Equal(t, resolver.PolymorphicEntity, format.Class)
	assert.Equal(t, "_measurement_rid", format.Parents["MEASUREMENT"])
	assert.Nil(t, format.Association)

	flag, err := s.Layout("READ_ONLY")
	require.NoError(t, err)
	assert.True(t, flag.IsFlag())
	assert.Empty(t, flag.Table)

	_, err = s.Layout("NOPE")
	assert.ErrorIs(t, err, catalog.ErrUnknownKeyword)
}

func TestDefault_Association(t *testing.T) {
	s := Default()

	layout, err := s.Layout("ANNOTATION")
	require.NoError(t, err)
	require.NotNil(t, layout.Association)
	assert.Equal(t, "annotation_association", layout.Association.Table)
	assert.Equal(t, "_characteristic_rid", layout.Association.Parents["CHARACTERISTIC"])
	assert.Empty(t, layout.Parents)

	assoc := table(t, s, "annotation_association")
	assert.Equal(t, schema.KindAssociation, assoc.Kind)
	assert.Equal(t, []string{
		"rid", "position", "discriminator",
		"_axis_descr_rid", "_axis_pts_rid", "_characteristic_rid", "_function_rid", "_group_rid", "_measurement_rid",
	}, assoc.ColumnNames())
	assert.Contains(t, assoc.Uniques, []string{"_characteristic_rid", "position"})
	require.Len(t, assoc.Checks, 1)
	assert.Equal(t, schema.CheckExactlyOne, assoc.Checks[0].Kind)
	assert.Len(t, assoc.Checks[0].Columns, 6)

	annotation := table(t, s, "annotation")
	col, ok := annotation.Column("_association_rid")
	require.True(t, ok)
	assert.False(t, col.Nullable)
	assert.True(t, col.Unique)

	assert.Equal(t, "characteristic", Discriminator("CHARACTERISTIC"))
}

func TestDefault_ValueLists(t *testing.T) {
	s := Default()

	ids := table(t, s, "def_characteristic_identifiers")
	assert.Equal(t, schema.KindValueList, ids.Kind)
	assert.Equal(t, []string{"rid", "owner_rid", "position", "identifier"}, ids.ColumnNames())
	assert.Equal(t, [][]string{{"owner_rid", "position"}}, ids.Uniques)
	owner, ok := ids.ForeignKey("owner_rid")
	require.True(t, ok)
	assert.Equal(t, "def_characteristic", owner.RefTable)
	assert.Equal(t, schema.ActionCascade, owner.OnDelete)

	pairs := table(t, s, "compu_tab_pair")
	assert.Equal(t, []string{"rid", "owner_rid", "position", "inVal", "outVal"}, pairs.ColumnNames())
	outVal, _ := pairs.Column("outVal")
	assert.Equal(t, schema.TypeFloat, outVal.Type.BaseType)

	vpairs := table(t, s, "compu_vtab_pair")
	outText, _ := vpairs.Column("outVal")
	assert.Equal(t, schema.TypeText, outText.Type.BaseType)

	triples := table(t, s, "compu_vtab_range_triple")
	assert.Equal(t, []string{"rid", "owner_rid", "position", "inValMin", "inValMax", "outVal"}, triples.ColumnNames())

	for _, name := range []string{
		"calhandles", "virtual_measuring_channel", "fix_axis_par_list_value", "var_address_values",
		"annotation_text_values", "var_forbidden_comb_pair", "function_list_identifiers", "if_data_raw",
	} {
		table(t, s, name)
	}

	layout, err := s.Layout("COMPU_TAB")
	require.NoError(t, err)
	vl, ok := layout.ValueList("pairs")
	require.True(t, ok)
	assert.Equal(t, []string{"inVal", "outVal"}, vl.Columns)
	_, ok = layout.ValueList("numberValuePairs")
	assert.False(t, ok)
}

func TestDefault_Metadata(t *testing.T) {
	s := Default()
	meta := table(t, s, MetadataTable)
	assert.Equal(t, []string{"rid", "schema_version", "created"}, meta.ColumnNames())
	created, _ := meta.Column("created")
	assert.Equal(t, schema.TypeTimestamp, created.Type.BaseType)
	assert.Equal(t, 11, CurrentSchemaVersion)
}

func TestDefault_DDLIsDeterministic(t *testing.T) {
	first, err := Default().DDL(codegen.DialectSQLite)
	require.NoError(t, err)

	again, err := Synthesize(resolver.Default())
	require.NoError(t, err)
	second, err := again.DDL(codegen.DialectSQLite)
	require.NoError(t, err)

	assert.Equal(t, strings.Join(first, "\n"), strings.Join(second, "\n"))

	joined := strings.Join(first, "\n")
	assert.Less(t, strings.Index(joined, `CREATE TABLE IF NOT EXISTS "module"`), strings.Index(joined, `CREATE TABLE IF NOT EXISTS "measurement"`))
	assert.Less(t, strings.Index(joined, `CREATE TABLE IF NOT EXISTS "annotation_association"`), strings.Index(joined, `CREATE TABLE IF NOT EXISTS "annotation" (`))
	assert.Less(t, strings.Index(joined, `CREATE TABLE IF NOT EXISTS "measurement"`), strings.Index(joined, `CREATE TABLE IF NOT EXISTS "format"`))

	pg, err := Default().DDL(codegen.DialectPostgres)
	require.NoError(t, err)
	assert.Contains(t, strings.Join(pg, "\n"), "DOUBLE PRECISION")
}

func TestColumnType(t *testing.T) {
	tests := []struct {
		in   catalog.Type
		want schema.TypeSpec
	}{
		{catalog.Uint, schema.TypeSpec{BaseType: schema.TypeInteger}},
		{catalog.Long, schema.TypeSpec{BaseType: schema.TypeInteger}},
		{catalog.Float, schema.TypeSpec{BaseType: schema.TypeFloat}},
		{catalog.String, schema.TypeSpec{BaseType: schema.TypeText, Length: 256}},
		{catalog.Enum, schema.TypeSpec{BaseType: schema.TypeText, Length: 256}},
		{catalog.Byteorder, schema.TypeSpec{BaseType: schema.TypeText, Length: 256}},
		{catalog.Ident, schema.TypeSpec{BaseType: schema.TypeText, Length: 1025}},
		{catalog.Datatype, schema.TypeSpec{BaseType: schema.TypeText, Length: 1025}},
		{catalog.Datasize, schema.TypeSpec{BaseType: schema.TypeText, Length: 1025}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ColumnType(tt.in), tt.in.String())
	}
}

func TestSynthesize_ColumnConflict(t *testing.T) {
	c, err := catalog.New([]*catalog.Keyword{
		{
			Tag:      "OWNER",
			Params:   []catalog.Param{{Name: "read_only", Type: catalog.Uint}},
			Children: []catalog.Element{{Tag: "READ_ONLY"}},
		},
		{Tag: "READ_ONLY"},
	}, []string{"OWNER"})
	require.NoError(t, err)

	res, err := resolver.Resolve(c)
	require.NoError(t, err)

	_, err = Synthesize(res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrColumnConflict))
}

func TestSynthesize_MultipleParents(t *testing.T) {
	c, err := catalog.New([]*catalog.Keyword{
		{Tag: "TOP", Children: []catalog.Element{{Tag: "LEFT"}, {Tag: "RIGHT"}}},
		{Tag: "LEFT", Params: []catalog.Param{{Name: "n", Type: catalog.Uint}}, Children: []catalog.Element{{Tag: "SHARED"}}},
		{Tag: "RIGHT", Params: []catalog.Param{{Name: "n", Type: catalog.Uint}}, Children: []catalog.Element{{Tag: "SHARED"}}},
		{Tag: "SHARED", Params: []catalog.Param{{Name: "label", Type: catalog.String}}},
	}, []string{"TOP"})
	require.NoError(t, err)

	res, err := resolver.Resolve(c)
	require.NoError(t, err)
	s, err := Synthesize(res)
	require.NoError(t, err)

	left := table(t, s, "left")
	assert.Equal(t, []string{"rid", "n", "_top_rid"}, left.ColumnNames())

	shared := table(t, s, "shared")
	assert.Equal(t, []string{"rid", "label", "_left_rid", "_right_rid"}, shared.ColumnNames())
	assert.Contains(t, shared.Uniques, []string{"_left_rid"})
	assert.Contains(t, shared.Uniques, []string{"_right_rid"})
	require.Len(t, shared.Checks, 1)
	assert.Equal(t, schema.CheckExactlyOne, shared.Checks[0].Kind)
	assert.Equal(t, []string{"_left_rid", "_right_rid"}, shared.Checks[0].Columns)
}
