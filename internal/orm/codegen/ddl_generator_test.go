package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a2ldb/a2ldb/internal/orm/schema"
)

func integer() schema.TypeSpec { return schema.TypeSpec{BaseType: schema.TypeInteger} }

func sampleRegistry(t *testing.T) *schema.Registry {
	t.Helper()

	characteristic := schema.NewTable("characteristic", schema.KindEntity)
	characteristic.AddColumn(&schema.Column{Name: "rid", Type: integer(), PrimaryKey: true})
	characteristic.AddColumn(&schema.Column{Name: "name", Type: schema.TypeSpec{BaseType: schema.TypeText, Length: 1025}})
	characteristic.AddColumn(&schema.Column{Name: "read_only", Type: schema.TypeSpec{BaseType: schema.TypeBoolean}, Default: "false"})

	assoc := schema.NewTable("annotation_association", schema.KindAssociation)
	assoc.AddColumn(&schema.Column{Name: "rid", Type: integer(), PrimaryKey: true})
	assoc.AddColumn(&schema.Column{Name: "position", Type: integer()})
	assoc.AddColumn(&schema.Column{Name: "discriminator", Type: schema.TypeSpec{BaseType: schema.TypeText, Length: 256}})
	assoc.AddColumn(&schema.Column{Name: "_characteristic_rid", Type: integer(), Nullable: true})
	assoc.AddForeignKey(&schema.ForeignKey{Column: "_characteristic_rid", RefTable: "characteristic", RefColumn: "rid", OnDelete: schema.ActionCascade})
	assoc.AddUnique("_characteristic_rid", "position")
	assoc.AddCheck(schema.CheckExactlyOne, "_characteristic_rid")

	annotation := schema.NewTable("annotation", schema.KindEntity)
	annotation.AddColumn(&schema.Column{Name: "rid", Type: integer(), PrimaryKey: true})
	annotation.AddColumn(&schema.Column{Name: "_association_rid", Type: integer(), Unique: true})
	annotation.AddForeignKey(&schema.ForeignKey{Column: "_association_rid", RefTable: "annotation_association", RefColumn: "rid", OnDelete: schema.ActionCascade})

	r := schema.NewRegistry()
	require.NoError(t, r.Register(annotation))
	require.NoError(t, r.Register(assoc))
	require.NoError(t, r.Register(characteristic))
	return r
}

func TestDDLGenerator_GenerateCreateTable(t *testing.T) {
	r := sampleRegistry(t)
	assoc, _ := r.Get("annotation_association")

	got, err := NewDDLGenerator(DialectSQLite).GenerateCreateTable(assoc)
	require.NoError(t, err)

	want := `CREATE TABLE IF NOT EXISTS "annotation_association" (
  "rid" INTEGER NOT NULL PRIMARY KEY,
  "position" INTEGER NOT NULL,
  "discriminator" VARCHAR(256) NOT NULL,
  "_characteristic_rid" INTEGER NULL,
  FOREIGN KEY ("_characteristic_rid") REFERENCES "characteristic" ("rid") ON DELETE CASCADE,
  UNIQUE ("_characteristic_rid", "position"),
  CHECK ((CASE WHEN "_characteristic_rid" IS NULL THEN 0 ELSE 1 END) = 1)
);`
	assert.Equal(t, want, got)
}

func TestDDLGenerator_Columns(t *testing.T) {
	r := sampleRegistry(t)
	characteristic, _ := r.Get("characteristic")

	sqlite, err := NewDDLGenerator(DialectSQLite).GenerateCreateTable(characteristic)
	require.NoError(t, err)
	assert.Contains(t, sqlite, `"read_only" BOOLEAN NOT NULL DEFAULT 0`)
	assert.Contains(t, sqlite, `"name" VARCHAR(1025) NOT NULL`)

	pg, err := NewDDLGenerator(DialectPostgres).GenerateCreateTable(characteristic)
	require.NoError(t, err)
	assert.Contains(t, pg, `"rid" BIGSERIAL PRIMARY KEY`)
	assert.Contains(t, pg, `"read_only" BOOLEAN NOT NULL DEFAULT FALSE`)

	annotation, _ := r.Get("annotation")
	ddl, err := NewDDLGenerator(DialectSQLite).GenerateCreateTable(annotation)
	require.NoError(t, err)
	assert.Contains(t, ddl, `"_association_rid" INTEGER NOT NULL UNIQUE`)
}

func TestDDLGenerator_GenerateSchema(t *testing.T) {
	gen := NewDDLGenerator(DialectSQLite)

	statements, err := gen.GenerateSchema(sampleRegistry(t))
	require.NoError(t, err)
	require.Len(t, statements, 3)
	assert.True(t, strings.HasPrefix(statements[0], `CREATE TABLE IF NOT EXISTS "characteristic"`))
	assert.True(t, strings.HasPrefix(statements[1], `CREATE TABLE IF NOT EXISTS "annotation_association"`))
	assert.True(t, strings.HasPrefix(statements[2], `CREATE TABLE IF NOT EXISTS "annotation"`))

	first, err := gen.Generate(sampleRegistry(t))
	require.NoError(t, err)
	second, err := gen.Generate(sampleRegistry(t))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDDLGenerator_Errors(t *testing.T) {
	gen := NewDDLGenerator(DialectSQLite)

	_, err := gen.GenerateCreateTable(nil)
	assert.Error(t, err)

	_, err = gen.GenerateCreateTable(schema.NewTable("empty", schema.KindEntity))
	assert.Error(t, err)

	bad := schema.NewTable("bad", schema.KindEntity)
	bad.AddColumn(&schema.Column{Name: "rid", Type: integer(), PrimaryKey: true})
	bad.AddColumn(&schema.Column{Name: "parent", Type: integer()})
	bad.AddForeignKey(&schema.ForeignKey{Column: "parent", RefTable: "bad", RefColumn: "rid", OnDelete: "RESTRICT"})
	_, err = gen.GenerateCreateTable(bad)
	assert.ErrorContains(t, err, "unsupported referential action")
}

func TestIndexGenerator_GenerateForeignKeyIndexes(t *testing.T) {
	values := schema.NewTable("calhandles", schema.KindValueList)
	values.AddColumn(&schema.Column{Name: "rid", Type: integer(), PrimaryKey: true})
	values.AddColumn(&schema.Column{Name: "owner_rid", Type: integer()})
	values.AddForeignKey(&schema.ForeignKey{Column: "owner_rid", RefTable: "calibration_handle", RefColumn: "rid"})
	values.AddUnique("owner_rid", "position")

	assert.Empty(t, NewIndexGenerator().GenerateForeignKeyIndexes(values))

	measurement := schema.NewTable("measurement", schema.KindEntity)
	measurement.AddColumn(&schema.Column{Name: "rid", Type: integer(), PrimaryKey: true})
	measurement.AddColumn(&schema.Column{Name: "_module_rid", Type: integer(), Nullable: true})
	measurement.AddForeignKey(&schema.ForeignKey{Column: "_module_rid", RefTable: "module", RefColumn: "rid"})

	assert.Equal(t,
		[]string{`CREATE INDEX IF NOT EXISTS "idx_measurement__module_rid" ON "measurement" ("_module_rid");`},
		NewIndexGenerator().GenerateForeignKeyIndexes(measurement))
}
