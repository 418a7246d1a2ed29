package database

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type ColumnType int

const (
	IntegerColumn ColumnType = iota
	RealColumn
	TextColumn
)

type ColumnSpec struct {
	Name    string
	Type    ColumnType
	NotNull bool
}

func (col *ColumnSpec) AsSQL(qb QueryBuilder) string {
	sql := fmt.Sprintf(`"%s" %s`, col.Name, qb.ColumnType(col.Type))
	if col.NotNull {
		sql += " NOT NULL"
	}
	return sql
}

// Value converts a CSV value to the column type. Empty values of
// nullable columns are NULL.
func (col *ColumnSpec) Value(v string) (interface{}, error) {
	if v == "" && !col.NotNull {
		return nil, nil
	}
	switch col.Type {
	case IntegerColumn:
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errors.Errorf("invalid integer %q for %s", v, col.Name)
		}
		return i, nil
	case RealColumn:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.Errorf("invalid number %q for %s", v, col.Name)
		}
		return f, nil
	}
	return v, nil
}

type TableSpec struct {
	Name       string
	Columns    []ColumnSpec
	PrimaryKey string
}

func (spec *TableSpec) ColumnNames() []string {
	names := make([]string, len(spec.Columns))
	for i, col := range spec.Columns {
		names[i] = col.Name
	}
	return names
}

func (spec *TableSpec) CreateTableSQL(qb QueryBuilder) string {
	var cols []string
	for _, col := range spec.Columns {
		cols = append(cols, col.AsSQL(qb))
	}
	if spec.PrimaryKey != "" {
		cols = append(cols, fmt.Sprintf(`PRIMARY KEY ("%s")`, spec.PrimaryKey))
	}
	columnSQL := strings.Join(cols, ",\n            ")
	return fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS "%s" (
            %s
        );`,
		spec.Name,
		columnSQL,
	)
}

func (spec *TableSpec) DropTableSQL() string {
	return fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, spec.Name)
}

// InsertSQL returns an INSERT statement with placeholders created by
// placeholder(1), placeholder(2), ...
func (spec *TableSpec) InsertSQL(placeholder func(int) string) string {
	var cols []string
	var vars []string
	for i, col := range spec.Columns {
		cols = append(cols, `"`+col.Name+`"`)
		vars = append(vars, placeholder(i+1))
	}
	columns := strings.Join(cols, ", ")
	placeholders := strings.Join(vars, ", ")

	return fmt.Sprintf(`INSERT INTO "%s" (%s) VALUES (%s)`,
		spec.Name,
		columns,
		placeholders,
	)
}

// Row converts a CSV record to the values of an insert.
func (spec *TableSpec) Row(record []string) ([]interface{}, error) {
	if len(record) != len(spec.Columns) {
		return nil, errors.Errorf("expected %d values for %s, got %d", len(spec.Columns), spec.Name, len(record))
	}
	row := make([]interface{}, len(record))
	for i := range spec.Columns {
		v, err := spec.Columns[i].Value(record[i])
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

func tagsTable(name string) *TableSpec {
	return &TableSpec{
		Name: name,
		Columns: []ColumnSpec{
			{"id", IntegerColumn, true},
			{"key", TextColumn, true},
			{"value", TextColumn, true},
			{"type", TextColumn, true},
		},
	}
}

// Tables returns the specs of all tables in load order. Column names and
// order match the CSV headers.
func Tables() []*TableSpec {
	return []*TableSpec{
		{
			Name: "nodes",
			Columns: []ColumnSpec{
				{"id", IntegerColumn, true},
				{"lat", RealColumn, true},
				{"lon", RealColumn, true},
				{"user", TextColumn, false},
				{"uid", IntegerColumn, false},
				{"version", IntegerColumn, false},
				{"changeset", IntegerColumn, false},
				{"timestamp", TextColumn, false},
			},
			PrimaryKey: "id",
		},
		tagsTable("nodes_tags"),
		{
			Name: "ways",
			Columns: []ColumnSpec{
				{"id", IntegerColumn, true},
				{"user", TextColumn, false},
				{"uid", IntegerColumn, false},
				{"version", TextColumn, false},
				{"changeset", IntegerColumn, false},
				{"timestamp", TextColumn, false},
			},
			PrimaryKey: "id",
		},
		{
			Name: "ways_nodes",
			Columns: []ColumnSpec{
				{"id", IntegerColumn, true},
				{"node_id", IntegerColumn, true},
				{"position", IntegerColumn, true},
			},
		},
		tagsTable("ways_tags"),
	}
}

// TableNames returns the names of Tables.
func TableNames() []string {
	var names []string
	for _, spec := range Tables() {
		names = append(names, spec.Name)
	}
	return names
}
