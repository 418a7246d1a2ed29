package postgres

import (
	"testing"

	"github.com/dublinosm/osmcsv/database"
)

func TestQueryBuilder(t *testing.T) {
	qb := QueryBuilder{}
	spec := database.Tables()[1]

	if sql := qb.InsertSQL(spec); sql != `COPY "nodes_tags" ("id", "key", "value", "type") FROM STDIN` {
		t.Error(sql)
	}
	if !qb.BulkInsert() {
		t.Error("expected bulk insert")
	}
	for ct, want := range map[database.ColumnType]string{
		database.IntegerColumn: "BIGINT",
		database.RealColumn:    "DOUBLE PRECISION",
		database.TextColumn:    "TEXT",
	} {
		if got := qb.ColumnType(ct); got != want {
			t.Errorf("%v: got %s, want %s", ct, got, want)
		}
	}
}

func TestDisableDefaultSsl(t *testing.T) {
	if p := disableDefaultSsl("host=localhost"); p != "host=localhost sslmode=disable" {
		t.Error(p)
	}
	if p := disableDefaultSsl("host=localhost sslmode=require"); p != "host=localhost sslmode=require" {
		t.Error(p)
	}
}
