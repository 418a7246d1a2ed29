// Package sqlite loads tables into SQLite databases.
package sqlite

import (
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/dublinosm/osmcsv/database"
)

type QueryBuilder struct{}

func (QueryBuilder) ColumnType(t database.ColumnType) string {
	switch t {
	case database.IntegerColumn:
		return "INTEGER"
	case database.RealColumn:
		return "REAL"
	}
	return "TEXT"
}

func (QueryBuilder) InsertSQL(spec *database.TableSpec) string {
	return spec.InsertSQL(func(int) string { return "?" })
}

func (QueryBuilder) BulkInsert() bool {
	return false
}

// Filename returns the database file of a sqlite://path connection.
func Filename(params string) string {
	params = strings.TrimPrefix(params, "sqlite:")
	return strings.TrimPrefix(params, "//")
}

func New(conf database.Config) (database.DB, error) {
	filename := Filename(conf.ConnectionParams)
	if filename == "" {
		return nil, errors.New("missing sqlite filename in " + conf.ConnectionParams)
	}
	db, err := sqlx.Open("sqlite3", filename)
	if err != nil {
		return nil, err
	}
	// each connection to :memory: is a new database
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return &database.SQLDB{Db: db, QB: QueryBuilder{}}, nil
}

func init() {
	database.Register("sqlite", New)
}
