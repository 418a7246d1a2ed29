// Package postgres loads tables into PostgreSQL with COPY FROM STDIN.
package postgres

import (
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dublinosm/osmcsv/database"
)

type QueryBuilder struct{}

func (QueryBuilder) ColumnType(t database.ColumnType) string {
	switch t {
	case database.IntegerColumn:
		return "BIGINT"
	case database.RealColumn:
		return "DOUBLE PRECISION"
	}
	return "TEXT"
}

func (QueryBuilder) InsertSQL(spec *database.TableSpec) string {
	return pq.CopyIn(spec.Name, spec.ColumnNames()...)
}

func (QueryBuilder) BulkInsert() bool {
	return true
}

// disableDefaultSsl adds sslmode=disable if the connection does not set
// any sslmode.
func disableDefaultSsl(params string) string {
	if strings.Contains(params, "sslmode=") {
		return params
	}
	return params + " sslmode=disable"
}

func New(conf database.Config) (database.DB, error) {
	connParams := conf.ConnectionParams
	if strings.HasPrefix(connParams, "postgresql://") {
		connParams = strings.Replace(connParams, "postgresql", "postgres", 1)
	}
	params, err := pq.ParseURL(connParams)
	if err != nil {
		return nil, err
	}
	params = disableDefaultSsl(params)

	db, err := sqlx.Open("postgres", params)
	if err != nil {
		return nil, err
	}
	// check that the connection actually works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return &database.SQLDB{Db: db, QB: QueryBuilder{}}, nil
}

func init() {
	database.Register("postgres", New)
	database.Register("postgresql", New)
}
