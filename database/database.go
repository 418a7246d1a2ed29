// Package database loads the CSV tables into a relational database.
//
// Backends register themselves with Register and are selected by the
// prefix of the connection string (sqlite://osm.db, postgres://...).
package database

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/dublinosm/osmcsv/log"
)

type Config struct {
	ConnectionParams string
}

type DB interface {
	// Init drops and creates all tables.
	Init(tables []*TableSpec) error
	// Begin starts a transaction for inserts into a single table.
	Begin(spec *TableSpec) (TableTx, error)
	// Sqlx returns the connection for queries.
	Sqlx() *sqlx.DB
	Close() error
}

type TableTx interface {
	Insert(row []interface{}) error
	Commit() error
	Rollback()
}

var databases = make(map[string]func(Config) (DB, error))

func Register(name string, f func(Config) (DB, error)) {
	databases[name] = f
}

func Open(conf Config) (DB, error) {
	connType := ConnectionType(conf.ConnectionParams)
	newFunc, ok := databases[connType]
	if !ok {
		return nil, errors.New("unsupported database type: " + connType)
	}

	db, err := newFunc(conf)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func ConnectionType(param string) string {
	parts := strings.SplitN(param, ":", 2)
	return parts[0]
}

type SQLError struct {
	query         string
	originalError error
}

func (e *SQLError) Error() string {
	return fmt.Sprintf("SQL Error: %s in query %s", e.originalError.Error(), e.query)
}

func (e *SQLError) Cause() error {
	return e.originalError
}

func (e *SQLError) Query() string {
	return e.query
}

type SQLInsertError struct {
	SQLError
	data interface{}
}

func (e *SQLInsertError) Error() string {
	return fmt.Sprintf("SQL Error: %s in query %s (%+v)", e.originalError.Error(), e.query, e.data)
}

// QueryBuilder creates the statements that differ between backends.
type QueryBuilder interface {
	ColumnType(ColumnType) string
	InsertSQL(spec *TableSpec) string
	// BulkInsert returns true if InsertSQL is a COPY statement that is
	// terminated with an Exec without arguments.
	BulkInsert() bool
}

// SQLDB implements DB for database/sql drivers.
type SQLDB struct {
	Db *sqlx.DB
	QB QueryBuilder
}

func (s *SQLDB) Sqlx() *sqlx.DB {
	return s.Db
}

func (s *SQLDB) Init(tables []*TableSpec) error {
	tx, err := s.Db.Beginx()
	if err != nil {
		return err
	}
	defer rollbackIfTx(&tx)

	for _, spec := range tables {
		sql := spec.DropTableSQL()
		if _, err := tx.Exec(sql); err != nil {
			return &SQLError{sql, err}
		}
		sql = spec.CreateTableSQL(s.QB)
		if _, err := tx.Exec(sql); err != nil {
			return &SQLError{sql, err}
		}
	}
	err = tx.Commit()
	if err != nil {
		return err
	}
	tx = nil
	return nil
}

func (s *SQLDB) Begin(spec *TableSpec) (TableTx, error) {
	tx, err := s.Db.Beginx()
	if err != nil {
		return nil, err
	}
	tt := &tableTx{
		Tx:         tx,
		Spec:       spec,
		InsertSql:  s.QB.InsertSQL(spec),
		bulkImport: s.QB.BulkInsert(),
	}
	stmt, err := tx.Prepare(tt.InsertSql)
	if err != nil {
		rollbackIfTx(&tt.Tx)
		return nil, &SQLError{tt.InsertSql, err}
	}
	tt.InsertStmt = stmt
	return tt, nil
}

func (s *SQLDB) Close() error {
	return s.Db.Close()
}

func rollbackIfTx(tx **sqlx.Tx) {
	if *tx != nil {
		if err := (*tx).Rollback(); err != nil {
			log.Println("[warn] rollback failed:", err)
		}
		*tx = nil
	}
}
