package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
)

type tableTx struct {
	Tx         *sqlx.Tx
	Spec       *TableSpec
	InsertStmt *sql.Stmt
	InsertSql  string
	bulkImport bool
}

func (tt *tableTx) Insert(row []interface{}) error {
	_, err := tt.InsertStmt.Exec(row...)
	if err != nil {
		return &SQLInsertError{SQLError{tt.InsertSql, err}, row}
	}
	return nil
}

func (tt *tableTx) Commit() error {
	if tt.bulkImport {
		// COPY FROM STDIN is flushed by an Exec without arguments
		if _, err := tt.InsertStmt.Exec(); err != nil {
			return &SQLError{tt.InsertSql, err}
		}
	}
	if err := tt.InsertStmt.Close(); err != nil {
		return &SQLError{tt.InsertSql, err}
	}
	err := tt.Tx.Commit()
	if err != nil {
		return err
	}
	tt.Tx = nil
	return nil
}

func (tt *tableTx) Rollback() {
	if tt.InsertStmt != nil {
		tt.InsertStmt.Close()
	}
	rollbackIfTx(&tt.Tx)
}
