package database

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/dublinosm/osmcsv/log"
	"github.com/dublinosm/osmcsv/writer"
)

// LoadCSV inserts all rows of the CSV data in r into the table of spec.
// The header must match the table columns. All rows are inserted in a
// single transaction. It returns the number of inserted rows.
func LoadCSV(db DB, spec *TableSpec, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(spec.Columns)

	header, err := reader.Read()
	if err == io.EOF {
		return 0, errors.Errorf("missing header for %s", spec.Name)
	}
	if err != nil {
		return 0, errors.Wrapf(err, "reading header for %s", spec.Name)
	}
	if cols := spec.ColumnNames(); strings.Join(header, ",") != strings.Join(cols, ",") {
		return 0, errors.Errorf("header %v does not match columns %v of %s", header, cols, spec.Name)
	}

	tx, err := db.Begin(spec)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	n := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, errors.Wrapf(err, "reading %s", spec.Name)
		}
		row, err := spec.Row(record)
		if err != nil {
			return 0, errors.Wrapf(err, "row %d", n+1)
		}
		if err := tx.Insert(row); err != nil {
			return 0, err
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return n, nil
}

// LoadFiles recreates all tables and loads the CSV files from dir. It
// returns the number of rows per table.
func LoadFiles(db DB, dir string) (map[string]int, error) {
	tables := Tables()
	if err := db.Init(tables); err != nil {
		return nil, errors.Wrap(err, "creating tables")
	}

	counts := make(map[string]int, len(tables))
	for _, spec := range tables {
		filename := writer.Filename(dir, spec.Name)
		n, err := loadFile(db, spec, filename)
		if err != nil {
			return nil, errors.Wrapf(err, "loading %s", spec.Name)
		}
		log.Printf("[info] loaded %d rows into %s", n, spec.Name)
		counts[spec.Name] = n
	}
	return counts, nil
}

func loadFile(db DB, spec *TableSpec, filename string) (int, error) {
	defer log.Step("Loading " + filename)()
	f, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return LoadCSV(db, spec, f)
}
