package query

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const (
	RowsPerTable = "rows_per_table"
	StreetTypes  = "street_types"
)

// Runner executes registered queries and prints the results to Out.
type Runner struct {
	DB       *sqlx.DB
	Registry *Registry
	Out      io.Writer
	// Tables are queried by rows_per_table.
	Tables []string
	// IsExpected selects the street types reported by street_types.
	IsExpected func(string) bool
}

// Run executes all named queries in order. All runs every registered
// query. Unknown and disabled queries are reported and skipped.
func (r *Runner) Run(names []string) error {
	for _, name := range r.Registry.Expand(names) {
		q, ok := r.Registry.Get(name)
		if !ok || !q.Enabled {
			fmt.Fprintf(r.Out, "It looks like query: %s does not exist or it's disabled\n", name)
			continue
		}
		var err error
		switch name {
		case RowsPerTable:
			err = r.rowsPerTable(q)
		case StreetTypes:
			err = r.streetTypes(q)
		default:
			fmt.Fprintf(r.Out, "Executing query_name:%s\nQuery: %s\n", q.Name, strings.TrimSpace(q.SQL))
			var t *Table
			t, err = r.table(q.SQL)
			if err == nil {
				t.WriteTo(r.Out)
			}
		}
		if err != nil {
			return errors.Wrapf(err, "running %s", name)
		}
	}
	return nil
}

func (r *Runner) rowsPerTable(q *Query) error {
	for _, table := range r.Tables {
		t, err := r.table(strings.Replace(q.SQL, "{table}", `"`+table+`"`, -1))
		if err != nil {
			return err
		}
		fmt.Fprintf(r.Out, "Table: %s\n", table)
		t.WriteTo(r.Out)
	}
	return nil
}

func (r *Runner) streetTypes(q *Query) error {
	rows, err := r.DB.Queryx(q.SQL)
	if err != nil {
		return err
	}
	defer rows.Close()

	types := make(map[string]struct{})
	for rows.Next() {
		cols, err := rows.SliceScan()
		if err != nil {
			return err
		}
		if len(cols) == 0 {
			continue
		}
		words := strings.Fields(format(cols[0]))
		if len(words) == 0 {
			continue
		}
		last := words[len(words)-1]
		if r.IsExpected == nil || r.IsExpected(last) {
			types[last] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	sorted := make([]string, 0, len(types))
	for t := range types {
		sorted = append(sorted, t)
	}
	sort.Strings(sorted)
	fmt.Fprintln(r.Out, "Streets types")
	for _, t := range sorted {
		fmt.Fprintln(r.Out, t)
	}
	return nil
}

func (r *Runner) table(sql string) (*Table, error) {
	rows, err := r.DB.Queryx(sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	t := NewTable(columns)
	for rows.Next() {
		cols, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = format(c)
		}
		t.AddRow(row)
	}
	return t, rows.Err()
}

func format(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}
