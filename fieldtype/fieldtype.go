// Package fieldtype classifies string values by the type they represent
// and audits the types found in CSV columns.
package fieldtype

import (
	"encoding/csv"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Type int

const (
	Null Type = iota
	List
	Integer
	Decimal
	Text
)

func (t Type) String() string {
	switch t {
	case Null:
		return "null"
	case List:
		return "list"
	case Integer:
		return "integer"
	case Decimal:
		return "decimal"
	case Text:
		return "text"
	}
	return "unknown"
}

// Classify returns the type of s. The checks are ordered: empty, NULL and
// NaN values are Null, values starting with { are List, values parsing as
// base 10 integers are Integer, other values parsing as floats are
// Decimal (3.23e+07 for example) and everything else is Text.
func Classify(s string) Type {
	v := strings.TrimSpace(s)
	if v == "" || v == "NULL" {
		return Null
	}
	if strings.HasPrefix(v, "{") {
		return List
	}
	if _, err := strconv.ParseInt(v, 10, 64); err == nil {
		return Integer
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		if math.IsNaN(f) {
			return Null
		}
		return Decimal
	} else if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
		// 1e400 and friends are still numbers, just too large
		return Decimal
	}
	return Text
}

// Set is a set of types found in one field.
type Set map[Type]struct{}

func (s Set) Add(t Type) {
	s[t] = struct{}{}
}

func (s Set) Has(t Type) bool {
	_, ok := s[t]
	return ok
}

// Types returns the members of the set in Type order.
func (s Set) Types() []Type {
	types := make([]Type, 0, len(s))
	for t := range s {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func (s Set) String() string {
	names := []string{}
	for _, t := range s.Types() {
		names = append(names, t.String())
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// AuditCSV reads CSV data with a header row and returns the set of types
// found in each of fields. The first skip data rows after the header are
// ignored (DBpedia exports carry three rows of type metadata).
func AuditCSV(r io.Reader, fields []string, skip int) (map[string]Set, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "reading header")
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}

	result := make(map[string]Set, len(fields))
	for _, f := range fields {
		if _, ok := idx[f]; !ok {
			return nil, errors.Errorf("field %q not in header", f)
		}
		result[f] = make(Set)
	}

	for row := 0; ; row++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading row %d", row+1)
		}
		if row < skip {
			continue
		}
		for _, f := range fields {
			i := idx[f]
			if i >= len(rec) {
				result[f].Add(Null)
				continue
			}
			result[f].Add(Classify(rec[i]))
		}
	}
	return result, nil
}
