// Package query runs registered SQL queries against the loaded tables and
// prints the results as text tables.
package query

import (
	_ "embed"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

//go:embed queries.yml
var defaultQueries []byte

// All selects every registered query.
const All = "ALL"

type Query struct {
	Name    string `yaml:"name"`
	SQL     string `yaml:"sql"`
	Enabled bool   `yaml:"enabled"`
}

// Registry is an ordered set of named queries.
type Registry struct {
	queries []*Query
	byName  map[string]*Query
}

func NewRegistry(b []byte) (*Registry, error) {
	var queries []*Query
	if err := yaml.Unmarshal(b, &queries); err != nil {
		return nil, errors.Wrap(err, "decoding queries")
	}
	r := &Registry{byName: make(map[string]*Query, len(queries))}
	for _, q := range queries {
		if q.Name == "" {
			return nil, errors.New("query without name")
		}
		if q.Name == All {
			return nil, errors.Errorf("%s is reserved", All)
		}
		if _, ok := r.byName[q.Name]; ok {
			return nil, errors.Errorf("duplicate query %s", q.Name)
		}
		r.queries = append(r.queries, q)
		r.byName[q.Name] = q
	}
	return r, nil
}

// DefaultRegistry returns the built-in queries.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(defaultQueries)
	if err != nil {
		panic(err)
	}
	return r
}

// LoadRegistry reads the queries from filename, or returns the default
// registry if filename is empty.
func LoadRegistry(filename string) (*Registry, error) {
	if filename == "" {
		return DefaultRegistry(), nil
	}
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "reading queries")
	}
	return NewRegistry(b)
}

func (r *Registry) Get(name string) (*Query, bool) {
	q, ok := r.byName[name]
	return q, ok
}

// Names returns all query names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.queries))
	for i, q := range r.queries {
		names[i] = q.Name
	}
	return names
}

// Unregistered returns all names that are not registered. All is always
// valid.
func (r *Registry) Unregistered(names []string) []string {
	var unknown []string
	for _, name := range names {
		if name == All {
			continue
		}
		if _, ok := r.byName[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// Expand replaces All with the names of all queries.
func (r *Registry) Expand(names []string) []string {
	for _, name := range names {
		if name == All {
			return r.Names()
		}
	}
	return names
}
