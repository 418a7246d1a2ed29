// Package writer writes shaped records to one CSV file per table.
package writer

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"
	"github.com/pkg/errors"

	"github.com/dublinosm/osmcsv/shape"
)

// Tables maps each record family to its table. The CSV file of a table is
// named <table>.csv.
var Tables = map[string]string{
	shape.FamilyNode:     "nodes",
	shape.FamilyNodeTags: "nodes_tags",
	shape.FamilyWay:      "ways",
	shape.FamilyWayNodes: "ways_nodes",
	shape.FamilyWayTags:  "ways_tags",
}

// Filename returns the path of the CSV file for table in dir.
func Filename(dir, table string) string {
	return filepath.Join(dir, table+".csv")
}

type file struct {
	path string
	f    *os.File
	csv  *csv.Writer
	enc  *csvutil.Encoder
}

func createFile(path string, header interface{}) (*file, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	enc := csvutil.NewEncoder(w)
	enc.AutoHeader = false
	if err := enc.EncodeHeader(header); err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "writing header of %s", path)
	}
	return &file{path: path, f: f, csv: w, enc: enc}, nil
}

func (f *file) flush() error {
	f.csv.Flush()
	return f.csv.Error()
}

func (f *file) close() error {
	err := f.flush()
	if cerr := f.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Writer owns the five CSV files of an import. Records are written in
// the column order of the shape record types.
type Writer struct {
	nodes    *file
	nodeTags *file
	ways     *file
	wayNodes *file
	wayTags  *file
	closed   bool
}

// Create creates (or truncates) all CSV files in dir and writes their
// header rows.
func Create(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", dir)
	}
	w := &Writer{}
	var err error
	for _, f := range []struct {
		family string
		dst    **file
		header interface{}
	}{
		{shape.FamilyNode, &w.nodes, shape.Node{}},
		{shape.FamilyNodeTags, &w.nodeTags, shape.Tag{}},
		{shape.FamilyWay, &w.ways, shape.Way{}},
		{shape.FamilyWayNodes, &w.wayNodes, shape.WayNode{}},
		{shape.FamilyWayTags, &w.wayTags, shape.Tag{}},
	} {
		*f.dst, err = createFile(Filename(dir, Tables[f.family]), f.header)
		if err != nil {
			w.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Writer) files() []*file {
	return []*file{w.nodes, w.nodeTags, w.ways, w.wayNodes, w.wayTags}
}

// Paths returns the paths of all files, in table order.
func (w *Writer) Paths() []string {
	var paths []string
	for _, f := range w.files() {
		if f != nil {
			paths = append(paths, f.path)
		}
	}
	return paths
}

// Write appends all records of elem and flushes the touched files.
func (w *Writer) Write(elem *shape.Shaped) error {
	if w.closed {
		return errors.New("writer is closed")
	}
	if elem.Node != nil {
		if err := w.nodes.write(elem.Node); err != nil {
			return err
		}
		if err := w.nodeTags.writeAll(len(elem.NodeTags), func(i int) interface{} { return &elem.NodeTags[i] }); err != nil {
			return err
		}
	}
	if elem.Way != nil {
		if err := w.ways.write(elem.Way); err != nil {
			return err
		}
		if err := w.wayNodes.writeAll(len(elem.WayNodes), func(i int) interface{} { return &elem.WayNodes[i] }); err != nil {
			return err
		}
		if err := w.wayTags.writeAll(len(elem.WayTags), func(i int) interface{} { return &elem.WayTags[i] }); err != nil {
			return err
		}
	}
	return nil
}

func (f *file) write(v interface{}) error {
	if err := f.enc.Encode(v); err != nil {
		return errors.Wrapf(err, "writing %s", f.path)
	}
	return errors.Wrapf(f.flush(), "writing %s", f.path)
}

func (f *file) writeAll(n int, record func(int) interface{}) error {
	if n == 0 {
		return nil
	}
	for i := 0; i < n; i++ {
		if err := f.enc.Encode(record(i)); err != nil {
			return errors.Wrapf(err, "writing %s", f.path)
		}
	}
	return errors.Wrapf(f.flush(), "writing %s", f.path)
}

// Close flushes and closes all files. It returns the first error.
// Close can be called multiple times.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	var first error
	for _, f := range w.files() {
		if f == nil {
			continue
		}
		if err := f.close(); err != nil && first == nil {
			first = errors.Wrapf(err, "closing %s", f.path)
		}
	}
	return first
}
