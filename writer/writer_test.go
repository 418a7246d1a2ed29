package writer

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dublinosm/osmcsv/shape"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

func TestHeaders(t *testing.T) {
	dir := t.TempDir()
	w, err := Create(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	for table, header := range map[string][]string{
		"nodes":      {"id", "lat", "lon", "user", "uid", "version", "changeset", "timestamp"},
		"nodes_tags": {"id", "key", "value", "type"},
		"ways":       {"id", "user", "uid", "version", "changeset", "timestamp"},
		"ways_nodes": {"id", "node_id", "position"},
		"ways_tags":  {"id", "key", "value", "type"},
	} {
		records := readCSV(t, filepath.Join(dir, table+".csv"))
		if len(records) != 1 || !reflect.DeepEqual(records[0], header) {
			t.Errorf("%s: unexpected content %v", table, records)
		}
	}
	if len(w.Paths()) != 5 {
		t.Error(w.Paths())
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := Create(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	err = w.Write(&shape.Shaped{
		Node: &shape.Node{ID: "1", Lat: "53.1", Lon: "-6.2", User: "Seán", Version: "2"},
		NodeTags: []shape.Tag{
			{ID: "1", Key: "name", Value: `The "Brazen, Head"`, Type: "regular"},
			{ID: "1", Key: "note", Value: "two\nlines", Type: "regular"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	err = w.Write(&shape.Shaped{
		Way:      &shape.Way{ID: "100", User: "bob"},
		WayNodes: []shape.WayNode{{ID: "100", NodeID: "1", Position: 0}, {ID: "100", NodeID: "2", Position: 1}},
		WayTags:  []shape.Tag{{ID: "100", Key: "street", Value: "Main St", Type: "addr"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	nodes := readCSV(t, Filename(dir, "nodes"))
	if want := []string{"1", "53.1", "-6.2", "Seán", "", "2", "", ""}; !reflect.DeepEqual(nodes[1], want) {
		t.Errorf("got %q, want %q", nodes[1], want)
	}
	tags := readCSV(t, Filename(dir, "nodes_tags"))
	if len(tags) != 3 || tags[1][2] != `The "Brazen, Head"` || tags[2][2] != "two\nlines" {
		t.Errorf("unexpected tags %q", tags)
	}
	wayNodes := readCSV(t, Filename(dir, "ways_nodes"))
	if want := [][]string{{"id", "node_id", "position"}, {"100", "1", "0"}, {"100", "2", "1"}}; !reflect.DeepEqual(wayNodes, want) {
		t.Errorf("got %q, want %q", wayNodes, want)
	}
	wayTags := readCSV(t, Filename(dir, "ways_tags"))
	if len(wayTags) != 2 || wayTags[1][1] != "street" {
		t.Error(wayTags)
	}
}

func TestWriteFlushesEachElement(t *testing.T) {
	dir := t.TempDir()
	w, err := Create(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Write(&shape.Shaped{Node: &shape.Node{ID: "1"}}); err != nil {
		t.Fatal(err)
	}
	// readable before Close
	nodes := readCSV(t, Filename(dir, "nodes"))
	if len(nodes) != 2 || nodes[1][0] != "1" {
		t.Error(nodes)
	}
}

func TestClose(t *testing.T) {
	w, err := Create(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Error("second close", err)
	}
	if err := w.Write(&shape.Shaped{Node: &shape.Node{ID: "1"}}); err == nil {
		t.Error("expected error after close")
	}
}

func TestCreateError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Create(filepath.Join(blocker, "out")); err == nil {
		t.Error("expected error")
	}
}
