package reader

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/dublinosm/osmcsv/element"
)

func TestTypedXML(t *testing.T) {
	elems := readAll(t, NewTypedXML(strings.NewReader(testOSM)))
	if len(elems) != 4 {
		t.Fatalf("expected 4 elements, got %d", len(elems))
	}

	n := elems[0]
	if n.Kind != element.NodeKind || n.ID() != "1" || n.Attrs["user"] != "alice" || n.Attrs["changeset"] != "42" {
		t.Error(n)
	}
	wantTags := []element.Tag{{Key: "addr:street", Value: "Main St"}, {Key: "name", Value: "Corner & Shop"}}
	if !reflect.DeepEqual(n.Tags, wantTags) {
		t.Errorf("got %v, want %v", n.Tags, wantTags)
	}
	if elems[1].Kind != element.NodeKind || elems[2].Kind != element.WayKind || elems[3].Kind != element.RelationKind {
		t.Error(elems)
	}
	if !reflect.DeepEqual(elems[3].Refs, []string{"100"}) {
		t.Error(elems[3].Refs)
	}
}

// Typed decoding keeps tags but not the attributes as written. The raw
// reader is the one the import pipeline validates.
func TestTypedXMLLosesAttributes(t *testing.T) {
	doc := `<osm>
 <node id="1" lat="53.3400" lon="-6.26" version="0"/>
 <way id="100"><nd ref="1"/><nd/></way>
</osm>`

	raw := readAll(t, NewXML(strings.NewReader(doc)))
	typed := readAll(t, NewTypedXML(strings.NewReader(doc)))
	if len(raw) != 2 || len(typed) != 2 {
		t.Fatal(raw, typed)
	}

	if raw[0].Attrs["lat"] != "53.3400" || typed[0].Attrs["lat"] != "53.34" {
		t.Error("lat", raw[0].Attrs["lat"], typed[0].Attrs["lat"])
	}
	if _, ok := raw[0].Attr("version"); !ok {
		t.Error("raw reader dropped version")
	}
	if _, ok := typed[0].Attr("version"); ok {
		t.Error("zero version survived typed decoding")
	}

	if !reflect.DeepEqual(raw[1].Refs, []string{"1", ""}) {
		t.Error("raw refs", raw[1].Refs)
	}
	if !reflect.DeepEqual(typed[1].Refs, []string{"1", "0"}) {
		t.Error("typed refs", typed[1].Refs)
	}

	// lat="north" is a validation error for the raw reader, a decode
	// error for the typed one
	bad := strings.Replace(doc, `lat="53.3400"`, `lat="north"`, 1)
	if elems := readAll(t, NewXML(strings.NewReader(bad))); elems[0].Attrs["lat"] != "north" {
		t.Error(elems[0].Attrs)
	}
	src := NewTypedXML(strings.NewReader(bad))
	var err error
	for err == nil {
		_, err = src.Next()
	}
	if err == io.EOF {
		t.Error("expected decode error")
	}
	if _, err2 := src.Next(); err2 != err {
		t.Errorf("got %v after %v", err2, err)
	}
}

func TestOpenTyped(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "dublin.osm")
	if err := os.WriteFile(fname, []byte(testOSM), 0644); err != nil {
		t.Fatal(err)
	}
	src, err := Open(fname, Options{Typed: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(*ScannerSource); !ok {
		t.Fatalf("expected *ScannerSource, got %T", src)
	}
	if elems := readAll(t, src); len(elems) != 4 {
		t.Error(elems)
	}
	if err := src.Close(); err != nil {
		t.Error(err)
	}
}
