package schema

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/dublinosm/osmcsv/shape"
)

func validNode() *shape.Shaped {
	return &shape.Shaped{
		Node: &shape.Node{
			ID: "1", Lat: "53.3498", Lon: "-6.2603", User: "alice", UID: "7",
			Version: "3", Changeset: "42", Timestamp: "2017-01-01T00:00:00Z",
		},
		NodeTags: []shape.Tag{{ID: "1", Key: "name", Value: "Spire", Type: "regular"}},
	}
}

func validWay() *shape.Shaped {
	return &shape.Shaped{
		Way: &shape.Way{
			ID: "100", User: "bob", UID: "8", Version: "1",
			Changeset: "43", Timestamp: "2017-01-01T00:00:00Z",
		},
		WayNodes: []shape.WayNode{{ID: "100", NodeID: "1", Position: 0}, {ID: "100", NodeID: "2", Position: 1}},
		WayTags:  []shape.Tag{{ID: "100", Key: "street", Value: "Main St", Type: "addr"}},
	}
}

func TestDefault(t *testing.T) {
	s := Default()
	for _, family := range shape.Families {
		if len(s[family]) == 0 {
			t.Errorf("missing family %s", family)
		}
	}
	if err := s.Validate(validNode()); err != nil {
		t.Error(err)
	}
	if err := s.Validate(validWay()); err != nil {
		t.Error(err)
	}
}

func TestStringFields(t *testing.T) {
	fields := Default().StringFields()
	for family, want := range map[string][]string{
		shape.FamilyNode:     {"timestamp", "user"},
		shape.FamilyWay:      {"timestamp", "user", "version"},
		shape.FamilyNodeTags: {"key", "type", "value"},
	} {
		got := fields[family]
		sort.Strings(got)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: got %v, want %v", family, got, want)
		}
	}
	if len(fields[shape.FamilyWayNodes]) != 0 {
		t.Error(fields[shape.FamilyWayNodes])
	}
}

func TestValidateErrors(t *testing.T) {
	s := Default()

	for _, tc := range []struct {
		name   string
		modify func(*shape.Shaped)
		want   ValidationError
	}{
		{
			"missing id",
			func(e *shape.Shaped) { e.Node.ID = "" },
			ValidationError{Family: "node", Field: "id", Reason: Missing},
		},
		{
			"lat not decimal",
			func(e *shape.Shaped) { e.Node.Lat = "north" },
			ValidationError{Family: "node", Field: "lat", Reason: WrongType, Value: "north"},
		},
		{
			"uid not integer",
			func(e *shape.Shaped) { e.Node.UID = "1.5" },
			ValidationError{Family: "node", Field: "uid", Reason: WrongType, Value: "1.5"},
		},
		{
			"second tag without id",
			func(e *shape.Shaped) {
				e.NodeTags = append(e.NodeTags, shape.Tag{Key: "x", Value: "y", Type: "regular"})
			},
			ValidationError{Family: "node_tags", Field: "id", Index: 1, Reason: Missing},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			elem := validNode()
			tc.modify(elem)
			err := s.Validate(elem)
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if *verr != tc.want {
				t.Errorf("got %+v, want %+v", *verr, tc.want)
			}
		})
	}
}

func TestValidateOptional(t *testing.T) {
	elem := validNode()
	elem.Node.User = ""
	elem.Node.UID = ""
	if err := Default().Validate(elem); err != nil {
		t.Error(err)
	}
	elem.NodeTags[0].Value = ""
	if err := Default().Validate(elem); err != nil {
		t.Error("empty tag value", err)
	}

	// tags from the keys name: and :foo
	elem.NodeTags = append(elem.NodeTags,
		shape.Tag{ID: "1", Key: "", Value: "x", Type: "name"},
		shape.Tag{ID: "1", Key: "foo", Value: "y", Type: ""},
	)
	if err := Default().Validate(elem); err != nil {
		t.Error("empty tag key or type", err)
	}
}

func TestValidateWayOrder(t *testing.T) {
	elem := validWay()
	elem.WayTags[0].ID = ""
	elem.WayNodes[1].NodeID = "abc"

	err := Default().Validate(elem)
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatal(err)
	}
	// tags are checked before way nodes
	if verr.Family != "way_tags" {
		t.Error(verr)
	}

	elem.WayTags[0].ID = "100"
	err = Default().Validate(elem)
	verr, ok = err.(*ValidationError)
	if !ok {
		t.Fatal(err)
	}
	want := ValidationError{Family: "way_nodes", Field: "node_id", Index: 1, Reason: WrongType, Value: "abc"}
	if *verr != want {
		t.Errorf("got %+v, want %+v", *verr, want)
	}
	if verr.Error() != `way_nodes[1].node_id: wrong type "abc"` {
		t.Error(verr.Error())
	}
}

func TestEnum(t *testing.T) {
	s, err := New([]byte(`
node: [{name: id, type: integer, required: true}]
node_tags:
  - {name: type, type: enum, values: [regular, addr]}
way: []
way_nodes: []
way_tags: []
`))
	if err != nil {
		t.Fatal(err)
	}
	elem := &shape.Shaped{
		Node:     &shape.Node{ID: "1"},
		NodeTags: []shape.Tag{{Type: "addr"}, {Type: "gnis"}},
	}
	err = s.Validate(elem)
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatal(err)
	}
	if verr.Reason != Disallowed || verr.Index != 1 || verr.Value != "gnis" {
		t.Error(verr)
	}
}

func TestNewErrors(t *testing.T) {
	for _, doc := range []string{
		`node: [{name: id, type: integer}]`,
		"node: [{name: id}]\nnode_tags: []\nway: []\nway_nodes: []\nway_tags: []",
		"node: [{name: id, type: uuid}]\nnode_tags: []\nway: []\nway_nodes: []\nway_tags: []",
		"node: [{name: t, type: enum}]\nnode_tags: []\nway: []\nway_nodes: []\nway_tags: []",
		"node: []\nnode_tags: []\nway: []\nway_nodes: []\nway_tags: []\nrelation: []",
		`node: {`,
	} {
		if _, err := New([]byte(doc)); err == nil {
			t.Errorf("expected error for %q", doc)
		}
	}
}

func TestLoad(t *testing.T) {
	s, err := Load("")
	if err != nil || len(s) != len(shape.Families) {
		t.Fatal(s, err)
	}

	dir := t.TempDir()
	filename := filepath.Join(dir, "schema.yml")
	if err := os.WriteFile(filename, defaultSchema, 0644); err != nil {
		t.Fatal(err)
	}
	s, err = Load(filename)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s.StringFields()[shape.FamilyWay], Default().StringFields()[shape.FamilyWay]) {
		t.Error("file schema differs from default")
	}

	if _, err := Load(filepath.Join(dir, "missing.yml")); err == nil {
		t.Error("expected error for missing file")
	}
}
