// Package element contains the raw OSM elements as they are read from the
// source document, before any shaping.
package element

import "fmt"

type Kind string

const (
	NodeKind     Kind = "node"
	WayKind      Kind = "way"
	RelationKind Kind = "relation"
)

var KindValues = map[string]Kind{
	"node":     NodeKind,
	"way":      WayKind,
	"relation": RelationKind,
}

// Tag is a single k/v annotation of an element. Tags keep their document
// order and duplicate keys are preserved.
type Tag struct {
	Key   string
	Value string
}

// Element is a node, way or relation with all attributes as strings.
type Element struct {
	Kind  Kind
	Attrs map[string]string
	Tags  []Tag
	// Refs are the member references in document order: nd refs for ways,
	// member refs for relations.
	Refs []string
}

func New(kind Kind) *Element {
	return &Element{Kind: kind, Attrs: make(map[string]string)}
}

func (e *Element) ID() string {
	return e.Attrs["id"]
}

// Attr returns the attribute and whether it was present at all.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

func (e *Element) AddTag(k, v string) {
	e.Tags = append(e.Tags, Tag{Key: k, Value: v})
}

func (e *Element) AddRef(ref string) {
	e.Refs = append(e.Refs, ref)
}

func (e *Element) String() string {
	return fmt.Sprintf("%s %s", e.Kind, e.ID())
}
