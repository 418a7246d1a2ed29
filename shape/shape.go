// Package shape turns raw OSM elements into the flat records of the
// nodes, nodes_tags, ways, ways_nodes and ways_tags tables.
package shape

import (
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dublinosm/osmcsv/element"
)

const DefaultTagType = "regular"

// problemChars are characters that are not allowed in tag keys. The
// space classes match the same runes as unicode.IsSpace, \s alone is
// ASCII only.
var problemChars = regexp.MustCompile(`[=+/&<>;'"?%#$@,.\s\v\x{85}\p{Z}]`)

// Shaped contains all records of a single node or way.
type Shaped struct {
	Kind     element.Kind
	Node     *Node
	NodeTags []Tag
	Way      *Way
	WayNodes []WayNode
	WayTags  []Tag
}

// Shaper converts elements to Shaped records.
type Shaper struct {
	// DefaultTagType is the type of tags without a colon in the key.
	DefaultTagType string
	// StringFields lists the fields per family that contain free text.
	// These values are normalized to NFC encoded UTF-8.
	StringFields map[string][]string

	stringFields map[string]map[string]struct{}
}

// New returns a Shaper that normalizes the given string fields.
// stringFields is keyed by family (FamilyNode, FamilyWayTags, ...).
func New(stringFields map[string][]string) *Shaper {
	s := &Shaper{
		DefaultTagType: DefaultTagType,
		StringFields:   stringFields,
		stringFields:   make(map[string]map[string]struct{}),
	}
	for family, fields := range stringFields {
		set := make(map[string]struct{}, len(fields))
		for _, f := range fields {
			set[f] = struct{}{}
		}
		s.stringFields[family] = set
	}
	return s
}

// Shape returns the records for a node or way. It returns nil for all
// other element kinds.
func (s *Shaper) Shape(elem *element.Element) *Shaped {
	switch elem.Kind {
	case element.NodeKind:
		node := &Node{}
		for _, name := range NodeFields {
			if v, ok := elem.Attr(name); ok && v != "" {
				node.set(name, s.toStr(FamilyNode, name, v))
			}
		}
		return &Shaped{
			Kind:     element.NodeKind,
			Node:     node,
			NodeTags: s.tags(elem, FamilyNodeTags),
		}
	case element.WayKind:
		way := &Way{}
		for _, name := range WayFields {
			if v, ok := elem.Attr(name); ok && v != "" {
				way.set(name, s.toStr(FamilyWay, name, v))
			}
		}
		return &Shaped{
			Kind:     element.WayKind,
			Way:      way,
			WayNodes: wayNodes(elem),
			WayTags:  s.tags(elem, FamilyWayTags),
		}
	}
	return nil
}

// wayNodes returns one row for each nd ref. Positions are the index of the
// ref, even for empty or invalid refs.
func wayNodes(elem *element.Element) []WayNode {
	if len(elem.Refs) == 0 {
		return nil
	}
	id := elem.ID()
	nodes := make([]WayNode, len(elem.Refs))
	for i, ref := range elem.Refs {
		nodes[i] = WayNode{ID: id, NodeID: ref, Position: i}
	}
	return nodes
}

func (s *Shaper) tags(elem *element.Element, family string) []Tag {
	var tags []Tag
	id := elem.ID()
	for _, t := range elem.Tags {
		if t.Key == "" || HasProblemChars(t.Key) {
			continue
		}
		typ, key := SplitKey(t.Key, s.DefaultTagType)
		tags = append(tags, Tag{
			ID:    id,
			Key:   s.toStr(family, "key", key),
			Value: s.toStr(family, "value", t.Value),
			Type:  s.toStr(family, "type", typ),
		})
	}
	return tags
}

// HasProblemChars returns true if key contains characters that are not
// allowed in tag keys (=+/&<>;'"?%#$@,. and any Unicode white space).
func HasProblemChars(key string) bool {
	return problemChars.MatchString(key)
}

// SplitKey splits a tag key at the first colon into type and key.
// addr:street is (addr, street), a:b:c is (a, b:c) and keys without a colon
// get defaultType.
func SplitKey(k, defaultType string) (typ, key string) {
	if i := strings.IndexByte(k, ':'); i >= 0 {
		return k[:i], k[i+1:]
	}
	return defaultType, k
}

func (s *Shaper) toStr(family, field, value string) string {
	if _, ok := s.stringFields[family][field]; !ok {
		return value
	}
	return NormalizeText(value)
}

// NormalizeText returns s as valid, NFC composed UTF-8 with CRLF line
// endings folded to LF. Invalid bytes are replaced with U+FFFD.
func NormalizeText(s string) string {
	if !isASCII(s) || strings.Contains(s, "\r\n") {
		if valid, _, err := transform.String(unicode.UTF8.NewDecoder(), s); err == nil {
			s = valid
		}
		s = norm.NFC.String(s)
		s = strings.ReplaceAll(s, "\r\n", "\n")
	}
	return s
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
