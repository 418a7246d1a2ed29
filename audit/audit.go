// Package audit finds unexpected street types in addr:street values and
// suggests normalized street names.
package audit

import (
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/dublinosm/osmcsv/element"
)

const StreetKey = "addr:street"

var streetTypeRe = regexp.MustCompile(`(?i)\b\S+\.?\s\b\S+\.?$`)

// StreetTypes maps a detected street type phrase to all distinct street
// names that produced it.
type StreetTypes map[string]map[string]struct{}

func NewStreetTypes() StreetTypes {
	return make(StreetTypes)
}

func (st StreetTypes) Add(phrase, name string) {
	names, ok := st[phrase]
	if !ok {
		names = make(map[string]struct{})
		st[phrase] = names
	}
	names[name] = struct{}{}
}

// Phrases returns all detected phrases, sorted.
func (st StreetTypes) Phrases() []string {
	phrases := make([]string, 0, len(st))
	for p := range st {
		phrases = append(phrases, p)
	}
	sort.Strings(phrases)
	return phrases
}

// Names returns the street names recorded for phrase, sorted.
func (st StreetTypes) Names(phrase string) []string {
	names := make([]string, 0, len(st[phrase]))
	for n := range st[phrase] {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Auditor checks street names against a list of expected street types.
type Auditor struct {
	expected map[string]struct{}
}

func NewAuditor(expected []string) *Auditor {
	a := &Auditor{expected: make(map[string]struct{}, len(expected))}
	for _, e := range expected {
		a.expected[e] = struct{}{}
	}
	return a
}

// IsExpected returns whether s is a known street type.
func (a *Auditor) IsExpected(s string) bool {
	_, ok := a.expected[s]
	return ok
}

// AuditStreetType records name in st if its street type is not expected.
//
// Only the trailing two words are inspected. A phrase that is expected as a
// whole is fine. If the first word is an expected type but the second is
// not (Street Foo), the name is recorded under the phrase. Otherwise the
// name is recorded under its last word, if that word is not expected
// (Main St). Single word names have no street type and are ignored.
func (a *Auditor) AuditStreetType(st StreetTypes, name string) {
	phrase := streetTypeRe.FindString(name)
	if phrase == "" {
		return
	}
	if a.IsExpected(phrase) {
		return
	}
	words := strings.Fields(phrase)
	if len(words) != 2 {
		return
	}
	if a.IsExpected(words[0]) && !a.IsExpected(words[1]) {
		st.Add(phrase, name)
		return
	}
	if !a.IsExpected(words[1]) {
		st.Add(words[1], name)
	}
}

func IsStreetName(tag element.Tag) bool {
	return tag.Key == StreetKey
}

// Source is a stream of raw elements, see reader.Source.
type Source interface {
	Next() (*element.Element, error)
}

// Audit reads all elements from src and audits the street name tags of
// nodes and ways.
func (a *Auditor) Audit(src Source) (StreetTypes, error) {
	st := NewStreetTypes()
	for {
		elem, err := src.Next()
		if err == io.EOF {
			return st, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "auditing street names")
		}
		if elem.Kind != element.NodeKind && elem.Kind != element.WayKind {
			continue
		}
		for _, tag := range elem.Tags {
			if IsStreetName(tag) {
				a.AuditStreetType(st, tag.Value)
			}
		}
	}
}
