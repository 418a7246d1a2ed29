package reader

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"

	"github.com/dublinosm/osmcsv/element"
)

// ScannerSource reads elements from an osm.Scanner. The scanner decodes
// into typed objects, so attributes are formatted from the decoded values:
// zero values are absent, a missing ref is 0 and numbers are written in
// their shortest form. Tags keep their document order.
type ScannerSource struct {
	scanner osm.Scanner
	r       io.Reader
	err     error
	done    bool
}

func NewScanner(scanner osm.Scanner, r io.Reader) *ScannerSource {
	return &ScannerSource{scanner: scanner, r: r}
}

// NewTypedXML returns a ScannerSource for an .osm document decoded by
// osmxml.
func NewTypedXML(r io.Reader) *ScannerSource {
	return NewScanner(osmxml.New(context.Background(), r), r)
}

func (s *ScannerSource) Next() (*element.Element, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.done {
		return nil, io.EOF
	}
	for s.scanner.Scan() {
		switch o := s.scanner.Object().(type) {
		case *osm.Node:
			elem := fromObject(element.NodeKind, int64(o.ID), o.User, int64(o.UserID),
				o.Version, int64(o.ChangesetID), o.Timestamp, o.Tags)
			elem.Attrs["lat"] = strconv.FormatFloat(o.Lat, 'f', -1, 64)
			elem.Attrs["lon"] = strconv.FormatFloat(o.Lon, 'f', -1, 64)
			return elem, nil
		case *osm.Way:
			elem := fromObject(element.WayKind, int64(o.ID), o.User, int64(o.UserID),
				o.Version, int64(o.ChangesetID), o.Timestamp, o.Tags)
			for _, n := range o.Nodes {
				elem.AddRef(strconv.FormatInt(int64(n.ID), 10))
			}
			return elem, nil
		case *osm.Relation:
			elem := fromObject(element.RelationKind, int64(o.ID), o.User, int64(o.UserID),
				o.Version, int64(o.ChangesetID), o.Timestamp, o.Tags)
			for _, m := range o.Members {
				elem.AddRef(strconv.FormatInt(m.Ref, 10))
			}
			return elem, nil
		}
		// bounds, changesets, notes
	}
	if err := s.scanner.Err(); err != nil {
		s.err = errors.Wrap(err, "scanning OSM objects")
		return nil, s.err
	}
	s.done = true
	return nil, io.EOF
}

func (s *ScannerSource) Close() error {
	err := s.scanner.Close()
	if c, ok := s.r.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func fromObject(kind element.Kind, id int64, user string, uid int64, version int, changeset int64, ts time.Time, tags osm.Tags) *element.Element {
	elem := element.New(kind)
	elem.Attrs["id"] = strconv.FormatInt(id, 10)
	if user != "" {
		elem.Attrs["user"] = user
	}
	if uid != 0 {
		elem.Attrs["uid"] = strconv.FormatInt(uid, 10)
	}
	if version != 0 {
		elem.Attrs["version"] = strconv.Itoa(version)
	}
	if changeset != 0 {
		elem.Attrs["changeset"] = strconv.FormatInt(changeset, 10)
	}
	if !ts.IsZero() {
		elem.Attrs["timestamp"] = ts.UTC().Format(time.RFC3339)
	}
	for _, t := range tags {
		elem.AddTag(t.Key, t.Value)
	}
	return elem
}
