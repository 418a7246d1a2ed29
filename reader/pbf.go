package reader

import (
	"context"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/omniscale/go-osm"
	"github.com/omniscale/go-osm/parser/pbf"
	"github.com/pkg/errors"

	"github.com/dublinosm/osmcsv/element"
)

// PBFSource reads .osm.pbf files with a single go-osm parser, so elements
// are returned in file order.
type PBFSource struct {
	r       io.Reader
	cancel  context.CancelFunc
	nodes   chan []osm.Node
	ways    chan []osm.Way
	rels    chan []osm.Relation
	errc    chan error
	pending []*element.Element
	done    bool
	err     error
}

func NewPBF(r io.Reader) *PBFSource {
	ctx, cancel := context.WithCancel(context.Background())
	s := &PBFSource{
		r:      r,
		cancel: cancel,
		nodes:  make(chan []osm.Node),
		ways:   make(chan []osm.Way),
		rels:   make(chan []osm.Relation),
		errc:   make(chan error, 1),
	}
	parser := pbf.New(r, pbf.Config{
		IncludeMetadata: true,
		Nodes:           s.nodes,
		Ways:            s.ways,
		Relations:       s.rels,
		Concurrency:     1,
	})
	go func() {
		s.errc <- parser.Parse(ctx)
	}()
	return s
}

func (s *PBFSource) Next() (*element.Element, error) {
	for {
		if len(s.pending) > 0 {
			elem := s.pending[0]
			s.pending = s.pending[1:]
			return elem, nil
		}
		if s.err != nil {
			return nil, s.err
		}
		if s.done {
			return nil, io.EOF
		}
		select {
		case nds, ok := <-s.nodes:
			if !ok {
				s.nodes = nil
				continue
			}
			for i := range nds {
				s.pending = append(s.pending, fromNode(&nds[i]))
			}
		case ws, ok := <-s.ways:
			if !ok {
				s.ways = nil
				continue
			}
			for i := range ws {
				s.pending = append(s.pending, fromWay(&ws[i]))
			}
		case rs, ok := <-s.rels:
			if !ok {
				s.rels = nil
				continue
			}
			for i := range rs {
				s.pending = append(s.pending, fromRelation(&rs[i]))
			}
		case err := <-s.errc:
			// all sends of the parser are unbuffered, nothing is left
			s.done = true
			if err != nil {
				s.err = errors.Wrap(err, "parsing PBF")
			}
		}
	}
}

// Close stops the parser and closes the underlying reader.
func (s *PBFSource) Close() error {
	s.cancel()
	for !s.done {
		select {
		case <-s.nodes:
		case <-s.ways:
		case <-s.rels:
		case <-s.errc:
			s.done = true
		}
	}
	s.pending = nil
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func newElement(kind element.Kind, e *osm.Element) *element.Element {
	elem := element.New(kind)
	elem.Attrs["id"] = strconv.FormatInt(e.ID, 10)
	if m := e.Metadata; m != nil {
		if m.UserName != "" {
			elem.Attrs["user"] = m.UserName
		}
		if m.UserID != 0 {
			elem.Attrs["uid"] = strconv.FormatInt(int64(m.UserID), 10)
		}
		if m.Version != 0 {
			elem.Attrs["version"] = strconv.FormatInt(int64(m.Version), 10)
		}
		if m.Changeset != 0 {
			elem.Attrs["changeset"] = strconv.FormatInt(m.Changeset, 10)
		}
		if !m.Timestamp.IsZero() {
			elem.Attrs["timestamp"] = m.Timestamp.UTC().Format(time.RFC3339)
		}
	}
	// PBF tags are unordered
	keys := make([]string, 0, len(e.Tags))
	for k := range e.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		elem.AddTag(k, e.Tags[k])
	}
	return elem
}

func fromNode(n *osm.Node) *element.Element {
	elem := newElement(element.NodeKind, &n.Element)
	elem.Attrs["lat"] = strconv.FormatFloat(n.Lat, 'f', -1, 64)
	elem.Attrs["lon"] = strconv.FormatFloat(n.Long, 'f', -1, 64)
	return elem
}

func fromWay(w *osm.Way) *element.Element {
	elem := newElement(element.WayKind, &w.Element)
	for _, ref := range w.Refs {
		elem.AddRef(strconv.FormatInt(ref, 10))
	}
	return elem
}

func fromRelation(r *osm.Relation) *element.Element {
	elem := newElement(element.RelationKind, &r.Element)
	for _, m := range r.Members {
		elem.AddRef(strconv.FormatInt(m.ID, 10))
	}
	return elem
}
