/*
Package import_ converts an OSM document into the CSV files of all tables.
*/
package import_

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/dublinosm/osmcsv/element"
	"github.com/dublinosm/osmcsv/log"
	"github.com/dublinosm/osmcsv/schema"
	"github.com/dublinosm/osmcsv/shape"
	"github.com/dublinosm/osmcsv/stats"
	"github.com/dublinosm/osmcsv/writer"
)

type State int

const (
	NotStarted State = iota
	Streaming
	Closed
	Aborted
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Streaming:
		return "streaming"
	case Closed:
		return "closed"
	case Aborted:
		return "aborted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Source is a stream of raw elements, see reader.Source.
type Source interface {
	Next() (*element.Element, error)
}

type Options struct {
	OutputDir string
	// Validate checks every element against Schema before it is written.
	Validate bool
	Schema   schema.Schema
	Metrics  *stats.Metrics
}

// Result of a single pipeline run.
type Result struct {
	RunID    string
	Elements map[element.Kind]int
	Rows     map[string]int
	Files    []string
	Duration time.Duration
}

// Pipeline shapes, validates and writes all elements of a source. A
// Pipeline can only run once.
type Pipeline struct {
	opts   Options
	shaper *shape.Shaper
	state  State
}

func New(opts Options) *Pipeline {
	if opts.Schema == nil {
		opts.Schema = schema.Default()
	}
	return &Pipeline{
		opts:   opts,
		shaper: shape.New(opts.Schema.StringFields()),
	}
}

func (p *Pipeline) State() State {
	return p.state
}

// Run reads all elements from src and writes them to the CSV files in
// OutputDir. Any read, validation or write error aborts the run. The
// files are closed on all paths and contain all rows written before the
// error.
func (p *Pipeline) Run(src Source) (res *Result, err error) {
	if p.state != NotStarted {
		return nil, errors.Errorf("pipeline already %s", p.state)
	}
	start := time.Now()
	res = &Result{
		RunID:    uuid.New().String(),
		Elements: make(map[element.Kind]int),
		Rows:     make(map[string]int),
	}
	log.Printf("[info] starting import %s into %s", res.RunID, p.opts.OutputDir)

	w, err := writer.Create(p.opts.OutputDir)
	if err != nil {
		p.state = Aborted
		return nil, err
	}
	res.Files = w.Paths()
	p.state = Streaming

	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
		res.Duration = time.Since(start)
		if err != nil {
			p.state = Aborted
			log.Printf("[error] import %s aborted after %s: %s", res.RunID, res.Duration, err)
			return
		}
		p.state = Closed
		log.Printf("[info] import %s finished in %s", res.RunID, res.Duration)
	}()

	for {
		elem, err := src.Next()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return res, errors.Wrap(err, "reading elements")
		}
		res.Elements[elem.Kind]++
		p.opts.Metrics.AddElement(string(elem.Kind))

		shaped := p.shaper.Shape(elem)
		if shaped == nil {
			continue
		}
		if p.opts.Validate {
			if err := p.opts.Schema.Validate(shaped); err != nil {
				return res, errors.WithMessagef(err, "%s %s", elem.Kind, elem.ID())
			}
		}
		if err := w.Write(shaped); err != nil {
			return res, err
		}
		p.count(res, shaped)
	}
}

func (p *Pipeline) count(res *Result, s *shape.Shaped) {
	add := func(family string, n int) {
		if n == 0 {
			return
		}
		table := writer.Tables[family]
		res.Rows[table] += n
		p.opts.Metrics.AddRows(table, n)
	}
	if s.Node != nil {
		add(shape.FamilyNode, 1)
		add(shape.FamilyNodeTags, len(s.NodeTags))
	}
	if s.Way != nil {
		add(shape.FamilyWay, 1)
		add(shape.FamilyWayNodes, len(s.WayNodes))
		add(shape.FamilyWayTags, len(s.WayTags))
	}
}
