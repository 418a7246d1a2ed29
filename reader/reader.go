// Package reader streams raw OSM elements from XML and PBF files.
package reader

import (
	"compress/bzip2"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"

	"github.com/dublinosm/osmcsv/element"
)

// Source returns the elements of an OSM document in document order.
// Next returns io.EOF after the last element.
type Source interface {
	Next() (*element.Element, error)
	Close() error
}

type Format string

const (
	XML Format = "xml"
	PBF Format = "pbf"
)

type Options struct {
	// Progress shows a progress bar of the bytes read on stderr.
	Progress bool
	// Format overrides the format detection by file extension.
	Format Format
	// Typed decodes XML into github.com/paulmach/osm objects. Tags are
	// unchanged, attributes are reformatted, see ScannerSource.
	Typed bool
}

// DetectFormat returns the format and the compression suffix of filename.
// dublin.osm.bz2 is (XML, ".bz2"), dublin.osm.pbf is (PBF, "").
func DetectFormat(filename string) (Format, string) {
	ext := strings.ToLower(filepath.Ext(filename))
	compression := ""
	switch ext {
	case ".gz", ".bz2", ".zst", ".xz", ".lz4":
		compression = ext
		filename = strings.TrimSuffix(filename, filepath.Ext(filename))
		ext = strings.ToLower(filepath.Ext(filename))
	}
	if ext == ".pbf" {
		return PBF, compression
	}
	return XML, compression
}

// Open opens filename and returns a Source for its format. Compressed
// files are decompressed on the fly.
func Open(filename string, opts Options) (Source, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	var r io.ReadCloser = f
	if opts.Progress {
		r, err = wrapProgress(f)
		if err != nil {
			f.Close()
			return nil, err
		}
	}

	format, compression := DetectFormat(filename)
	if opts.Format != "" {
		format = opts.Format
	}
	dr, err := decompress(r, compression)
	if err != nil {
		r.Close()
		return nil, errors.Wrapf(err, "opening %s", filename)
	}
	if format == PBF {
		return NewPBF(dr), nil
	}
	if opts.Typed {
		return NewTypedXML(dr), nil
	}
	return NewXML(dr), nil
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error {
	return r.close()
}

func decompress(r io.ReadCloser, compression string) (io.ReadCloser, error) {
	switch compression {
	case "":
		return r, nil
	case ".gz":
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return readCloser{gr, func() error {
			gr.Close()
			return r.Close()
		}}, nil
	case ".bz2":
		return readCloser{bzip2.NewReader(r), r.Close}, nil
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return readCloser{zr, func() error {
			zr.Close()
			return r.Close()
		}}, nil
	case ".xz":
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, err
		}
		return readCloser{xr, r.Close}, nil
	case ".lz4":
		return readCloser{lz4.NewReader(r), r.Close}, nil
	}
	return nil, errors.Errorf("unknown compression %s", compression)
}
