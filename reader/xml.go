package reader

import (
	"encoding/xml"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"

	"github.com/dublinosm/osmcsv/element"
)

// XMLSource is a stream based reader for .osm files. Only the current
// element is kept in memory.
type XMLSource struct {
	r       io.Reader
	decoder *xml.Decoder
	err     error
}

func NewXML(r io.Reader) *XMLSource {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel
	return &XMLSource{r: r, decoder: decoder}
}

// Next returns the next node, way or relation. It returns io.EOF at the
// end of the document and the first error for all following calls.
func (s *XMLSource) Next() (*element.Element, error) {
	if s.err != nil {
		return nil, s.err
	}
	elem, err := s.next()
	if err != nil {
		s.err = err
		return nil, err
	}
	return elem, nil
}

func (s *XMLSource) next() (*element.Element, error) {
	var elem *element.Element
	for {
		token, err := s.decoder.Token()
		if err == io.EOF {
			if elem != nil {
				return nil, errors.Errorf("unexpected end of document in %s", elem)
			}
			return nil, io.EOF
		}
		if err != nil {
			return nil, errors.Wrap(err, "decoding next XML token")
		}

		switch tok := token.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "node", "way", "relation":
				if elem != nil {
					return nil, errors.Errorf("%s nested in %s", tok.Name.Local, elem)
				}
				elem = element.New(element.KindValues[tok.Name.Local])
				for _, attr := range tok.Attr {
					elem.Attrs[attr.Name.Local] = attr.Value
				}
			case "tag":
				if elem == nil {
					continue
				}
				var k, v string
				for _, attr := range tok.Attr {
					if attr.Name.Local == "k" {
						k = attr.Value
					} else if attr.Name.Local == "v" {
						v = attr.Value
					}
				}
				elem.AddTag(k, v)
			case "nd", "member":
				if elem == nil {
					continue
				}
				// refs are kept even if missing, positions must not skip
				ref := ""
				for _, attr := range tok.Attr {
					if attr.Name.Local == "ref" {
						ref = attr.Value
					}
				}
				elem.AddRef(ref)
			default:
				// osm, bounds, changeset, etc.
			}
		case xml.EndElement:
			switch tok.Name.Local {
			case "node", "way", "relation":
				if elem != nil {
					return elem, nil
				}
			}
		}
	}
}

func (s *XMLSource) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
