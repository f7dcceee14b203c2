// ABOUTME: Streaming OPML reader built on goxpp pull events
// ABOUTME: Recursive descent over head and body; attribute names match case-insensitively

package opml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	xpp "github.com/mmcdole/goxpp"
	"golang.org/x/net/html/charset"
)

var (
	// ErrMalformed is returned for documents that do not tokenize as XML.
	ErrMalformed = errors.New("malformed OPML")
	// ErrNotOPML is returned when the root element is not <opml>. It wraps ErrMalformed.
	ErrNotOPML = fmt.Errorf("%w: root element is not opml", ErrMalformed)
)

// Parse reads an OPML document from r
func Parse(r io.Reader) (*Document, error) {
	p := xpp.NewXMLPullParser(r, true, charset.NewReaderLabel)

	if err := seekRoot(p); err != nil {
		return nil, err
	}
	if !strings.EqualFold(p.Name, "opml") {
		return nil, fmt.Errorf("%w: found <%s>", ErrNotOPML, p.Name)
	}

	doc := &Document{Version: attr(p, "version")}
	if err := parseRoot(p, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := expectEnd(p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	doc.rebuildURLIndex()
	return doc, nil
}

// ParseBytes reads an OPML document from memory
func ParseBytes(data []byte) (*Document, error) {
	return Parse(bytes.NewReader(data))
}

// ParseFile reads OPML data from a file and returns a Document
func ParseFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

func seekRoot(p *xpp.XMLPullParser) error {
	for {
		event, err := p.Next()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		switch event {
		case xpp.StartTag:
			return nil
		case xpp.EndDocument:
			return fmt.Errorf("%w: empty document", ErrMalformed)
		}
	}
}

// expectEnd consumes everything after the root element. Only whitespace,
// comments and processing instructions may follow it.
func expectEnd(p *xpp.XMLPullParser) error {
	for {
		event, err := p.Next()
		if err != nil {
			return err
		}
		switch event {
		case xpp.EndDocument:
			return nil
		case xpp.StartTag:
			return fmt.Errorf("unexpected <%s> after root element", p.Name)
		case xpp.Text:
			if strings.TrimSpace(p.Text) != "" {
				return errors.New("unexpected text after root element")
			}
		}
	}
}

func parseRoot(p *xpp.XMLPullParser, doc *Document) error {
	for {
		event, err := p.Next()
		if err != nil {
			return err
		}

		switch event {
		case xpp.StartTag:
			switch strings.ToLower(p.Name) {
			case "head":
				if err := parseHead(p, &doc.Head); err != nil {
					return err
				}
			case "body":
				outlines, err := parseOutlines(p)
				if err != nil {
					return err
				}
				doc.Outlines = append(doc.Outlines, outlines...)
			default:
				if err := p.Skip(); err != nil {
					return err
				}
			}
		case xpp.EndTag:
			return nil
		case xpp.EndDocument:
			return io.ErrUnexpectedEOF
		}
	}
}

func parseHead(p *xpp.XMLPullParser, head *Head) error {
	for {
		event, err := p.Next()
		if err != nil {
			return err
		}

		switch event {
		case xpp.StartTag:
			name := strings.ToLower(p.Name)
			text, err := readText(p)
			if err != nil {
				return err
			}
			switch name {
			case "title":
				head.Title = strings.TrimSpace(text)
			case "datecreated":
				head.DateCreated = optional(text)
			case "datemodified":
				head.DateModified = optional(text)
			case "ownername":
				head.OwnerName = optional(text)
			case "owneremail":
				head.OwnerEmail = optional(text)
			}
		case xpp.EndTag:
			return nil
		case xpp.EndDocument:
			return io.ErrUnexpectedEOF
		}
	}
}

// parseOutlines reads every <outline> child of the current element. The
// result is nil when there are none.
func parseOutlines(p *xpp.XMLPullParser) ([]Outline, error) {
	var outlines []Outline
	for {
		event, err := p.Next()
		if err != nil {
			return nil, err
		}

		switch event {
		case xpp.StartTag:
			if !strings.EqualFold(p.Name, "outline") {
				if err := p.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			outline, err := parseOutline(p)
			if err != nil {
				return nil, err
			}
			outlines = append(outlines, outline)
		case xpp.EndTag:
			return outlines, nil
		case xpp.EndDocument:
			return nil, io.ErrUnexpectedEOF
		}
	}
}

func parseOutline(p *xpp.XMLPullParser) (Outline, error) {
	outline := Outline{
		Text:    attr(p, "text"),
		Title:   attr(p, "title"),
		Type:    attr(p, "type"),
		XMLURL:  strings.TrimSpace(attr(p, "xmlUrl")),
		HTMLURL: strings.TrimSpace(attr(p, "htmlUrl")),
	}

	children, err := parseOutlines(p)
	if err != nil {
		return Outline{}, err
	}
	outline.Children = children
	return outline, nil
}

// readText collects character data up to the end of the current element.
func readText(p *xpp.XMLPullParser) (string, error) {
	var b strings.Builder
	depth := 1
	for {
		event, err := p.Next()
		if err != nil {
			return "", err
		}
		switch event {
		case xpp.StartTag:
			depth++
		case xpp.EndTag:
			depth--
			if depth == 0 {
				return b.String(), nil
			}
		case xpp.Text:
			b.WriteString(p.Text)
		case xpp.EndDocument:
			return "", io.ErrUnexpectedEOF
		}
	}
}

func attr(p *xpp.XMLPullParser, name string) string {
	for _, a := range p.Attrs {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value
		}
	}
	return ""
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
