// ABOUTME: OPML serialization and export of subscribed podcasts
// ABOUTME: Writes OPML 2.0 with an XML header so files round-trip through Parse

package opml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/harper/podfeed/internal/models"
)

type opmlXML struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    headXML  `xml:"head"`
	Body    bodyXML  `xml:"body"`
}

type headXML struct {
	Title        string  `xml:"title"`
	DateCreated  *string `xml:"dateCreated,omitempty"`
	DateModified *string `xml:"dateModified,omitempty"`
	OwnerName    *string `xml:"ownerName,omitempty"`
	OwnerEmail   *string `xml:"ownerEmail,omitempty"`
}

type bodyXML struct {
	Outlines []outlineXML `xml:"outline"`
}

type outlineXML struct {
	Text     string       `xml:"text,attr"`
	Title    string       `xml:"title,attr,omitempty"`
	Type     string       `xml:"type,attr,omitempty"`
	XMLURL   string       `xml:"xmlUrl,attr,omitempty"`
	HTMLURL  string       `xml:"htmlUrl,attr,omitempty"`
	Children []outlineXML `xml:"outline,omitempty"`
}

// FromPodcasts builds an export document with one rss outline per podcast.
// Podcasts sharing a feed URL are written once.
func FromPodcasts(title string, podcasts []models.Podcast, now time.Time) *Document {
	doc := NewDocument(title)
	created := now.UTC().Format(time.RFC1123Z)
	doc.Head.DateCreated = &created

	seen := make(map[string]bool, len(podcasts))
	for _, p := range podcasts {
		if p.FeedURL == "" || seen[p.FeedURL] {
			continue
		}
		seen[p.FeedURL] = true
		outline := Outline{
			Text:   p.Title,
			Title:  p.Title,
			Type:   "rss",
			XMLURL: p.FeedURL,
		}
		if p.Link != nil {
			outline.HTMLURL = *p.Link
		}
		doc.Outlines = append(doc.Outlines, outline)
	}
	doc.rebuildURLIndex()
	return doc
}

// Write writes the OPML document to an io.Writer
func (d *Document) Write(w io.Writer) error {
	version := d.Version
	if version == "" {
		version = "2.0"
	}

	opml := opmlXML{
		Version: version,
		Head: headXML{
			Title:        d.Head.Title,
			DateCreated:  d.Head.DateCreated,
			DateModified: d.Head.DateModified,
			OwnerName:    d.Head.OwnerName,
			OwnerEmail:   d.Head.OwnerEmail,
		},
		Body: bodyXML{
			Outlines: make([]outlineXML, len(d.Outlines)),
		},
	}

	for i, outline := range d.Outlines {
		opml.Body.Outlines[i] = convertOutlineToXML(outline)
	}

	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return fmt.Errorf("failed to write XML header: %w", err)
	}

	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(opml); err != nil {
		return fmt.Errorf("failed to encode OPML: %w", err)
	}

	return nil
}

// WriteFile writes the OPML document to a file
func (d *Document) WriteFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := d.Write(file); err != nil {
		return err
	}
	return file.Close()
}

func convertOutlineToXML(o Outline) outlineXML {
	x := outlineXML{
		Text:    o.Text,
		Title:   o.Title,
		Type:    o.Type,
		XMLURL:  o.XMLURL,
		HTMLURL: o.HTMLURL,
	}

	if len(o.Children) > 0 {
		x.Children = make([]outlineXML, len(o.Children))
		for i, child := range o.Children {
			x.Children[i] = convertOutlineToXML(child)
		}
	}

	return x
}
