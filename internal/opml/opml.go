// ABOUTME: OPML subscription list model for podcast import and export
// ABOUTME: Outline trees with folders, feed URL extraction, and feed bookkeeping

package opml

import (
	"fmt"
)

// Document is a parsed or generated OPML subscription list
type Document struct {
	Version  string
	Head     Head
	Outlines []Outline
	feedURLs map[string]bool // URL index for O(1) duplicate checks
}

// Head carries OPML head metadata. An empty title stays empty.
type Head struct {
	Title        string
	DateCreated  *string
	DateModified *string
	OwnerName    *string
	OwnerEmail   *string
}

// Outline is a node in the OPML body. Folders have Children and usually no
// XMLURL; leaves have an XMLURL and nil Children.
type Outline struct {
	Text     string
	Title    string
	Type     string
	XMLURL   string
	HTMLURL  string
	Children []Outline
}

// Feed is a convenience struct representing a single feed with folder information
type Feed struct {
	URL    string
	Title  string
	Folder string
}

// NewDocument creates a new empty OPML 2.0 document with the given title
func NewDocument(title string) *Document {
	return &Document{
		Version:  "2.0",
		Head:     Head{Title: title},
		Outlines: []Outline{},
		feedURLs: make(map[string]bool),
	}
}

// Label returns the display label, preferring title over text.
func (o Outline) Label() string {
	if o.Title != "" {
		return o.Title
	}
	return o.Text
}

// IsFolder reports whether the outline has nested outlines.
func (o Outline) IsFolder() bool {
	return len(o.Children) > 0
}

// AllFeedURLs returns the outline's own feed URL followed by every
// descendant's, in document order. Duplicates are kept.
func (o Outline) AllFeedURLs() []string {
	var urls []string
	if o.XMLURL != "" {
		urls = append(urls, o.XMLURL)
	}
	for _, child := range o.Children {
		urls = append(urls, child.AllFeedURLs()...)
	}
	return urls
}

// AllFeedURLs concatenates AllFeedURLs of every top-level outline.
func (d *Document) AllFeedURLs() []string {
	var urls []string
	for _, outline := range d.Outlines {
		urls = append(urls, outline.AllFeedURLs()...)
	}
	return urls
}

// AllFeeds returns a flat list of all feeds in the document with their folder information
func (d *Document) AllFeeds() []Feed {
	feeds := make([]Feed, 0, len(d.Outlines))
	for _, outline := range d.Outlines {
		feeds = append(feeds, collectFeeds(outline, "")...)
	}
	return feeds
}

// Folders returns the labels of all folders in the document, in document order
func (d *Document) Folders() []string {
	var folders []string
	seen := make(map[string]bool)
	var walk func(outlines []Outline)
	walk = func(outlines []Outline) {
		for _, outline := range outlines {
			if outline.XMLURL == "" && outline.IsFolder() {
				if label := outline.Label(); !seen[label] {
					seen[label] = true
					folders = append(folders, label)
				}
			}
			walk(outline.Children)
		}
	}
	walk(d.Outlines)
	return folders
}

// rebuildURLIndex rebuilds the feedURLs map from the current outline structure
func (d *Document) rebuildURLIndex() {
	d.feedURLs = make(map[string]bool)
	for _, url := range d.AllFeedURLs() {
		d.feedURLs[url] = true
	}
}

// AddFeed adds an rss outline, optionally in a folder.
// Returns an error if a feed with the same URL already exists.
func (d *Document) AddFeed(url, title, folder string) error {
	return d.AddOutline(Outline{Text: title, Title: title, Type: "rss", XMLURL: url}, folder)
}

// AddOutline adds a leaf outline at the root or inside a top-level folder,
// creating the folder when needed.
func (d *Document) AddOutline(feed Outline, folder string) error {
	if d.feedURLs == nil {
		d.rebuildURLIndex()
	}
	if d.feedURLs[feed.XMLURL] {
		return fmt.Errorf("feed with URL %s already exists", feed.XMLURL)
	}

	if folder == "" {
		d.Outlines = append(d.Outlines, feed)
	} else {
		folderIndex := -1
		for i, outline := range d.Outlines {
			if outline.Text == folder && outline.XMLURL == "" {
				folderIndex = i
				break
			}
		}

		if folderIndex == -1 {
			d.Outlines = append(d.Outlines, Outline{
				Text:     folder,
				Children: []Outline{feed},
			})
		} else {
			d.Outlines[folderIndex].Children = append(d.Outlines[folderIndex].Children, feed)
		}
	}

	d.feedURLs[feed.XMLURL] = true
	return nil
}

func collectFeeds(outline Outline, folder string) []Feed {
	var feeds []Feed

	if outline.XMLURL != "" {
		feeds = append(feeds, Feed{
			URL:    outline.XMLURL,
			Title:  outline.Label(),
			Folder: folder,
		})
	}

	childFolder := folder
	if outline.XMLURL == "" && outline.IsFolder() {
		childFolder = outline.Label()
	}

	for _, child := range outline.Children {
		feeds = append(feeds, collectFeeds(child, childFolder)...)
	}

	return feeds
}
