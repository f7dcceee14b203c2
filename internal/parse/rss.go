// ABOUTME: Single-pass RSS 2.0 / RSS 1.0 walker over goxpp pull events
// ABOUTME: Accumulates channel and item fields, then finalizes episodes as each item closes

package parse

import (
	"errors"
	"io"
	"strings"

	xpp "github.com/mmcdole/goxpp"
	"golang.org/x/net/html/charset"

	"github.com/harper/podfeed/internal/enclosure"
	"github.com/harper/podfeed/internal/models"
	"github.com/harper/podfeed/internal/timeutil"
)

// Namespace URIs recognised by the walker. Prefixes that were never declared
// are matched by name instead.
const (
	itunesNS  = "http://www.itunes.com/dtds/podcast-1.0.dtd"
	contentNS = "http://purl.org/rss/1.0/modules/content/"
	atomNS    = "http://www.w3.org/2005/atom"
	dcNS      = "http://purl.org/dc/elements/1.1/"
	rdfNS     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	rss10NS   = "http://purl.org/rss/1.0/"
	rss09NS   = "http://my.netscape.com/rdf/simple/0.9/"
)

type field int

const (
	fieldTitle field = iota
	fieldLink
	fieldDescription
	fieldSummary
	fieldContent
	fieldAuthor
	fieldManagingEditor
	fieldGUID
	fieldPubDate
	fieldDuration
	fieldImageURL
	numFields
)

var channelFields = map[string]field{
	"title":          fieldTitle,
	"link":           fieldLink,
	"description":    fieldDescription,
	"itunes:summary": fieldSummary,
	"itunes:author":  fieldAuthor,
	"managingeditor": fieldManagingEditor,
}

var itemFields = map[string]field{
	"title":           fieldTitle,
	"description":     fieldDescription,
	"itunes:summary":  fieldSummary,
	"content:encoded": fieldContent,
	"guid":            fieldGUID,
	"pubdate":         fieldPubDate,
	"dc:date":         fieldPubDate,
	"itunes:duration": fieldDuration,
}

// record holds the first value seen for each field of a channel or item.
type record struct {
	values [numFields]string
	seen   [numFields]bool
}

func (r *record) get(f field) string { return strings.TrimSpace(r.values[f]) }

type itemBuilder struct {
	record
	depth      int
	enclosures []string
	artwork    string
}

// rssWalker is the per-call parse state. Nothing in it is shared between calls.
type rssWalker struct {
	sourceURL string
	sink      models.WarningSink

	stack []string

	sawChannel   bool
	channel      record
	channelImage string
	selfLink     string
	categories   []string

	item     *itemBuilder
	episodes []models.Episode

	capture      *record
	captureField field
	captureText  strings.Builder
	captureDepth int

	categoryDepth int
	categoryText  strings.Builder
}

func parseRSS(r io.Reader, sourceURL string, sink models.WarningSink) (*models.Podcast, error) {
	w := &rssWalker{sourceURL: sourceURL, sink: sink}
	p := xpp.NewXMLPullParser(r, true, charset.NewReaderLabel)

	for {
		event, err := p.Next()
		if err != nil {
			return nil, malformed(err)
		}

		switch event {
		case xpp.StartTag:
			w.start(p)
		case xpp.Text:
			w.text(p.Text)
		case xpp.EndTag:
			w.end()
		case xpp.EndDocument:
			if !w.sawChannel {
				return nil, malformed(errNoChannel)
			}
			return w.finish(), nil
		}
	}
}

var errNoChannel = errors.New("no channel element")

// elementKey lowercases the local name and prefixes known namespaces so
// lookups do not depend on how the document declared them.
func elementKey(space, name string) string {
	name = strings.ToLower(name)
	switch prefix := namespacePrefix(space); prefix {
	case "":
		return name
	default:
		return prefix + ":" + name
	}
}

func namespacePrefix(space string) string {
	s := strings.ToLower(strings.TrimSpace(space))
	switch s {
	case "", rss10NS, rss09NS:
		return ""
	case "itunes", itunesNS:
		return "itunes"
	case "content", contentNS:
		return "content"
	case "atom", atomNS:
		return "atom"
	case "dc", dcNS:
		return "dc"
	case "rdf", rdfNS:
		return "rdf"
	default:
		return s
	}
}

// attr looks up an attribute by local name, ignoring case. The second result
// reports whether the attribute was present at all.
func attr(p *xpp.XMLPullParser, name string) (string, bool) {
	for _, a := range p.Attrs {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value, true
		}
	}
	return "", false
}

func (w *rssWalker) parent() string {
	if len(w.stack) < 2 {
		return ""
	}
	return w.stack[len(w.stack)-2]
}

func (w *rssWalker) inside(key string) bool {
	for i := len(w.stack) - 2; i >= 0; i-- {
		if w.stack[i] == key {
			return true
		}
	}
	return false
}

func (w *rssWalker) start(p *xpp.XMLPullParser) {
	key := elementKey(p.Space, p.Name)
	w.stack = append(w.stack, key)
	depth := len(w.stack)
	parent := w.parent()

	switch {
	case key == "channel" && w.item == nil:
		w.sawChannel = true
		return
	case key == "item" && w.item == nil && (parent == "channel" || parent == "rdf:rdf"):
		w.item = &itemBuilder{depth: depth}
		return
	}

	if w.item != nil {
		w.startItemElement(p, key, parent, depth)
		return
	}
	if w.inside("channel") {
		w.startChannelElement(p, key, parent, depth)
	}
}

func (w *rssWalker) startItemElement(p *xpp.XMLPullParser, key, parent string, depth int) {
	if parent != "item" || depth != w.item.depth+1 {
		return
	}

	switch key {
	case "enclosure":
		if u, ok := attr(p, "url"); ok {
			w.item.enclosures = append(w.item.enclosures, u)
		}
	case "itunes:image":
		if w.item.artwork == "" {
			w.item.artwork = imageHref(p)
		}
	default:
		if f, ok := itemFields[key]; ok {
			w.beginCapture(&w.item.record, f, depth)
		}
	}
}

func (w *rssWalker) startChannelElement(p *xpp.XMLPullParser, key, parent string, depth int) {
	switch {
	case key == "itunes:category":
		if text, ok := attr(p, "text"); ok {
			w.addCategory(text)
		}
	case parent != "channel":
		if key == "url" && parent == "image" && len(w.stack) >= 3 && w.stack[len(w.stack)-3] == "channel" {
			w.beginCapture(&w.channel, fieldImageURL, depth)
		}
	case key == "category":
		w.categoryDepth = depth
		w.categoryText.Reset()
	case key == "itunes:image":
		if w.channelImage == "" {
			w.channelImage = imageHref(p)
		}
	case key == "atom:link":
		if rel, _ := attr(p, "rel"); strings.EqualFold(rel, "self") && w.selfLink == "" {
			w.selfLink, _ = attr(p, "href")
		}
	default:
		if f, ok := channelFields[key]; ok {
			w.beginCapture(&w.channel, f, depth)
		}
	}
}

func imageHref(p *xpp.XMLPullParser) string {
	if href, ok := attr(p, "href"); ok {
		return strings.TrimSpace(href)
	}
	url, _ := attr(p, "url")
	return strings.TrimSpace(url)
}

// beginCapture starts collecting character data for f unless the record
// already has a value for it.
func (w *rssWalker) beginCapture(r *record, f field, depth int) {
	if r.seen[f] || w.capture != nil {
		return
	}
	w.capture = r
	w.captureField = f
	w.captureDepth = depth
	w.captureText.Reset()
}

func (w *rssWalker) text(s string) {
	if w.capture != nil {
		w.captureText.WriteString(s)
	}
	if w.categoryDepth > 0 {
		w.categoryText.WriteString(s)
	}
}

func (w *rssWalker) end() {
	if len(w.stack) == 0 {
		return
	}
	depth := len(w.stack)
	key := w.stack[depth-1]

	if w.capture != nil && depth == w.captureDepth {
		w.capture.values[w.captureField] = w.captureText.String()
		w.capture.seen[w.captureField] = true
		w.capture = nil
	}
	if w.categoryDepth > 0 && depth == w.categoryDepth {
		w.addCategory(w.categoryText.String())
		w.categoryDepth = 0
	}
	if key == "item" && w.item != nil && depth == w.item.depth {
		w.finishItem()
	}

	w.stack = w.stack[:depth-1]
}

func (w *rssWalker) addCategory(s string) {
	if s = strings.TrimSpace(s); s != "" {
		w.categories = append(w.categories, s)
	}
}

func (w *rssWalker) finishItem() {
	b := w.item
	w.item = nil

	title := b.get(fieldTitle)
	if title == "" {
		title = models.UntitledEpisodeTitle
	}

	audio, warnings := enclosure.Resolve(b.enclosures, title)
	for _, warning := range warnings {
		w.sink.Emit(warning)
	}

	ep := models.Episode{
		Title:       title,
		AudioURL:    audio,
		Description: pickDescription(b.get(fieldSummary), b.values[fieldDescription], b.values[fieldContent]),
		ArtworkURL:  optional(b.artwork),
	}
	if secs, ok := timeutil.ParseDuration(b.values[fieldDuration]); ok {
		ep.Duration = &secs
	}
	if t, ok := timeutil.ParsePubDate(b.values[fieldPubDate]); ok {
		ep.PubDate = &t
	}

	ep.ID = b.get(fieldGUID)
	if ep.ID == "" {
		ep.ID = episodeID(w.sourceURL, title, ep.PubDate, len(w.episodes))
	}

	w.episodes = append(w.episodes, ep)
}

func (w *rssWalker) finish() *models.Podcast {
	feedURL := strings.TrimSpace(w.sourceURL)
	if feedURL == "" {
		feedURL = strings.TrimSpace(w.selfLink)
	}
	if feedURL == "" {
		feedURL = w.channel.get(fieldLink)
	}

	podcast := models.NewPodcast(feedURL)
	if title := w.channel.get(fieldTitle); title != "" {
		podcast.Title = title
	}

	podcast.Author = optional(w.channel.get(fieldAuthor))
	if podcast.Author == nil {
		podcast.Author = optional(w.channel.get(fieldManagingEditor))
	}
	podcast.Description = pickDescription(w.channel.get(fieldSummary), w.channel.values[fieldDescription])
	podcast.ArtworkURL = optional(w.channelImage)
	if podcast.ArtworkURL == nil {
		podcast.ArtworkURL = optional(w.channel.get(fieldImageURL))
	}
	podcast.Link = optional(w.channel.get(fieldLink))
	podcast.Categories = w.categories

	podcast.Episodes = w.episodes
	if podcast.Episodes == nil {
		podcast.Episodes = []models.Episode{}
	}
	for i := range podcast.Episodes {
		podcast.Episodes[i].PodcastID = podcast.ID
	}

	return podcast
}
