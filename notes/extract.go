package notes

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Context carries the per-request facts a strategy needs beyond the body.
type Context struct {
	FinalURL    string
	OriginalURL string
	// FromAggregator is true when the original URL belonged to the Baidu
	// family; it changes the attribution string for some sources.
	FromAggregator bool
}

// Extractor pulls title, content, images and attribution out of fetched
// markup for one source type. Strategies must tolerate partial data and
// record failures in the note instead of returning errors.
type Extractor interface {
	Extract(body string, ctx Context, note *Note)
}

// Registry maps source types to extraction strategies with a generic
// fallback. Adding a site means registering one new strategy.
type Registry struct {
	fallback   Extractor
	strategies map[SourceType]Extractor
}

// NewRegistry returns a registry with all built-in strategies registered.
func NewRegistry() *Registry {
	r := &Registry{
		fallback:   &genericExtractor{},
		strategies: make(map[SourceType]Extractor),
	}
	r.Register(SourceDianping, &dianpingExtractor{})
	r.Register(SourceCtrip, &ctripExtractor{})
	r.Register(SourceBaidu, &baiduExtractor{})
	r.Register(SourceAggregatorRedirect, &aggregatorExtractor{})
	return r
}

// Register adds or replaces the strategy for a source type.
func (r *Registry) Register(t SourceType, e Extractor) {
	r.strategies[t] = e
}

// Get returns the strategy for a source type, falling back to the generic
// strategy when none is registered.
func (r *Registry) Get(t SourceType) Extractor {
	if e, ok := r.strategies[t]; ok {
		return e
	}
	return r.fallback
}

// parseDoc parses body into a goquery document. goquery only fails on reader
// errors, which strings.NewReader never produces, so the error is dropped.
func parseDoc(body string) *goquery.Document {
	doc, _ := goquery.NewDocumentFromReader(strings.NewReader(body))
	return doc
}

// firstText returns the trimmed text of the first element matching any of
// the selectors, in order.
func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if s := strings.TrimSpace(doc.Find(sel).First().Text()); s != "" {
			return s
		}
	}
	return ""
}

// paragraphText joins the non-empty paragraph texts of el with blank lines.
// Returns "" when el has no paragraphs with text.
func paragraphText(el *goquery.Selection) string {
	var parts []string
	el.Find("p").Each(func(_ int, p *goquery.Selection) {
		if t := strings.TrimSpace(p.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n\n")
}

// genericExtractor is the best-effort strategy for unrecognized hosts.
type genericExtractor struct{}

var genericContentSelectors = []string{".content", ".article-content", "article", ".detail-content"}

func (e *genericExtractor) Extract(body string, ctx Context, note *Note) {
	doc := parseDoc(body)

	note.Title = firstText(doc, "h1", ".title")

	for _, sel := range genericContentSelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		if content := paragraphText(el); content != "" {
			note.Content = content
			break
		}
	}
}
