package notes

import "strings"

// ctripExtractor handles Ctrip note pages. The page is a client-rendered
// app, so server-side markup only carries metadata; the result is always
// marked incomplete.
type ctripExtractor struct{}

func (e *ctripExtractor) Extract(body string, ctx Context, note *Note) {
	doc := parseDoc(body)

	note.Source = "携程旅行"
	note.Title = strings.TrimSpace(doc.Find("title").First().Text())

	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok && desc != "" {
		note.Content = desc
	}
	if note.Content == "" {
		note.Content = "该笔记来自携程旅行，为了获得最佳体验，建议前往原网站查看。"
	}
	note.NeedJump = true
}
