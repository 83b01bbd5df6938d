package notes

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// baiduExtractor handles Baidu note pages once past the anti-bot gate.
type baiduExtractor struct{}

var baiduContentSelectors = []string{
	".content-article",
	".article-content",
	`[class*="content"]`,
	"article",
	".detail-content",
}

func (e *baiduExtractor) Extract(body string, ctx Context, note *Note) {
	doc := parseDoc(body)

	note.Source = "百度笔记"
	note.Title = firstText(doc, "h1", "title")

	for _, sel := range baiduContentSelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		if content := paragraphText(el); content != "" {
			note.Content = content
			break
		}
		if content := strings.TrimSpace(el.Text()); content != "" {
			note.Content = content
			break
		}
	}

	note.Images = append(note.Images, collectImages(doc, ctx.FinalURL)...)

	if note.Title == "" && note.Content == "" {
		note.NeedJump = true
		note.Error = "内容解析失败，建议前往原网站查看"
	}
}

// imageSkipKeywords drop chrome assets rather than note photos.
var imageSkipKeywords = []string{"icon", "logo", "avatar"}

// collectImages gathers image URLs from all img elements, skipping chrome
// assets and rewriting protocol-relative and root-relative URLs to absolute
// ones using the source's own scheme and host.
func collectImages(doc *goquery.Document, finalURL string) []string {
	base := "https://mbd.baidu.com"
	if u, err := url.Parse(finalURL); err == nil && u.Scheme != "" && u.Host != "" {
		base = u.Scheme + "://" + u.Host
	}

	var images []string
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if src == "" {
			src, _ = img.Attr("data-src")
		}
		if src == "" {
			src, _ = img.Attr("data-original")
		}
		if src == "" {
			return
		}
		for _, kw := range imageSkipKeywords {
			if strings.Contains(src, kw) {
				return
			}
		}
		switch {
		case strings.HasPrefix(src, "//"):
			src = "https:" + src
		case strings.HasPrefix(src, "/"):
			src = base + src
		}
		images = append(images, src)
	})
	return images
}
