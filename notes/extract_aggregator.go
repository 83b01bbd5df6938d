package notes

import "strings"

// aggregatorExtractor handles Baidu results that redirected to a third-party
// platform we do not deep-extract. It names the platform from a small fixed
// set of domain keywords and always recommends visiting the original page.
type aggregatorExtractor struct{}

func (e *aggregatorExtractor) Extract(body string, ctx Context, note *Note) {
	doc := parseDoc(body)
	note.Title = strings.TrimSpace(doc.Find("title").First().Text())

	switch {
	case strings.Contains(ctx.FinalURL, "ctrip.com"):
		note.Content = "该笔记来自携程旅行，内容丰富多样。"
		note.Source = "百度笔记 → 携程旅行"
	case strings.Contains(ctx.FinalURL, "xiaohongshu.com") || strings.Contains(ctx.FinalURL, "xhslink.com"):
		note.Content = "该笔记来自小红书，内容精彩纷呈。"
		note.Source = "百度笔记 → 小红书"
	default:
		note.Content = "该笔记来自第三方网站。"
		note.Source = "百度笔记"
	}

	note.NeedJump = true
}
