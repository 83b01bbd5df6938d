package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractWith(t *testing.T, source SourceType, body string, ctx Context) *Note {
	t.Helper()
	note := newNote(ctx.FinalURL, ctx.OriginalURL)
	note.Type = source
	NewRegistry().Get(source).Extract(body, ctx, note)
	return note
}

func TestDianpingExtract(t *testing.T) {
	body := `<html><head></head><body>
<script id="__NEXT_DATA__" type="application/json">
{"props":{"pageProps":{"feedInfo":{
  "title":"杭州必吃的小笼包",
  "content":"皮薄馅大，汤汁丰富。",
  "feedUser":{"nickName":"吃货小王"},
  "feedPicList":[{"url":"https://img.dianping.com/a.jpg"},{"url":""},{"url":"https://img.dianping.com/b.jpg"}]
}}}}
</script></body></html>`

	note := extractWith(t, SourceDianping, body, Context{FinalURL: "https://m.dianping.com/note/1"})

	assert.Equal(t, SourceDianping, note.Type)
	assert.Equal(t, "杭州必吃的小笼包", note.Title)
	assert.Equal(t, "皮薄馅大，汤汁丰富。", note.Content)
	assert.Equal(t, "吃货小王", note.Source)
	assert.Equal(t, []string{"https://img.dianping.com/a.jpg", "https://img.dianping.com/b.jpg"}, note.Images)
	assert.False(t, note.NeedJump)
	assert.Empty(t, note.Error)
}

func TestDianpingExtractAggregatorAttribution(t *testing.T) {
	body := `<script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{"feedInfo":{"title":"t","content":"c","feedUser":{"nickName":"作者"}}}}}</script>`

	note := extractWith(t, SourceDianping, body, Context{
		FinalURL:       "https://m.dianping.com/note/1",
		OriginalURL:    "https://www.baidu.com/link?url=x",
		FromAggregator: true,
	})

	assert.Equal(t, "作者 (百度笔记 → 大众点评)", note.Source)
}

func TestDianpingExtractParseError(t *testing.T) {
	body := `<script id="__NEXT_DATA__" type="application/json">{not valid json</script>`

	note := extractWith(t, SourceDianping, body, Context{FinalURL: "https://m.dianping.com/note/1"})

	assert.Equal(t, SourceParseError, note.Type)
	assert.Contains(t, note.Error, "解析失败")
}

func TestDianpingExtractScriptMissing(t *testing.T) {
	note := extractWith(t, SourceDianping, "<html><body>no state here</body></html>",
		Context{FinalURL: "https://m.dianping.com/note/1"})

	assert.Equal(t, SourceDianping, note.Type, "missing script is degraded, not a parse error")
	assert.True(t, note.NeedJump)
	assert.Equal(t, "无法提取笔记内容", note.Error)
}

func TestCtripExtract(t *testing.T) {
	body := `<html><head>
<title>西湖一日游攻略</title>
<meta name="description" content="断桥残雪，柳浪闻莺。">
</head><body></body></html>`

	note := extractWith(t, SourceCtrip, body, Context{FinalURL: "https://m.ctrip.com/x/1"})

	assert.Equal(t, "西湖一日游攻略", note.Title)
	assert.Equal(t, "断桥残雪，柳浪闻莺。", note.Content)
	assert.Equal(t, "携程旅行", note.Source)
	assert.True(t, note.NeedJump, "ctrip content is known-incomplete by design")
}

func TestCtripExtractEmptyDescription(t *testing.T) {
	note := extractWith(t, SourceCtrip, "<html><head><title>标题</title></head></html>",
		Context{FinalURL: "https://m.ctrip.com/x/1"})

	assert.Equal(t, "该笔记来自携程旅行，为了获得最佳体验，建议前往原网站查看。", note.Content)
	assert.True(t, note.NeedJump)
}

func TestBaiduExtract(t *testing.T) {
	body := `<html><body>
<h1> 笔记标题 </h1>
<div class="content-article">
  <p>第一段。</p>
  <p>  </p>
  <p>第二段。</p>
</div>
<img src="//img.example.com/a.jpg">
<img src="/static/b.jpg">
<img src="https://cdn.example.com/c.jpg">
<img data-src="/lazy/d.jpg">
<img src="https://cdn.example.com/user-avatar.png">
<img src="/assets/logo.svg">
</body></html>`

	note := extractWith(t, SourceBaidu, body, Context{FinalURL: "https://mbd.baidu.com/note/1"})

	assert.Equal(t, "笔记标题", note.Title)
	assert.Equal(t, "第一段。\n\n第二段。", note.Content)
	assert.Equal(t, "百度笔记", note.Source)
	assert.Equal(t, []string{
		"https://img.example.com/a.jpg",
		"https://mbd.baidu.com/static/b.jpg",
		"https://cdn.example.com/c.jpg",
		"https://mbd.baidu.com/lazy/d.jpg",
	}, note.Images, "avatar and logo URLs are dropped, relative URLs rewritten")
	assert.False(t, note.NeedJump)
}

// TestBaiduExtractFlattenedText verifies the fallback to the element's
// flattened text when a content container has no paragraphs.
func TestBaiduExtractFlattenedText(t *testing.T) {
	body := `<html><body><title>t</title><div class="detail-content">纯文本内容，没有段落。</div></body></html>`

	note := extractWith(t, SourceBaidu, body, Context{FinalURL: "https://mbd.baidu.com/note/1"})

	assert.Equal(t, "纯文本内容，没有段落。", note.Content)
}

func TestBaiduExtractNothingFound(t *testing.T) {
	note := extractWith(t, SourceBaidu, "<html><body></body></html>",
		Context{FinalURL: "https://mbd.baidu.com/note/1"})

	assert.True(t, note.NeedJump)
	assert.Equal(t, "内容解析失败，建议前往原网站查看", note.Error)
	assert.Empty(t, note.Content)
}

func TestAggregatorExtract(t *testing.T) {
	tests := []struct {
		name        string
		finalURL    string
		wantContent string
		wantSource  string
	}{
		{"ctrip", "https://you.ctrip.com/travels/1", "该笔记来自携程旅行，内容丰富多样。", "百度笔记 → 携程旅行"},
		{"xiaohongshu", "https://www.xiaohongshu.com/explore/1", "该笔记来自小红书，内容精彩纷呈。", "百度笔记 → 小红书"},
		{"xhs short link", "https://xhslink.com/abc", "该笔记来自小红书，内容精彩纷呈。", "百度笔记 → 小红书"},
		{"other", "https://example.com/p", "该笔记来自第三方网站。", "百度笔记"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note := extractWith(t, SourceAggregatorRedirect,
				"<html><head><title>页面标题</title></head></html>",
				Context{FinalURL: tt.finalURL, FromAggregator: true})

			assert.Equal(t, "页面标题", note.Title)
			assert.Equal(t, tt.wantContent, note.Content)
			assert.Equal(t, tt.wantSource, note.Source)
			assert.True(t, note.NeedJump)
		})
	}
}

func TestGenericExtract(t *testing.T) {
	body := `<html><body>
<div class="title">通用标题</div>
<article><p>正文一。</p><p>正文二。</p></article>
</body></html>`

	note := extractWith(t, SourceGeneric, body, Context{FinalURL: "https://example.com/p"})

	assert.Equal(t, "通用标题", note.Title)
	assert.Equal(t, "正文一。\n\n正文二。", note.Content)
	assert.Empty(t, note.Images)
	assert.False(t, note.NeedJump)
}

func TestRegistryFallback(t *testing.T) {
	r := NewRegistry()
	require.NotNil(t, r.Get(SourceType("never-registered")))
	assert.IsType(t, &genericExtractor{}, r.Get(SourceType("never-registered")))
	assert.IsType(t, &dianpingExtractor{}, r.Get(SourceDianping))
}
