package notes

import "encoding/json"

// dianpingExtractor reads the Next.js state embedded in Dianping note pages.
// The known key path is props.pageProps.feedInfo.
type dianpingExtractor struct{}

type dianpingState struct {
	Props struct {
		PageProps struct {
			FeedInfo struct {
				Title    string `json:"title"`
				Content  string `json:"content"`
				FeedUser struct {
					NickName string `json:"nickName"`
				} `json:"feedUser"`
				FeedPicList []struct {
					URL string `json:"url"`
				} `json:"feedPicList"`
			} `json:"feedInfo"`
		} `json:"pageProps"`
	} `json:"props"`
}

func (e *dianpingExtractor) Extract(body string, ctx Context, note *Note) {
	doc := parseDoc(body)

	script := doc.Find(`script#__NEXT_DATA__[type="application/json"]`).First()
	if script.Length() == 0 {
		note.Error = "无法提取笔记内容"
		note.NeedJump = true
		return
	}

	var state dianpingState
	if err := json.Unmarshal([]byte(script.Text()), &state); err != nil {
		note.Type = SourceParseError
		note.Error = "解析失败: " + err.Error()
		return
	}

	feed := state.Props.PageProps.FeedInfo
	note.Title = feed.Title
	note.Content = feed.Content

	author := feed.FeedUser.NickName
	if author == "" {
		author = "大众点评用户"
	}
	if ctx.FromAggregator {
		note.Source = author + " (百度笔记 → 大众点评)"
	} else {
		note.Source = author
	}

	for _, pic := range feed.FeedPicList {
		if pic.URL != "" {
			note.Images = append(note.Images, pic.URL)
		}
	}
}
