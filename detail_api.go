package foodnotes

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"

	"github.com/foodnotes/foodnotes/fetch"
)

// HandleNoteDetail handles GET /api/note-detail. Runs the note resolution
// pipeline and returns the normalized note as JSON. Degraded notes (parse
// failures, security challenges) still return 200; only the request itself
// failing maps to an error status.
func (s *Server) HandleNoteDetail(c *gin.Context) {
	noteURL := strings.TrimSpace(c.Query("url"))
	if noteURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "笔记URL不能为空"})
		return
	}

	s.logger.Info("note detail", "url", noteURL, "debug", c.Query("debug"))

	note, err := s.pipeline.Resolve(c.Request.Context(), noteURL)
	if err != nil {
		if fetch.IsTimeout(err) {
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "请求超时，请稍后重试",
				"type":  "timeout",
			})
			return
		}
		var statusErr *fetch.StatusError
		if errors.As(err, &statusErr) {
			c.JSON(statusErr.StatusCode, gin.H{
				"error": "请求失败: " + err.Error(),
				"type":  "request_error",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "请求失败: " + err.Error(),
			"type":  "request_error",
		})
		return
	}

	c.JSON(http.StatusOK, note)
}

// HandleRecipeDetail handles GET /api/recipe-detail. Proxies a Douguo recipe
// page; debug=true prepends an HTML comment describing the page structure.
func (s *Server) HandleRecipeDetail(c *gin.Context) {
	recipeURL := strings.TrimSpace(c.Query("url"))
	debugMode := strings.EqualFold(c.Query("debug"), "true")

	if recipeURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "菜谱URL不能为空"})
		return
	}

	// Recipe links scraped from listing pages are relative.
	if !strings.HasPrefix(recipeURL, "http") {
		recipeURL = s.cfg.Upstreams.Douguo + recipeURL
	}

	s.logger.Info("recipe detail", "url", recipeURL, "debug", debugMode)

	ctx := c.Request.Context()
	session := s.newSession()

	s.sleep(s.cfg.Delays.PreWarm)
	session.Warm(ctx, s.cfg.Upstreams.Douguo+"/", fetch.ProfileDouguo, s.cfg.Timeouts.Warmup)
	s.sleep(s.cfg.Delays.PostWarm)

	res, err := session.Fetch(ctx, recipeURL, fetch.ProfileDouguo, s.cfg.Timeouts.Primary)
	if err != nil {
		if fetch.IsTimeout(err) {
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "请求超时，请稍后重试"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "请求失败: " + err.Error()})
		return
	}

	body := res.Body
	if debugMode {
		body = debugComment(recipeURL, res.StatusCode, body) + body
	}

	if res.StatusCode >= 400 {
		snippet := body
		if len(snippet) > 500 {
			snippet = snippet[:500]
		}
		c.JSON(res.StatusCode, gin.H{
			"error": fmt.Sprintf("服务器返回错误: %d", res.StatusCode),
			"html":  snippet,
		})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
}

// debugComment summarizes the structure of a recipe page as an HTML comment,
// used to diagnose selector drift when Douguo changes its markup.
func debugComment(pageURL string, status int, body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return fmt.Sprintf("<!-- 调试信息不可用: %v -->\n", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = "未找到"
	}

	var divClasses []string
	doc.Find("div[class]").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		divClasses = append(divClasses, "  - "+class)
		return i < 9
	})

	var b strings.Builder
	b.WriteString("<!-- ===== 调试信息 =====\n")
	fmt.Fprintf(&b, "URL: %s\n", pageURL)
	fmt.Fprintf(&b, "状态码: %d\n", status)
	fmt.Fprintf(&b, "内容长度: %d\n", len(body))
	fmt.Fprintf(&b, "Title: %s\n\n", title)
	b.WriteString("找到的主要元素:\n")
	fmt.Fprintf(&b, "- h1: %d 个\n", doc.Find("h1").Length())
	fmt.Fprintf(&b, "- .title: %d 个\n", doc.Find(".title").Length())
	fmt.Fprintf(&b, "- img: %d 个\n", doc.Find("img").Length())
	fmt.Fprintf(&b, "- .ings li: %d 个\n", doc.Find(".ings li").Length())
	fmt.Fprintf(&b, "- .steps li: %d 个\n", doc.Find(".steps li").Length())
	fmt.Fprintf(&b, "- .cookstep: %d 个\n\n", doc.Find(".cookstep").Length())
	b.WriteString("前10个div的class:\n")
	b.WriteString(strings.Join(divClasses, "\n"))
	b.WriteString("\n===== 调试信息结束 ===== -->\n")
	return b.String()
}
