package foodnotes

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/foodnotes/foodnotes/fetch"
)

// healthCategories maps the client's health categories onto Douguo's
// official category pages. Unmapped categories pass through unchanged.
var healthCategories = map[string]string{
	"减肥":    "美容瘦身",
	"美容":    "养颜",
	"健脾":    "健脾养胃",
	"补钙":    "补钙",
	"提高免疫力": "提高免疫力",
	"清热":    "清热去火",
	"润肺":    "润肺止咳",
	"糖尿病":   "糖尿病",
	"高血压":   "高血压",
}

// searchParams validates the query/page parameters shared by the search
// endpoints. Reports false after writing the error response.
func searchParams(c *gin.Context) (query string, page int, ok bool) {
	query = strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "搜索关键词不能为空"})
		return "", 0, false
	}

	page = 1
	if raw := c.Query("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "页码参数必须是数字"})
			return "", 0, false
		}
		page = parsed
	}
	return query, page, true
}

// HandleSearchNotes handles GET /api/search-notes. Proxies a Baidu note
// search and passes the result HTML through untouched, except when Baidu
// answers with its bot challenge page.
func (s *Server) HandleSearchNotes(c *gin.Context) {
	query, page, ok := searchParams(c)
	if !ok {
		return
	}

	// pd=note selects note-type results, pn pages in steps of 10.
	searchURL := fmt.Sprintf("%s/s?wd=%s&pd=note&rpf=pc&pn=%d",
		s.cfg.Upstreams.Baidu, url.QueryEscape(query), (page-1)*10)

	s.logger.Info("note search", "query", query, "page", page)

	session := s.newSession()
	res, err := session.FetchOK(c.Request.Context(), searchURL, fetch.ProfileBaidu, s.cfg.Timeouts.Search)
	if err != nil {
		if fetch.IsTimeout(err) {
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "请求超时，请稍后重试"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "请求失败: " + err.Error()})
		return
	}

	if strings.Contains(res.Body, "百度安全验证") || strings.Contains(res.Body, "mkdjump") {
		s.logger.Warn("baidu challenge triggered", "query", query)
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "触发百度安全验证",
			"message": "百度检测到自动化请求，请稍后重试",
			"tips": []string{
				"这是百度的反爬虫机制，属于正常现象",
				"请等待1-2分钟后重试",
				"或者直接在浏览器中访问百度搜索",
			},
		})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(res.Body))
}

// HandleSearchRecipes handles GET /api/search-recipes. Douguo's category
// pages double as its search results, so the query goes straight into the
// /caipu/ path.
func (s *Server) HandleSearchRecipes(c *gin.Context) {
	query, page, ok := searchParams(c)
	if !ok {
		return
	}

	recipeURL := fmt.Sprintf("%s/caipu/%s", s.cfg.Upstreams.Douguo, url.PathEscape(query))
	s.logger.Info("recipe search", "query", query, "page", page)

	s.serveDouguoHTML(c, recipeURL, true)
}

// HandleFeaturedRecipes handles GET /api/featured-recipes. Serves the Douguo
// front page.
func (s *Server) HandleFeaturedRecipes(c *gin.Context) {
	s.serveDouguoHTML(c, s.cfg.Upstreams.Douguo+"/", false)
}

// HandleHealthRecipes handles GET /api/health-recipes. An empty category
// serves the curated home page.
func (s *Server) HandleHealthRecipes(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))

	var target string
	if category == "" {
		target = s.cfg.Upstreams.Douguo + "/jingxuan/home"
	} else {
		mapped, found := healthCategories[category]
		if !found {
			mapped = category
		}
		target = fmt.Sprintf("%s/caipu/%s", s.cfg.Upstreams.Douguo, url.PathEscape(mapped))
	}

	s.logger.Info("health recipes", "category", category, "url", target)
	s.serveDouguoHTML(c, target, true)
}

// serveDouguoHTML fetches a Douguo page and passes the HTML through. warm
// controls whether the session picks up front-page cookies first.
func (s *Server) serveDouguoHTML(c *gin.Context, target string, warm bool) {
	ctx := c.Request.Context()
	session := s.newSession()

	if warm {
		session.Warm(ctx, s.cfg.Upstreams.Douguo+"/", fetch.ProfileDouguo, s.cfg.Timeouts.Warmup)
	}

	res, err := session.FetchOK(ctx, target, fetch.ProfileDouguo, s.cfg.Timeouts.Primary)
	if err != nil {
		if fetch.IsTimeout(err) {
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "请求超时，请稍后重试"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "请求失败: " + err.Error()})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(res.Body))
}
