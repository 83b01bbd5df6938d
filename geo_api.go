package foodnotes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodnotes/foodnotes/fetch"
	"github.com/foodnotes/foodnotes/geo"
)

// HandleGeocode handles GET /api/geocode. Reverse-geocodes lat/lon through
// amap. A failure amap itself reports comes back as 400, transport failures
// as 500.
func (s *Server) HandleGeocode(c *gin.Context) {
	lat := c.Query("lat")
	lon := c.Query("lon")

	if lat == "" || lon == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": -1, "message": "缺少经纬度参数"})
		return
	}

	loc, err := s.amap.ReverseGeocode(c.Request.Context(), lat, lon)
	if err != nil {
		var upstream *geo.UpstreamError
		switch {
		case errors.As(err, &upstream):
			c.JSON(http.StatusBadRequest, gin.H{"status": -1, "message": upstream.Message})
		case fetch.IsTimeout(err):
			c.JSON(http.StatusGatewayTimeout, gin.H{"status": -1, "message": "请求超时"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"status": -1, "message": "服务器错误: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, loc)
}

// HandleIPLocation handles GET /api/ip-location. Locates the service's
// egress IP via ip-api.com.
func (s *Server) HandleIPLocation(c *gin.Context) {
	loc, err := s.ipapi.Locate(c.Request.Context())
	if err != nil {
		var upstream *geo.UpstreamError
		switch {
		case errors.As(err, &upstream):
			c.JSON(http.StatusBadRequest, gin.H{"status": -1, "message": upstream.Message})
		case fetch.IsTimeout(err):
			c.JSON(http.StatusGatewayTimeout, gin.H{"status": -1, "message": "请求超时"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"status": -1, "message": "请求失败: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, loc)
}
