package foodnotes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/foodnotes/foodnotes/catalog"
)

// intQuery parses an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

// HandleDishes handles GET /api/dishes.
func (s *Server) HandleDishes(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "数据库不可用",
		})
		return
	}

	q := catalog.DishQuery{
		Limit:  intQuery(c, "limit", catalog.DefaultDishLimit),
		Offset: intQuery(c, "offset", 0),
		Shop:   c.Query("shop"),
		Sort:   catalog.DishSort(c.Query("sort")),
	}

	dishes, err := s.store.ListDishes(q)
	if err != nil {
		s.logger.Error("list dishes failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dishes,
		"count":   len(dishes),
		"limit":   q.Limit,
		"offset":  q.Offset,
	})
}

// HandleShops handles GET /api/shops.
func (s *Server) HandleShops(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "数据库不可用",
		})
		return
	}

	q := catalog.ShopQuery{
		Limit:  intQuery(c, "limit", catalog.DefaultShopLimit),
		Offset: intQuery(c, "offset", 0),
		Sort:   catalog.ShopSort(c.Query("sort")),
	}

	shops, err := s.store.ListShops(q)
	if err != nil {
		s.logger.Error("list shops failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    shops,
		"count":   len(shops),
		"limit":   q.Limit,
		"offset":  q.Offset,
	})
}
