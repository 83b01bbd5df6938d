// Package foodnotes implements the HTTP API that fronts the note search,
// note extraction, recipe, geocoding and catalog services.
package foodnotes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodnotes/foodnotes/catalog"
	"github.com/foodnotes/foodnotes/config"
	"github.com/foodnotes/foodnotes/fetch"
	"github.com/foodnotes/foodnotes/geo"
	"github.com/foodnotes/foodnotes/notes"
)

const serviceName = "美食笔记搜索API"

// Server holds the wired dependencies of the HTTP API. The catalog store is
// nil when the database file was absent at startup; the catalog endpoints
// then report storage failure instead of the whole service refusing to boot.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	pipeline *notes.Pipeline
	store    *catalog.Store
	amap     *geo.Amap
	ipapi    *geo.IPAPI

	// newSession builds the outbound client used by the search and recipe
	// handlers. One client per inbound request so upstream cookies never
	// leak between callers.
	newSession func() *fetch.Client
	sleep      func(time.Duration)
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithSessionFactory replaces the outbound client constructor. Used by tests
// to inject stub transports.
func WithSessionFactory(f func() *fetch.Client) ServerOption {
	return func(s *Server) {
		s.newSession = f
	}
}

// WithSleeper replaces the inter-request delay function. Tests pass a no-op.
func WithSleeper(sleep func(time.Duration)) ServerOption {
	return func(s *Server) {
		s.sleep = sleep
	}
}

// WithPipeline replaces the note resolution pipeline.
func WithPipeline(p *notes.Pipeline) ServerOption {
	return func(s *Server) {
		s.pipeline = p
	}
}

// NewServer creates a server. store may be nil.
func NewServer(cfg *config.Config, logger *slog.Logger, store *catalog.Store, opts ...ServerOption) *Server {
	s := &Server{
		cfg:        cfg,
		logger:     logger,
		pipeline:   notes.NewPipeline(cfg, logger),
		store:      store,
		amap:       geo.NewAmap(cfg.AmapKey, cfg.Upstreams.Amap, cfg.Timeouts.Geo, logger),
		ipapi:      geo.NewIPAPI(cfg.Upstreams.IPAPI, cfg.Timeouts.Geo, logger),
		newSession: func() *fetch.Client { return fetch.NewClient(fetch.WithLogger(logger)) },
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetupRouter configures the Gin router with all API routes.
func (s *Server) SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	router.GET("/", s.HandleIndex)

	api := router.Group("/api")
	{
		api.GET("/health", s.HandleHealth)
		api.GET("/search-notes", s.HandleSearchNotes)
		api.GET("/note-detail", s.HandleNoteDetail)
		api.GET("/search-recipes", s.HandleSearchRecipes)
		api.GET("/recipe-detail", s.HandleRecipeDetail)
		api.GET("/featured-recipes", s.HandleFeaturedRecipes)
		api.GET("/health-recipes", s.HandleHealthRecipes)
		api.GET("/geocode", s.HandleGeocode)
		api.GET("/ip-location", s.HandleIPLocation)
		api.GET("/dishes", s.HandleDishes)
		api.GET("/shops", s.HandleShops)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "接口不存在",
		})
	})

	return router
}

// requestLogger tags each request with an ID and logs its outcome.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		s.logger.Info("request",
			"id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// HandleIndex handles GET /. Returns the service banner and endpoint map.
func (s *Server) HandleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": serviceName + "服务正在运行",
		"endpoints": gin.H{
			"/api/health":           "健康检查",
			"/api/search-notes":     "搜索美食笔记",
			"/api/note-detail":      "获取笔记详情",
			"/api/search-recipes":   "搜索菜谱",
			"/api/recipe-detail":    "获取菜谱详情",
			"/api/featured-recipes": "精选菜谱",
			"/api/health-recipes":   "养生菜谱",
			"/api/geocode":          "逆地理编码",
			"/api/ip-location":      "IP定位",
			"/api/dishes":           "菜品列表",
			"/api/shops":            "店铺列表",
		},
	})
}

// HandleHealth handles GET /api/health.
func (s *Server) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
	})
}
