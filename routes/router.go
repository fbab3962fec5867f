package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cppla/linkpost/config"
	"github.com/cppla/linkpost/controllers"
	"github.com/cppla/linkpost/middleware"
	"github.com/cppla/linkpost/services/generator"
	"github.com/cppla/linkpost/storage"
	"github.com/cppla/linkpost/utils"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Config config.AppConfig
	Store  storage.Store
	// DemoUserID is who requests without a bearer token act as.
	DemoUserID string
	Generator  generator.Service
	Cache      *utils.ViewCache // optional
	Signer     *utils.SessionSigner
	States     *utils.StateStore
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(d Deps) *gin.Engine {
	cfg := d.Config
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	accessLog := utils.Logger
	if cfg.GinPath != "" {
		if gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg); err == nil {
			accessLog = gl
		} else {
			utils.Sugar.Warnf("gin access log %s unavailable, using app logger: %v", cfg.GinPath, err)
		}
	}
	r.Use(utils.Ginzap(accessLog, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(accessLog, true))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	configController := controllers.NewConfigController(cfg)
	authController := controllers.NewAuthController(d.Store, d.Signer)
	postController := controllers.NewPostController(d.Store)
	contentController := controllers.NewContentController(d.Store, d.Generator, d.Cache)
	analyticsController := controllers.NewAnalyticsController(d.Store)
	statsController := controllers.NewStatsController(d.Store)
	linkedInController := controllers.NewLinkedInController(d.Store, d.States, cfg)

	api := r.Group("/api")
	api.GET("/health", configController.Health)
	api.POST("/session", authController.CreateSession)
	// the OAuth redirect carries no bearer token; the user comes from the state
	api.GET("/linkedin/callback", linkedInController.Callback)

	// paid model calls share one per-IP bucket
	aiLimit := middleware.NewRateLimiter(cfg.RateLimitPerMinute).Middleware()

	user := api.Group("")
	user.Use(middleware.CurrentUser(d.Store, d.DemoUserID, d.Signer))

	user.GET("/user", authController.Me)
	user.PATCH("/user", authController.UpdateProfile)

	user.POST("/generate-content", aiLimit, contentController.GenerateContent)
	user.POST("/research-trends", aiLimit, contentController.ResearchTrends)
	user.GET("/recommendations", aiLimit, contentController.Recommendations)
	user.GET("/trending-topics", contentController.TrendingTopics)

	user.POST("/posts", postController.CreatePost)
	user.GET("/posts", postController.ListPosts)
	user.GET("/posts/scheduled", postController.ListScheduled)
	user.GET("/posts/recent", postController.ListRecent)
	user.GET("/posts/:id", postController.GetPost)
	user.PATCH("/posts/:id", postController.UpdatePost)
	user.POST("/posts/:id/publish", postController.PublishPost)

	user.GET("/analytics", analyticsController.Latest)
	user.GET("/analytics/history", analyticsController.History)
	user.POST("/analytics", analyticsController.Record)

	user.GET("/stats", statsController.GetStats)

	user.GET("/linkedin/connect", linkedInController.Connect)
	user.POST("/linkedin/disconnect", linkedInController.Disconnect)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
