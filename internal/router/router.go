package router

import (
	"fmt"
	"net/http"
	"time"

	"newsboard/internal/config"
	"newsboard/internal/db"
	"newsboard/internal/handlers"
	"newsboard/internal/logger"
	"newsboard/internal/middleware"
	"newsboard/internal/utils"
	"newsboard/web"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New builds the HTTP engine: middleware, sessions, templates and routes.
// The package DB must be initialized before requests are served.
func New(cfg *config.Config) (*gin.Engine, error) {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.AccessLog(), gin.CustomRecovery(recovered))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	store := cookie.NewStore([]byte(cfg.Session.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(cfg.Session.Name, store))

	renderer, err := loadTemplates(web.Templates)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	r.HTMLRender = renderer

	r.Use(middleware.LoadUser())

	limiter, err := utils.NewLoginLimiter(4096, 5, 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("login limiter: %w", err)
	}

	RegisterRoutes(r, cfg, limiter)
	r.NoRoute(handlers.NotFound)
	return r, nil
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, limiter *utils.LoginLimiter) {
	newsHandler := handlers.NewNewsHandler(cfg.News)
	commentHandler := handlers.NewCommentHandler()
	authHandler := handlers.NewAuthHandler(limiter)

	// news:home, news:detail
	r.GET("/", newsHandler.Home)
	r.GET("/news/:id/", newsHandler.Detail)
	r.POST("/news/:id/", middleware.AuthRequired(), newsHandler.CreateComment)

	// news:edit, news:delete
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/edit_comment/:id/", commentHandler.ShowEdit)
		authorized.POST("/edit_comment/:id/", commentHandler.Update)
		authorized.GET("/delete_comment/:id/", commentHandler.ShowDelete)
		authorized.POST("/delete_comment/:id/", commentHandler.Delete)
	}

	// users:login, users:logout, users:signup
	users := r.Group("/auth")
	{
		users.GET("/login/", authHandler.ShowLogin)
		users.POST("/login/", authHandler.Login)
		users.GET("/logout/", authHandler.Logout)
		users.POST("/logout/", authHandler.Logout)
		users.GET("/signup/", authHandler.ShowSignup)
		users.POST("/signup/", authHandler.Signup)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", health)
}

func health(c *gin.Context) {
	sqlDB, err := db.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		logger.Log.WithError(err).Warn("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func recovered(c *gin.Context, err any) {
	logger.Log.WithFields(logger.Fields{
		"panic":      err,
		"path":       c.Request.URL.Path,
		"request_id": c.GetString(middleware.RequestIDKey),
	}).Error("Panic recovered")
	handlers.RenderError(c, http.StatusInternalServerError, "Something went wrong. Please try again later.")
	c.Abort()
}
