package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pix-api/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	tokenServ *service.TokenService,
	authH *AuthHandler,
	albumH *AlbumHandler,
	imageH *ImageHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y CORS con credenciales
	// para el frontend en otro origen.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, "<h1>Welcome to Google OAuth</h1>")
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Rutas publicas de autenticacion.
	r.GET("/auth/google", authH.GoogleLogin)
	r.GET("/auth/google/callback", authH.GoogleCallback)
	r.POST("/auth/logout", authH.Logout)

	// Rutas protegidas por la cookie de sesión.
	authed := r.Group("/")
	authed.Use(SessionAuthMiddleware(tokenServ))

	authed.GET("/user/profile", authH.Profile)
	authed.GET("/users", authH.ListUsers)

	authed.POST("/albums", albumH.CreateAlbum)
	authed.GET("/albums", albumH.ListAlbums)
	authed.PUT("/albums/:albumId", albumH.UpdateAlbum)
	authed.POST("/albums/:albumId/share", albumH.ShareAlbum)
	authed.DELETE("/albums/:albumId", albumH.DeleteAlbum)

	authed.POST("/albums/:albumId/images", imageH.UploadImage)
	authed.GET("/albums/:albumId/images", imageH.ListImages)
	authed.GET("/albums/:albumId/images/favorites", imageH.ListFavorites)
	authed.GET("/albums/:albumId/images/by-tag", imageH.ListByTag)
	authed.PUT("/albums/:albumId/images/:imageId/favorite", imageH.ToggleFavorite)
	authed.POST("/albums/:albumId/images/:imageId/comments", imageH.AddComment)
	authed.DELETE("/albums/:albumId/images/:imageId", imageH.DeleteImage)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
