package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"photo-gallery/internal/auth"
	"photo-gallery/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users         service.UserService
	gallery       service.GalleryService
	tokens        auth.TokenService
	allowedOrigin string
	logger        *logrus.Logger
}

func NewHandler(users service.UserService, gallery service.GalleryService, tokens auth.TokenService, allowedOrigin string, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:         users,
		gallery:       gallery,
		tokens:        tokens,
		allowedOrigin: allowedOrigin,
		logger:        logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.requestLogger(), h.corsMiddleware())

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API Running")
	})

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		authGroup := api.Group("/auth")
		authGroup.POST("/login", h.login)
		authGroup.POST("/register", h.register)
		authGroup.GET("/verify-token", h.verifyToken)

		images := api.Group("/images")
		images.GET("/all", h.listAllImages)
		images.Use(h.requireAuth())
		images.POST("/upload", h.uploadImages)
		images.GET("", h.listImages)
		images.GET("/:id", h.getImage)
		images.PUT("/:id", h.updateImage)
		images.DELETE("/:id", h.deleteImage)

		api.GET("/storage/objects", h.requireAuth(), h.listObjects)
	}
}

func (h *Handler) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := h.allowedOrigin
		if origin == "" {
			origin = "*"
		}
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		if origin != "*" {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := h.logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request served")
	}
}

func (h *Handler) listObjects(c *gin.Context) {
	objects, err := h.gallery.Objects(c.Request.Context(), callerID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]StorageObjectResponse, len(objects))
	for i := range objects {
		resp[i] = objectToResponse(objects[i])
	}
	c.JSON(http.StatusOK, resp)
}
