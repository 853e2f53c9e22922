package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/romangod6/agency-site/internal/content"
	"github.com/romangod6/agency-site/internal/metrics"
	"github.com/romangod6/agency-site/internal/render"
	"github.com/romangod6/agency-site/internal/sitemap"
	"github.com/romangod6/agency-site/internal/storage"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	port   int
	server *http.Server
}

// Deps groups what the handlers need. Registry and Generator are required.
type Deps struct {
	Registry  *content.Registry
	Generator *sitemap.Generator
	Store     storage.Store
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
	Site      render.Site
	Filename  string
}

func NewServer(port int, deps Deps) *Server {
	router := NewRouter(deps)
	return &Server{
		router: router,
		port:   port,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(deps.Logger))

	// Setup CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	handler := NewHandler(deps)

	router.GET("/sitemap.xml", handler.ServeSitemap)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// Setup routes
	api := router.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		api.GET("/pages", handler.ListPages)

		sm := api.Group("/sitemap")
		{
			sm.GET("/export", handler.ExportSitemap)
			sm.GET("/exports", handler.ListExports)
		}

		cs := api.Group("/consent")
		{
			cs.GET("", handler.GetConsent)
			cs.PUT("", handler.SaveConsent)
			cs.POST("", handler.SaveConsent)
			cs.POST("/actions", handler.ApplyConsentAction)
		}
	}

	// Everything else is a page lookup.
	router.NoRoute(handler.RenderPage)

	return router
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
