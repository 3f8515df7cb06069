package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jaki95/setlist-sync/internal/domain"
	"github.com/jaki95/setlist-sync/internal/progress"
	"github.com/jaki95/setlist-sync/internal/resolver"
)

// SyncService is the orchestrator as seen by the HTTP API.
type SyncService interface {
	UploadSetlistByID(ctx context.Context, id string) error
	ListLegacyItems(ctx context.Context) ([]string, error)
	ListCurrentItems(ctx context.Context) ([]string, error)
	PreviewLegacyItem(ctx context.Context, name string) (*domain.LegacySetlist, error)
	ImportLegacyItem(ctx context.Context, item *domain.LegacySetlist) (*domain.Setlist, resolver.Report, error)
	DownloadAndImportCurrentItem(ctx context.Context, name string) (*domain.Setlist, resolver.Report, error)
	DeleteCurrentItem(ctx context.Context, name string) error
	UploadProgress() *progress.Tracker
	DownloadProgress() *progress.Tracker
}

// Server handles HTTP requests for the sync service
type Server struct {
	svc    SyncService
	router *gin.Engine
}

// New creates a new HTTP server instance
func New(svc SyncService) *Server {
	router := gin.Default()

	server := &Server{
		svc:    svc,
		router: router,
	}

	server.setupRoutes(router)
	return server
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes(router *gin.Engine) {
	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/health", s.health)

	api := router.Group("/api/v1")
	{
		api.GET("/legacy", s.listLegacy)
		api.GET("/legacy/:name", s.previewLegacy)
		api.POST("/legacy/:name/import", s.importLegacy)

		api.GET("/remote", s.listRemote)
		api.POST("/remote/:name/import", s.importRemote)
		api.DELETE("/remote/:name", s.deleteRemote)

		api.POST("/setlists/:id/upload", s.uploadSetlist)

		api.GET("/progress", s.getProgress)
	}
}

// Start starts the HTTP server
func (s *Server) Start(port string) error {
	return s.router.Run(":" + port)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":    "ok",
		"timestamp": time.Now(),
		"service":   "setlist-sync",
	})
}
