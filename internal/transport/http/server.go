package http

import (
	stdhttp "net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sharechat/sharechat-server/internal/allowlist"
	"github.com/sharechat/sharechat-server/internal/config"
	"github.com/sharechat/sharechat-server/internal/core"
	"github.com/sharechat/sharechat-server/internal/files"
	"github.com/sharechat/sharechat-server/internal/metrics"
)

// NewServer builds the HTTP server: REST surface, realtime endpoint, static
// directories and the metrics handler, all behind the IP allowlist.
func NewServer(hub *core.Hub, guard *allowlist.Guard, storage *files.Storage, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))
	router.Use(AllowlistMiddleware(guard, logger))
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	chats := NewChatHandlers(hub, logger)
	uploads := NewFileHandlers(storage, hub, cfg.MaxUploadBytes, logger)

	router.GET("/api/health", healthHandler)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, logger)))

	api := router.Group("/api")
	{
		api.GET("/chats", chats.List)
		api.POST("/chats", chats.Create)
		api.DELETE("/chats/:id", chats.Delete)
		api.DELETE("/chats/:id/messages", chats.ClearMessages)

		api.POST("/upload", uploads.Upload)
		api.POST("/upload-chat-image", uploads.UploadChatImage)
		api.GET("/files", uploads.List)
		api.DELETE("/files", uploads.DeleteAll)
		api.DELETE("/files/:name", uploads.Delete)
	}
	router.GET("/preview/:name", uploads.Preview)

	router.Static("/public", cfg.PublicDir)
	router.Static("/uploads", cfg.UploadsDir)
	if index := filepath.Join(cfg.PublicDir, "index.html"); fileExists(index) {
		router.StaticFile("/", index)
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(stdhttp.StatusOK, gin.H{"ok": true})
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
