package http

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sharechat/sharechat-server/internal/core"
	"github.com/sharechat/sharechat-server/internal/files"
	"github.com/sharechat/sharechat-server/internal/metrics"
)

// FileHandlers provides the shared-file and chat-image upload endpoints.
// Mutating operations conclude with a files:update broadcast so every
// connected client refreshes its file listing.
type FileHandlers struct {
	storage  *files.Storage
	hub      *core.Hub
	maxBytes int64
	log      *zerolog.Logger
}

// NewFileHandlers creates a new file handlers instance.
func NewFileHandlers(storage *files.Storage, hub *core.Hub, maxBytes int64, logger *zerolog.Logger) *FileHandlers {
	return &FileHandlers{storage: storage, hub: hub, maxBytes: maxBytes, log: logger}
}

// UploadResponse is the body for POST /api/upload.
type UploadResponse struct {
	OK   bool   `json:"ok"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// ChatImageResponse is the body for POST /api/upload-chat-image. URL is what
// clients put into a message's image field.
type ChatImageResponse struct {
	OK   bool   `json:"ok"`
	URL  string `json:"url"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	Mime string `json:"mime"`
}

// FileEntry describes one shared file in list responses.
type FileEntry struct {
	Name  string `json:"name"`
	Size  int64  `json:"size"`
	MTime int64  `json:"mtime"`
}

// FileListResponse is the body for GET /api/files.
type FileListResponse struct {
	OK    bool        `json:"ok"`
	Files []FileEntry `json:"files"`
}

// Upload handles POST /api/upload (multipart field "file").
func (h *FileHandlers) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no file"})
		return
	}
	if header.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "file too large"})
		return
	}

	src, err := header.Open()
	if err != nil {
		h.log.Error().Err(err).Msg("open uploaded file")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	defer src.Close()

	entry, err := h.storage.SaveFile(header.Filename, src)
	if err != nil {
		h.log.Error().Err(err).Str("name", header.Filename).Msg("save upload")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	metrics.UploadsTotal.Inc()
	h.notifyFilesUpdated(c)
	h.log.Info().Str("name", entry.Name).Int64("size", entry.Size).Msg("file uploaded")
	c.JSON(http.StatusOK, UploadResponse{OK: true, Name: entry.Name, Size: entry.Size})
}

// UploadChatImage handles POST /api/upload-chat-image (multipart field
// "image"). Only image/* uploads are accepted; stored chat images are not
// part of the shared-files listing.
func (h *FileHandlers) UploadChatImage(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no file"})
		return
	}
	mime := header.Header.Get("Content-Type")
	if !strings.HasPrefix(mime, "image/") {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "only image uploads are allowed for chat"})
		return
	}
	if header.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "file too large"})
		return
	}

	src, err := header.Open()
	if err != nil {
		h.log.Error().Err(err).Msg("open uploaded image")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	defer src.Close()

	entry, err := h.storage.SaveChatImage(header.Filename, src)
	if err != nil {
		h.log.Error().Err(err).Str("name", header.Filename).Msg("save chat image")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	metrics.UploadsTotal.Inc()
	c.JSON(http.StatusOK, ChatImageResponse{
		OK:   true,
		URL:  "/uploads/chat/" + url.PathEscape(entry.Name),
		Name: header.Filename,
		Size: entry.Size,
		Mime: mime,
	})
}

// List handles GET /api/files.
func (h *FileHandlers) List(c *gin.Context) {
	entries, err := h.storage.List()
	if err != nil {
		h.log.Error().Err(err).Msg("list files")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	out := make([]FileEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, FileEntry{Name: e.Name, Size: e.Size, MTime: e.MTime})
	}
	c.JSON(http.StatusOK, FileListResponse{OK: true, Files: out})
}

// DeleteAll handles DELETE /api/files.
func (h *FileHandlers) DeleteAll(c *gin.Context) {
	deleted, err := h.storage.DeleteAll()
	if err != nil {
		h.log.Error().Err(err).Msg("delete all files")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	h.notifyFilesUpdated(c)
	c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": deleted})
}

// Delete handles DELETE /api/files/:name.
func (h *FileHandlers) Delete(c *gin.Context) {
	if err := h.storage.Delete(c.Param("name")); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
			return
		}
		h.log.Error().Err(err).Str("name", c.Param("name")).Msg("delete file")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	h.notifyFilesUpdated(c)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Preview handles GET /preview/:name, streaming text files as UTF-8 plain
// text.
func (h *FileHandlers) Preview(c *gin.Context) {
	src, err := h.storage.Preview(c.Param("name"))
	if err != nil {
		if errors.Is(err, files.ErrUnsupportedPreview) {
			c.String(http.StatusUnsupportedMediaType, "Unsupported preview")
			return
		}
		if errors.Is(err, os.ErrNotExist) {
			c.String(http.StatusNotFound, "Not found")
			return
		}
		h.log.Error().Err(err).Str("name", c.Param("name")).Msg("open preview")
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}
	defer src.Close()

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, src)
}

func (h *FileHandlers) notifyFilesUpdated(c *gin.Context) {
	if err := h.hub.NotifyFilesUpdated(c.Request.Context()); err != nil {
		h.log.Warn().Err(err).Msg("files update broadcast failed")
	}
}
