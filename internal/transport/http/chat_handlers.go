package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sharechat/sharechat-server/internal/core"
)

// ErrorResponse is the common error body for REST endpoints.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// ChatHandlers provides the chat administration endpoints. Every operation
// routes through the hub so it serializes with realtime commands and ends in
// a broadcast keeping all connected clients consistent.
type ChatHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewChatHandlers creates a new chat handlers instance.
func NewChatHandlers(hub *core.Hub, logger *zerolog.Logger) *ChatHandlers {
	return &ChatHandlers{hub: hub, log: logger}
}

// ChatListResponse is the body for GET /api/chats.
type ChatListResponse struct {
	OK    bool    `json:"ok"`
	Chats []int64 `json:"chats"`
}

// CreateChatResponse is the body for POST /api/chats.
type CreateChatResponse struct {
	OK bool  `json:"ok"`
	ID int64 `json:"id"`
}

// List handles GET /api/chats.
func (h *ChatHandlers) List(c *gin.Context) {
	ids, err := h.hub.ListChats(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list chats")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ChatListResponse{OK: true, Chats: ids})
}

// Create handles POST /api/chats.
func (h *ChatHandlers) Create(c *gin.Context) {
	id, err := h.hub.CreateChat(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to create chat")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	h.log.Info().Int64("chat_id", id).Msg("chat created")
	c.JSON(http.StatusCreated, CreateChatResponse{OK: true, ID: id})
}

// Delete handles DELETE /api/chats/:id. Deleting an unknown chat succeeds;
// deleting the last chat leaves the default chat 1 recreated empty.
func (h *ChatHandlers) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "bad id"})
		return
	}
	if err := h.hub.DeleteChat(c.Request.Context(), id); err != nil {
		h.log.Error().Err(err).Int64("chat_id", id).Msg("failed to delete chat")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	h.log.Info().Int64("chat_id", id).Msg("chat deleted")
	c.Status(http.StatusNoContent)
}

// ClearMessages handles DELETE /api/chats/:id/messages. The chat is created
// first when absent, so clearing never fails for a missing id.
func (h *ChatHandlers) ClearMessages(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "bad id"})
		return
	}
	if err := h.hub.ClearChat(c.Request.Context(), id); err != nil {
		h.log.Error().Err(err).Int64("chat_id", id).Msg("failed to clear chat")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	h.log.Info().Int64("chat_id", id).Msg("chat cleared")
	c.Status(http.StatusNoContent)
}
