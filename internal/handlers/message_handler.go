package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MaekawaAo0604/muscle-SNS/internal/apperrors"
	"github.com/MaekawaAo0604/muscle-SNS/internal/models"
	"github.com/MaekawaAo0604/muscle-SNS/internal/services"
	"github.com/MaekawaAo0604/muscle-SNS/pkg/cloudinary"
)

type MessageHandler struct {
	messages *services.MessageService
	uploader cloudinary.Uploader
}

func NewMessageHandler(messages *services.MessageService, uploader cloudinary.Uploader) *MessageHandler {
	return &MessageHandler{messages: messages, uploader: uploader}
}

// ListMessages returns one page of a match's conversation, oldest first.
func (h *MessageHandler) ListMessages(c echo.Context) error {
	page, limit := pageParams(c, services.DefaultMessagePageSize, 100)
	messages, err := h.messages.ListMessages(c.Param("matchId"), currentUserID(c), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": messages,
		"count":    len(messages),
	})
}

// SendMessage posts a text message into the match.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	message, err := h.messages.SendMessage(c.Param("matchId"), currentUserID(c), req.Content, "")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, message)
}

// SendImageMessage uploads a multipart image to the media CDN and posts it
// as an image message.
func (h *MessageHandler) SendImageMessage(c echo.Context) error {
	if h.uploader == nil {
		return apperrors.Dependency("image uploads are not configured", nil)
	}

	data, err := readImageFile(c, "image")
	if err != nil {
		return err
	}

	url, err := h.uploader.Upload(c.Request().Context(), data, "muscle-matching/messages")
	if err != nil {
		return apperrors.Dependency("failed to upload image", err)
	}

	caption := c.FormValue("content")
	if caption == "" {
		caption = "sent an image"
	}
	message, err := h.messages.SendMessage(c.Param("matchId"), currentUserID(c), caption, url)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, message)
}

// MarkRead marks every message addressed to the current user as read and
// reports how many transitioned.
func (h *MessageHandler) MarkRead(c echo.Context) error {
	count, err := h.messages.MarkRead(c.Param("matchId"), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"updated_count": count})
}

func (h *MessageHandler) UnreadCount(c echo.Context) error {
	count, err := h.messages.UnreadCount(c.Param("matchId"), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"unread_count": count})
}
