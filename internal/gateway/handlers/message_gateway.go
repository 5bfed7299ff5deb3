package handlers

import (
	"net/http"

	"syntra-bizops/internal/database/models"
	messages "syntra-bizops/internal/services/messages/handler"

	"github.com/gin-gonic/gin"
)

type MessageHTTPHandler struct {
	svc *messages.MessageHandler
}

func NewMessageHTTPHandler(svc *messages.MessageHandler) *MessageHTTPHandler {
	return &MessageHTTPHandler{svc: svc}
}

// Request structs
type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id" binding:"required"`
	Message    string `json:"message" binding:"required,max=2000"`
	Type       string `json:"type,omitempty" binding:"omitempty,oneof=normal warning"`
}

type ReplyMessageRequest struct {
	ParentID *uint  `json:"parent_id,omitempty" binding:"omitempty,min=1"`
	Message  string `json:"message" binding:"required,max=2000"`
}

type InboxQuery struct {
	Unread bool `form:"unread"`
}

func (h *MessageHTTPHandler) Send(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	msg, err := h.svc.Send(ctx, id, messages.SendInput{
		ReceiverID: req.ReceiverID,
		Body:       req.Message,
		Kind:       models.MessageKind(req.Type),
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Message sent", msg))
}

func (h *MessageHTTPHandler) Reply(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var req ReplyMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	msg, err := h.svc.Reply(ctx, id, messages.ReplyInput{ParentID: req.ParentID, Body: req.Message})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Reply sent", msg))
}

func (h *MessageHTTPHandler) Inbox(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var query InboxQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	inbox, err := h.svc.Inbox(ctx, id, query.Unread)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Inbox retrieved", inbox, listMeta{Count: len(inbox)}))
}

func (h *MessageHTTPHandler) Replies(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	replies, err := h.svc.Replies(ctx, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Replies retrieved", replies, listMeta{Count: len(replies)}))
}

func (h *MessageHTTPHandler) MarkRead(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	messageID, ok := parseID(c, "id", "message")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	msg, err := h.svc.MarkRead(ctx, id, messageID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Message marked read", msg))
}
