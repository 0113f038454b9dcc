package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"docanalyzer/internal/transport/http/response"
	"docanalyzer/internal/workspace"
)

// Sender sends a message for analysis.
type Sender interface {
	Send(ctx context.Context, text string) (*workspace.SendResult, error)
}

type ChatHandler struct {
	ws     *workspace.Workspace
	sender Sender
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

func NewChatHandler(ws *workspace.Workspace, sender Sender) *ChatHandler {
	return &ChatHandler{ws: ws, sender: sender}
}

func (h *ChatHandler) History(c *gin.Context) {
	response.OK(c, gin.H{"history": h.ws.History()})
}

func (h *ChatHandler) NewChat(c *gin.Context) {
	session := h.ws.NewChat()
	response.OK(c, gin.H{
		"selection": h.ws.Selection(),
		"session":   session,
	})
}

func (h *ChatHandler) Select(c *gin.Context) {
	if err := h.ws.SelectChat(c.Param("id")); err != nil {
		writeWorkspaceError(c, err)
		return
	}
	response.OK(c, gin.H{
		"selection": h.ws.Selection(),
		"session":   h.ws.CurrentSession(),
	})
}

func (h *ChatHandler) Current(c *gin.Context) {
	data := gin.H{
		"selection": h.ws.Selection(),
		"messages":  h.ws.CurrentMessages(),
		"loading":   h.ws.Loading(),
	}
	if doc := h.ws.CurrentDocument(); doc != nil {
		data["document"] = doc
	}
	response.OK(c, data)
}

// SendMessage answers 202: the reply arrives later in the session the
// message was sent from.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	res, err := h.sender.Send(c.Request.Context(), req.Content)
	if err != nil {
		writeWorkspaceError(c, err)
		return
	}

	response.Accepted(c, gin.H{
		"session_id":      res.SessionID,
		"message":         res.Message,
		"request_id":      res.Request.RequestID,
		"created_session": res.CreatedSession,
	})
}

func (h *ChatHandler) Notices(c *gin.Context) {
	response.OK(c, gin.H{"notices": h.ws.Notices(true)})
}
