package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uxmentor/uxmentor-be/service"
	"github.com/uxmentor/uxmentor-be/types"
)

// ChatHandler answers interview-practice questions with retrieved context.
type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}

	answer, sources, err := h.chatService.Ask(c.Request.Context(), req.Messages)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data: types.ChatResponse{
			Message: answer,
			Sources: sources,
		},
	})
}
