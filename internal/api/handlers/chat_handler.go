package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/medstock/backend-go/internal/ai"
)

type ChatHandler struct {
	agent *ai.Agent
}

func NewChatHandler(agent *ai.Agent) *ChatHandler {
	return &ChatHandler{agent: agent}
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

// Chat answers a natural-language inventory question via the tool-calling
// agent.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	answer, err := h.agent.Chat(c.Request.Context(), req.Message)
	if err != nil {
		log.Error().Err(err).Msg("chat request failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "assistant is unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
