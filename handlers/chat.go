package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mridulja/flightbookingagent/models"
	"github.com/mridulja/flightbookingagent/services"
)

// Handler exposes the conversation and booking endpoints.
type Handler struct {
	dialogue *services.DialogueService
	recorder *services.BookingRecorder
	catalog  *services.PriceCatalog
	log      *zap.Logger
}

func New(dialogue *services.DialogueService, recorder *services.BookingRecorder, catalog *services.PriceCatalog, log *zap.Logger) *Handler {
	return &Handler{
		dialogue: dialogue,
		recorder: recorder,
		catalog:  catalog,
		log:      log,
	}
}

// Chat processes one user message for a session
func (h *Handler) Chat(c *gin.Context) {
	var req models.ChatRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.log.Info("chat request",
		zap.String("session_id", req.SessionID),
		zap.Int("message_len", len(req.Message)))

	response, err := h.dialogue.ProcessMessage(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		h.log.Error("error processing message",
			zap.String("session_id", req.SessionID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "I'm sorry, I encountered an error processing your request. Please try again.",
		})
		return
	}

	c.JSON(http.StatusOK, response)
}
