package controller

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agentciril/portfolio-chat/models"
	"github.com/agentciril/portfolio-chat/services"
	"github.com/agentciril/portfolio-chat/store"
)

// Recent turns included in the prompt. Bounded so history never crowds out
// the retrieved context.
const promptHistoryLimit = 10

const emptyMessageReply = "I didn't receive a message. Could you please try again?"

// ChatController handles the chat and history endpoints. It orchestrates the
// retrieval -> context -> generation pipeline and records the exchange both
// in the transcript store and in the corpus for future retrieval.
type ChatController struct {
	retrieval services.RetrievalService
	generator services.GenerateService
	ingest    services.IngestService
	profiles  *store.ProfileStore
	messages  *store.MessageStore
	logger    *zap.Logger
}

func NewChatController(
	retrieval services.RetrievalService,
	generator services.GenerateService,
	ingest services.IngestService,
	profiles *store.ProfileStore,
	messages *store.MessageStore,
	logger *zap.Logger,
) *ChatController {
	return &ChatController{
		retrieval: retrieval,
		generator: generator,
		ingest:    ingest,
		profiles:  profiles,
		messages:  messages,
		logger:    logger,
	}
}

// Chat is the handler for POST /api/v1/chat. Pipeline failures degrade to
// apology text inside the services; this handler only fails on malformed
// request bodies.
func (c *ChatController) Chat(ctx *gin.Context) {
	start := time.Now()

	var req models.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		ctx.JSON(http.StatusOK, models.ChatResponse{Response: emptyMessageReply, QueryTimeMs: 0})
		return
	}

	reqCtx := ctx.Request.Context()
	c.logger.Info("chat request received",
		zap.String("visitor_id", req.VisitorID),
		zap.String("target_user_id", req.TargetUserID))

	opts := services.DefaultQueryOptions()
	opts.UserID = req.TargetUserID
	opts.VisitorID = req.VisitorID
	results := c.retrieval.Query(reqCtx, req.Message, opts)

	profile, err := c.profiles.Get(reqCtx, req.TargetUserID)
	if err != nil {
		c.logger.Warn("could not load profile, responses will be generic", zap.Error(err))
		profile = nil
	}

	history, err := c.messages.History(reqCtx, promptHistoryLimit, req.VisitorID, req.TargetUserID)
	if err != nil {
		c.logger.Warn("could not load chat history", zap.Error(err))
		history = nil
	}
	reverseHistory(history)

	answer := c.generator.GenerateResponse(reqCtx, req.Message,
		services.BuildPromptContext(results, profile, history))

	msg := models.ChatMessage{
		ID:           uuid.New().String(),
		Message:      req.Message,
		Sender:       models.SenderUser,
		Response:     answer,
		VisitorID:    req.VisitorID,
		VisitorName:  req.VisitorName,
		TargetUserID: req.TargetUserID,
		Timestamp:    time.Now().UTC(),
	}
	if err := c.messages.Log(reqCtx, msg); err != nil {
		c.logger.Error("failed to log chat message", zap.Error(err))
	}

	ownerID := req.TargetUserID
	if ownerID == "" && profile != nil {
		ownerID = profile.UserID
	}
	c.ingest.IngestConversation(reqCtx, req.Message, answer, req.VisitorID, msg.ID, ownerID)

	ctx.JSON(http.StatusOK, models.ChatResponse{
		Response:    answer,
		QueryTimeMs: float64(time.Since(start)) / float64(time.Millisecond),
	})
}

// History is the handler for GET /api/v1/history.
func (c *ChatController) History(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	items, err := c.messages.History(ctx.Request.Context(), limit,
		ctx.Query("visitor_id"), ctx.Query("target_user_id"))
	if err != nil {
		c.logger.Error("failed to fetch chat history", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get chat history"})
		return
	}
	ctx.JSON(http.StatusOK, models.ChatHistoryResponse{History: items, Count: len(items)})
}

// reverseHistory flips newest-first storage order into the chronological
// order the prompt expects.
func reverseHistory(items []models.ChatHistoryItem) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}
