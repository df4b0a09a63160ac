package delivery

import (
	"net/http"
	"strconv"

	messagedomain "workmind-backend/internal/message/domain"
	"workmind-backend/internal/message/usecase"

	"github.com/gin-gonic/gin"
)

// MessageHandler handles message sync and search HTTP requests. It serves
// both pipelines: the plaintext one and, when configured, the encrypted one,
// selected per request with ?encrypted=true.
type MessageHandler struct {
	plainUsecase     usecase.MessageUsecase
	encryptedUsecase usecase.MessageUsecase // nil when no encryption key is configured
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(plain, encrypted usecase.MessageUsecase) *MessageHandler {
	return &MessageHandler{
		plainUsecase:     plain,
		encryptedUsecase: encrypted,
	}
}

// variant resolves which pipeline a request targets. Returns nil after
// writing the error response when the encrypted pipeline is not configured.
func (h *MessageHandler) variant(c *gin.Context) usecase.MessageUsecase {
	if c.Query("encrypted") != "true" {
		return h.plainUsecase
	}
	if h.encryptedUsecase == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "encrypted indexing is not configured (set MESSAGE_ENCRYPTION_KEY)"})
		return nil
	}
	return h.encryptedUsecase
}

// Sync runs a full incremental sync
// POST /api/messages/sync?threads=true&limit=500&encrypted=false
func (h *MessageHandler) Sync(c *gin.Context) {
	uc := h.variant(c)
	if uc == nil {
		return
	}

	opts := usecase.SyncOptions{
		WithThreads: c.DefaultQuery("threads", "true") == "true",
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			opts.MessageLimit = parsed
		}
	}

	report, err := uc.SyncAll(c.Request.Context(), opts)
	if err != nil {
		// The partial report still tells the caller what completed
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "report": report})
		return
	}

	c.JSON(http.StatusOK, report)
}

// Search runs a filtered semantic search
// GET /api/messages/search?q=budget&limit=10&channel=C1&min_score=0.3&from=1712000000&to=1713000000
func (h *MessageHandler) Search(c *gin.Context) {
	uc := h.variant(c)
	if uc == nil {
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	opts := messagedomain.SearchOptions{
		Channel: c.Query("channel"),
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && limit > 0 {
		opts.Limit = limit
	}
	if minScore, err := strconv.ParseFloat(c.Query("min_score"), 64); err == nil {
		opts.MinScore = minScore
	}
	if from, err := strconv.ParseFloat(c.Query("from"), 64); err == nil {
		opts.FromTS = from
	}
	if to, err := strconv.ParseFloat(c.Query("to"), 64); err == nil {
		opts.ToTS = to
	}

	results, err := uc.Search(c.Request.Context(), query, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"results": results,
		"total":   len(results),
	})
}

// Context returns the messages around a given timestamp in a channel
// GET /api/messages/context?channel=C1&ts=1712345678.000100&window=30
func (h *MessageHandler) Context(c *gin.Context) {
	uc := h.variant(c)
	if uc == nil {
		return
	}

	channelID := c.Query("channel")
	centerTS := c.Query("ts")
	if channelID == "" || centerTS == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameters 'channel' and 'ts' are required"})
		return
	}

	window := 30
	if parsed, err := strconv.Atoi(c.Query("window")); err == nil && parsed > 0 {
		window = parsed
	}

	messages, err := uc.Context(c.Request.Context(), channelID, centerTS, window)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"channel":  channelID,
		"center":   centerTS,
		"window":   window,
		"messages": messages,
		"total":    len(messages),
	})
}

// Status reports sync checkpoints and index size
// GET /api/messages/status
func (h *MessageHandler) Status(c *gin.Context) {
	uc := h.variant(c)
	if uc == nil {
		return
	}

	status, err := uc.Status(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, status)
}

// ResetState deletes the sync checkpoint so the next run refetches everything
// DELETE /api/messages/state
func (h *MessageHandler) ResetState(c *gin.Context) {
	uc := h.variant(c)
	if uc == nil {
		return
	}

	if err := uc.Reset(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "sync state reset"})
}
