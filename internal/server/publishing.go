package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/powo1/aetherpress/backend/internal/content"
	"go.uber.org/zap"
)

const (
	previewImageQuery = "example query"
	testDatabaseKey   = "testKey"
	testDatabaseValue = "This is a test value"
	pdfContentType    = "application/pdf"
	htmlContentType   = "text/html; charset=utf-8"
)

const (
	messagePromptRequired   = "Prompt is required and must be a non-empty string."
	messagePromptFailed     = "AI processing failed. Please try again later."
	messageNoPreview        = "No content found. Please submit a prompt first."
	messagePreviewFailed    = "Preview generation failed. Please try again later."
	messageNoExport         = "No content found to export. Please submit a prompt first."
	messageExportFailed     = "PDF generation failed. Please try again later."
	messageOverrideRequired = "Both content and override are required and must be non-empty strings."
	messageTestDatabaseOK   = "Database test successful"
	messageTestFetchFailed  = "Failed to fetch from database"
	messageTestFailed       = "Database operation failed."
)

type promptRequestPayload struct {
	Prompt string `json:"prompt"`
}

type overrideRequestPayload struct {
	Content  string `json:"content"`
	Override string `json:"override"`
}

func (h *httpHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *httpHandler) handlePrompt(c *gin.Context) {
	var request promptRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.Prompt) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": messagePromptRequired})
		return
	}

	generated, err := h.generator.GenerateText(c.Request.Context(), request.Prompt)
	if err != nil {
		h.logger.Error("content generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": messagePromptFailed})
		return
	}
	if err := h.contentStore.Save(c.Request.Context(), content.LatestGeneratedKey, generated); err != nil {
		h.logger.Error("failed to store generated content", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": messagePromptFailed})
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": generated})
}

func (h *httpHandler) handlePreview(c *gin.Context) {
	stored, found, err := h.contentStore.Fetch(c.Request.Context(), content.LatestGeneratedKey)
	if err != nil {
		h.logger.Error("failed to load content for preview", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": messagePreviewFailed})
		return
	}
	if !found || stored == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": messageNoPreview})
		return
	}

	imageURL, err := h.generator.GenerateImage(c.Request.Context(), previewImageQuery)
	if err != nil {
		h.logger.Error("image generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": messagePreviewFailed})
		return
	}
	page, err := h.layout.Render(stored, imageURL)
	if err != nil {
		h.logger.Error("preview rendering failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": messagePreviewFailed})
		return
	}

	c.Data(http.StatusOK, htmlContentType, []byte(page))
}

func (h *httpHandler) handleOverride(c *gin.Context) {
	var request overrideRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil ||
		strings.TrimSpace(request.Content) == "" ||
		strings.TrimSpace(request.Override) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": messageOverrideRequired})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updatedContent": request.Content + " " + request.Override})
}

func (h *httpHandler) handleExport(c *gin.Context) {
	stored, found, err := h.contentStore.Fetch(c.Request.Context(), content.LatestGeneratedKey)
	if err != nil {
		h.logger.Error("failed to load content for export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": messageExportFailed})
		return
	}
	if !found || stored == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": messageNoExport})
		return
	}

	document, err := h.exporter.Render(stored)
	if err != nil {
		h.logger.Error("pdf export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": messageExportFailed})
		return
	}

	c.Data(http.StatusOK, pdfContentType, document)
}

func (h *httpHandler) handleTestDatabase(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.contentStore.Save(ctx, testDatabaseKey, testDatabaseValue); err != nil {
		h.logger.Error("database self-test write failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": messageTestFailed})
		return
	}
	value, found, err := h.contentStore.Fetch(ctx, testDatabaseKey)
	if err != nil {
		h.logger.Error("database self-test read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": messageTestFailed})
		return
	}
	if !found || value == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": messageTestFetchFailed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": messageTestDatabaseOK, "value": value})
}
