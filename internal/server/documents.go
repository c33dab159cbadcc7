package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/powo1/aetherpress/backend/internal/documents"
	"go.uber.org/zap"
)

const (
	messageFieldsRequired   = "Title and content are required and must be non-empty strings."
	messageInvalidID        = "Invalid document id."
	messageTitleConflict    = "A document with this title already exists."
	messageDocumentNotFound = "Document not found."
	messageDocumentDeleted  = "Document deleted."
	messageCreateFailed     = "Failed to create document."
	messageFetchFailed      = "Failed to fetch document."
	messageUpdateFailed     = "Failed to update document."
	messageDeleteFailed     = "Failed to delete document."
	messageListFailed       = "Failed to list documents."
)

var messageTitleTooLong = fmt.Sprintf("Title must be at most %d characters.", documents.MaxTitleLength)

type documentRequestPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *httpHandler) handleCreateDocument(c *gin.Context) {
	var request documentRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": messageFieldsRequired})
		return
	}

	document, err := h.documentService.Create(c.Request.Context(), request.Title, request.Content)
	if err != nil {
		h.respondDocumentError(c, err, messageCreateFailed)
		return
	}

	h.publishDocumentChange(DocumentActionCreated, document.DocumentID())
	c.JSON(http.StatusCreated, document)
}

func (h *httpHandler) handleGetDocument(c *gin.Context) {
	documentID, err := documents.ParseDocumentID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": messageDocumentNotFound})
		return
	}

	document, found, err := h.documentService.Get(c.Request.Context(), documentID)
	if err != nil {
		h.respondDocumentError(c, err, messageFetchFailed)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": messageDocumentNotFound})
		return
	}

	c.JSON(http.StatusOK, document)
}

func (h *httpHandler) handleUpdateDocument(c *gin.Context) {
	documentID, err := documents.ParseDocumentID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": messageInvalidID})
		return
	}

	var request documentRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": messageFieldsRequired})
		return
	}

	document, err := h.documentService.Update(c.Request.Context(), documentID, request.Title, request.Content)
	if err != nil {
		h.respondDocumentError(c, err, messageUpdateFailed)
		return
	}

	h.publishDocumentChange(DocumentActionUpdated, documentID)
	c.JSON(http.StatusOK, document)
}

// handleDeleteDocument always reports success for ids that cannot exist.
func (h *httpHandler) handleDeleteDocument(c *gin.Context) {
	rawID := c.Param("id")
	documentID, err := documents.ParseDocumentID(rawID)
	if err == nil {
		if err := h.documentService.Delete(c.Request.Context(), documentID); err != nil {
			h.respondDocumentError(c, err, messageDeleteFailed)
			return
		}
		h.publishDocumentChange(DocumentActionDeleted, documentID)
	}

	c.JSON(http.StatusOK, gin.H{"message": messageDocumentDeleted, "id": rawID})
}

func (h *httpHandler) handleListDocuments(c *gin.Context) {
	listed, err := h.documentService.List(c.Request.Context())
	if err != nil {
		h.respondDocumentError(c, err, messageListFailed)
		return
	}
	c.JSON(http.StatusOK, listed)
}

func (h *httpHandler) respondDocumentError(c *gin.Context, err error, storageMessage string) {
	switch {
	case errors.Is(err, documents.ErrValidation):
		message := messageFieldsRequired
		if errors.Is(err, documents.ErrTitleTooLong) {
			message = messageTitleTooLong
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
	case errors.Is(err, documents.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": messageTitleConflict})
	case errors.Is(err, documents.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": messageDocumentNotFound})
	default:
		h.logger.Error("document request failed", zap.String("code", documents.ErrorCode(err)), zap.Error(err))
		response := gin.H{"error": storageMessage}
		if code := documents.ErrorCode(err); code != "" {
			response["code"] = code
		}
		c.JSON(http.StatusInternalServerError, response)
	}
}

func (h *httpHandler) publishDocumentChange(action string, documentID documents.DocumentID) {
	if h.realtime == nil {
		return
	}
	h.realtime.Publish(RealtimeMessage{
		EventType:   RealtimeEventDocumentChanged,
		Action:      action,
		DocumentIDs: []string{documentID.String()},
		Timestamp:   time.Now().UTC(),
	})
}
