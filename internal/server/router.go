package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/powo1/aetherpress/backend/internal/documents"
	"go.uber.org/zap"
)

const (
	requestIDHeader          = "X-Request-ID"
	requestIDContextKey      = "aetherpress_request_id"
	defaultHeartbeatInterval = 25 * time.Second
	wildcardOrigin           = "*"
)

var (
	errMissingDocumentService = errors.New("document service dependency required")
	errMissingContentStore    = errors.New("content store dependency required")
	errMissingGenerator       = errors.New("generator dependency required")
	errMissingLayout          = errors.New("layout renderer dependency required")
	errMissingExporter        = errors.New("pdf exporter dependency required")
)

// ContentStore is the scratch slot holding the latest generated content.
type ContentStore interface {
	Save(ctx context.Context, key, value string) error
	Fetch(ctx context.Context, key string) (string, bool, error)
}

// TextGenerator produces AI text and illustrations for the publishing flow.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateImage(ctx context.Context, query string) (string, error)
}

// LayoutRenderer renders the HTML preview page.
type LayoutRenderer interface {
	Render(content string, imageURLs ...string) (string, error)
}

// PDFExporter renders content as a PDF document.
type PDFExporter interface {
	Render(content string) ([]byte, error)
}

type Dependencies struct {
	DocumentService   *documents.Service
	ContentStore      ContentStore
	Generator         TextGenerator
	Layout            LayoutRenderer
	Exporter          PDFExporter
	Realtime          *RealtimeDispatcher
	Logger            *zap.Logger
	AllowedOrigins    []string
	StaticDir         string
	HeartbeatInterval time.Duration
}

func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.DocumentService == nil {
		return nil, errMissingDocumentService
	}
	if deps.ContentStore == nil {
		return nil, errMissingContentStore
	}
	if deps.Generator == nil {
		return nil, errMissingGenerator
	}
	if deps.Layout == nil {
		return nil, errMissingLayout
	}
	if deps.Exporter == nil {
		return nil, errMissingExporter
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	realtime := deps.Realtime
	if realtime == nil {
		realtime = NewRealtimeDispatcher()
	}

	heartbeatInterval := deps.HeartbeatInterval
	if heartbeatInterval <= 0 {
		heartbeatInterval = defaultHeartbeatInterval
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(corsMiddleware(deps.AllowedOrigins...))

	handler := &httpHandler{
		documentService:   deps.DocumentService,
		contentStore:      deps.ContentStore,
		generator:         deps.Generator,
		layout:            deps.Layout,
		exporter:          deps.Exporter,
		realtime:          realtime,
		logger:            logger,
		heartbeatInterval: heartbeatInterval,
	}

	router.GET("/health", handler.handleHealth)
	router.GET("/test-db", handler.handleTestDatabase)

	router.POST("/prompt", handler.handlePrompt)
	router.GET("/preview", handler.handlePreview)
	router.POST("/override", handler.handleOverride)
	router.GET("/export", handler.handleExport)

	router.POST("/documents", handler.handleCreateDocument)
	router.GET("/documents", handler.handleListDocuments)
	router.GET("/documents/stream", handler.handleDocumentStream)
	router.GET("/documents/:id", handler.handleGetDocument)
	router.PUT("/documents/:id", handler.handleUpdateDocument)
	router.DELETE("/documents/:id", handler.handleDeleteDocument)

	if staticDir := strings.TrimSpace(deps.StaticDir); staticDir != "" {
		fileServer := http.FileServer(http.Dir(staticDir))
		router.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
				c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
				return
			}
			fileServer.ServeHTTP(c.Writer, c.Request)
		})
	}

	return router, nil
}

type httpHandler struct {
	documentService   *documents.Service
	contentStore      ContentStore
	generator         TextGenerator
	layout            LayoutRenderer
	exporter          PDFExporter
	realtime          *RealtimeDispatcher
	logger            *zap.Logger
	heartbeatInterval time.Duration
}

func corsMiddleware(allowedOrigins ...string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "X-Requested-With", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	origins := make([]string, 0, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == wildcardOrigin {
			config.AllowAllOrigins = true
			origins = nil
			break
		}
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if !config.AllowAllOrigins {
		if len(origins) == 0 {
			config.AllowAllOrigins = true
		} else {
			config.AllowOrigins = origins
		}
	}

	return cors.New(config)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = newRequestID()
		}
		c.Set(requestIDContextKey, requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", requestID),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn("http request failed", fields...)
			return
		}
		logger.Debug("http request", fields...)
	}
}

func newRequestID() string {
	identifier, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return identifier.String()
}
