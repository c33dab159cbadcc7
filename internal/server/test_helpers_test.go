package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/powo1/aetherpress/backend/internal/content"
	"github.com/powo1/aetherpress/backend/internal/database"
	"github.com/powo1/aetherpress/backend/internal/documents"
	"github.com/powo1/aetherpress/backend/internal/export"
	"github.com/powo1/aetherpress/backend/internal/generation"
	"github.com/powo1/aetherpress/backend/internal/layout"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnvironment struct {
	handler    http.Handler
	database   *gorm.DB
	documents  *documents.Service
	content    *content.Store
	dispatcher *RealtimeDispatcher
}

type steppingClock struct {
	mu      sync.Mutex
	current time.Time
	step    time.Duration
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(c.step)
	return c.current
}

type environmentOption func(*Dependencies)

func withLogger(logger *zap.Logger) environmentOption {
	return func(deps *Dependencies) {
		deps.Logger = logger
	}
}

func withStaticDir(directory string) environmentOption {
	return func(deps *Dependencies) {
		deps.StaticDir = directory
	}
}

func withHeartbeat(interval time.Duration) environmentOption {
	return func(deps *Dependencies) {
		deps.HeartbeatInterval = interval
	}
}

func newTestEnvironment(t *testing.T, options ...environmentOption) testEnvironment {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "server.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close(db)
	})

	clock := &steppingClock{current: time.Unix(1700000000, 0).UTC(), step: time.Second}
	documentService, err := documents.NewService(documents.ServiceConfig{Database: db, Clock: clock.Now})
	if err != nil {
		t.Fatalf("failed to build document service: %v", err)
	}
	contentStore, err := content.NewStore(content.StoreConfig{Database: db})
	if err != nil {
		t.Fatalf("failed to build content store: %v", err)
	}
	renderer, err := layout.NewRenderer()
	if err != nil {
		t.Fatalf("failed to build layout renderer: %v", err)
	}

	dispatcher := NewRealtimeDispatcher()
	deps := Dependencies{
		DocumentService: documentService,
		ContentStore:    contentStore,
		Generator:       generation.NewMockGenerator(),
		Layout:          renderer,
		Exporter:        export.NewPDFRenderer("AetherPress"),
		Realtime:        dispatcher,
		Logger:          zap.NewNop(),
		AllowedOrigins:  []string{"*"},
	}
	for _, option := range options {
		option(&deps)
	}

	handler, err := NewHTTPHandler(deps)
	if err != nil {
		t.Fatalf("failed to construct http handler: %v", err)
	}

	return testEnvironment{
		handler:    handler,
		database:   db,
		documents:  documentService,
		content:    contentStore,
		dispatcher: dispatcher,
	}
}

func (env testEnvironment) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch typed := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(typed))
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	env.handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeObject(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response %q: %v", recorder.Body.String(), err)
	}
	return payload
}

func decodeDocument(t *testing.T, recorder *httptest.ResponseRecorder) documents.Document {
	t.Helper()
	var document documents.Document
	if err := json.Unmarshal(recorder.Body.Bytes(), &document); err != nil {
		t.Fatalf("failed to decode document %q: %v", recorder.Body.String(), err)
	}
	return document
}

func decodeDocuments(t *testing.T, recorder *httptest.ResponseRecorder) []documents.Document {
	t.Helper()
	var listed []documents.Document
	if err := json.Unmarshal(recorder.Body.Bytes(), &listed); err != nil {
		t.Fatalf("failed to decode document list %q: %v", recorder.Body.String(), err)
	}
	return listed
}
