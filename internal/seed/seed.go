// Package seed populates an empty store with sample documents.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/powo1/aetherpress/backend/internal/documents"
	"go.uber.org/zap"
)

// Sample is a document created by Run.
type Sample struct {
	Title   string
	Content string
}

// DefaultSamples are the documents seeded into a fresh installation.
var DefaultSamples = []Sample{
	{
		Title:   "Welcome to AetherPress",
		Content: "This is your first document. Edit or delete it to get started!",
	},
	{
		Title:   "Sample Guide",
		Content: "This is a sample guide document for demonstration purposes.",
	},
	{
		Title:   "About",
		Content: "AetherPress is a modern publishing platform.",
	},
}

// DocumentCreator is the subset of the document store used for seeding.
type DocumentCreator interface {
	Create(ctx context.Context, title, content string) (documents.Document, error)
}

// Result lists which sample titles were created and which already existed.
type Result struct {
	Seeded  []string
	Skipped []string
}

// Run creates every sample, skipping titles that already exist. Any other
// failure stops seeding.
func Run(ctx context.Context, creator DocumentCreator, samples []Sample, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var result Result
	for _, sample := range samples {
		_, err := creator.Create(ctx, sample.Title, sample.Content)
		switch {
		case err == nil:
			result.Seeded = append(result.Seeded, sample.Title)
			logger.Info("seeded document", zap.String("title", sample.Title))
		case errors.Is(err, documents.ErrConflict):
			result.Skipped = append(result.Skipped, sample.Title)
			logger.Info("skipped existing document", zap.String("title", sample.Title))
		default:
			return result, fmt.Errorf("seed %q: %w", sample.Title, err)
		}
	}
	return result, nil
}
