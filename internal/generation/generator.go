// Package generation produces the AI text and illustration used by the publishing flow.
// Only the deterministic mock backend exists.
package generation

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	textTemplate     = "Generated text for prompt: %s"
	placeholderImage = "https://placehold.co/150x150/FFFFFF/000000/png"
)

// ErrEmptyPrompt indicates a prompt or image query that is blank after trimming.
var ErrEmptyPrompt = errors.New("generation: prompt is required")

// MockGenerator returns canned text and placeholder image URLs.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

func (MockGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	return fmt.Sprintf(textTemplate, prompt), nil
}

func (MockGenerator) GenerateImage(ctx context.Context, query string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyPrompt
	}
	return placeholderImage + "?text=" + escapeComponent(query), nil
}

// componentReplacer undoes the query escaping that encodeURIComponent leaves alone.
var componentReplacer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeComponent percent-encodes value with the same unreserved set as
// encodeURIComponent: letters, digits and -_.!~*'() stay literal.
func escapeComponent(value string) string {
	return componentReplacer.Replace(url.QueryEscape(value))
}
