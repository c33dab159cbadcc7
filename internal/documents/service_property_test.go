package documents

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

func titleGenerator() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z0-9][A-Za-z0-9 .,-]{0,60}`)
}

func contentGenerator() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z0-9 .,!?\n]{0,200}[A-Za-z0-9]`)
}

func TestCreateGetRoundTripProperty(t *testing.T) {
	service, _ := newTestService(t, nil)
	ctx := context.Background()
	var sequence int
	var lastID int64

	rapid.Check(t, func(rt *rapid.T) {
		sequence++
		title := fmt.Sprintf("%s #%d", titleGenerator().Draw(rt, "title"), sequence)
		content := contentGenerator().Draw(rt, "content")

		created, err := service.Create(ctx, title, content)
		if err != nil {
			rt.Fatalf("create failed for %q: %v", title, err)
		}
		if created.ID <= lastID {
			rt.Fatalf("expected fresh id above %d, got %d", lastID, created.ID)
		}
		lastID = created.ID

		fetched, found, err := service.Get(ctx, created.DocumentID())
		if err != nil || !found {
			rt.Fatalf("get failed: found=%v err=%v", found, err)
		}
		if fetched.Title != title || fetched.Content != content {
			rt.Fatalf("round trip mismatch: %#v", fetched)
		}
	})
}

func TestDuplicateTitleProperty(t *testing.T) {
	service, _ := newTestService(t, nil)
	ctx := context.Background()
	var sequence int

	rapid.Check(t, func(rt *rapid.T) {
		sequence++
		title := fmt.Sprintf("%s @%d", titleGenerator().Draw(rt, "title"), sequence)

		first, err := service.Create(ctx, title, contentGenerator().Draw(rt, "first"))
		if err != nil {
			rt.Fatalf("first create failed: %v", err)
		}
		_, err = service.Create(ctx, title, contentGenerator().Draw(rt, "second"))
		if !errors.Is(err, ErrConflict) {
			rt.Fatalf("expected conflict, got %v", err)
		}
		stored, found, err := service.Get(ctx, first.DocumentID())
		if err != nil || !found || stored.Content != first.Content {
			rt.Fatalf("first document changed: found=%v err=%v", found, err)
		}
	})
}

func TestBlankFieldsProperty(t *testing.T) {
	service, _ := newTestService(t, nil)
	ctx := context.Background()
	blank := rapid.StringOf(rapid.SampledFrom([]rune{' ', '\t', '\n', '\r'}))

	rapid.Check(t, func(rt *rapid.T) {
		if _, err := service.Create(ctx, blank.Draw(rt, "title"), "content"); !errors.Is(err, ErrTitleRequired) {
			rt.Fatalf("expected blank title rejection, got %v", err)
		}
		if _, err := service.Create(ctx, "Title", blank.Draw(rt, "content")); !errors.Is(err, ErrContentRequired) {
			rt.Fatalf("expected blank content rejection, got %v", err)
		}
	})
}
