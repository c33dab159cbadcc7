package documents

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestValidateFieldsRules(t *testing.T) {
	testCases := []struct {
		name       string
		title      string
		content    string
		wantCause  error
		wantReason string
	}{
		{name: "empty-title", title: "", content: "content", wantCause: ErrTitleRequired, wantReason: "title_required"},
		{name: "whitespace-title", title: " \t\n ", content: "content", wantCause: ErrTitleRequired, wantReason: "title_required"},
		{name: "long-title", title: strings.Repeat("x", MaxTitleLength+1), content: "content", wantCause: ErrTitleTooLong, wantReason: "title_too_long"},
		{name: "empty-content", title: "Title", content: "", wantCause: ErrContentRequired, wantReason: "content_required"},
		{name: "whitespace-content", title: "Title", content: "   ", wantCause: ErrContentRequired, wantReason: "content_required"},
		{name: "title-checked-first", title: "", content: "", wantCause: ErrTitleRequired, wantReason: "title_required"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := validateFields(opCreate, testCase.title, testCase.content)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !errors.Is(err, testCase.wantCause) {
				t.Fatalf("expected cause %v, got %v", testCase.wantCause, err)
			}
			if ErrorCode(err) != opCreate+"."+testCase.wantReason {
				t.Fatalf("unexpected code %q", ErrorCode(err))
			}
		})
	}
}

func TestValidateFieldsCountsCharactersNotBytes(t *testing.T) {
	title := strings.Repeat("é", MaxTitleLength)
	if err := validateFields(opCreate, title, "content"); err != nil {
		t.Fatalf("expected %d multi-byte characters to be accepted, got %v", MaxTitleLength, err)
	}
}

func TestWhitespaceRejectedLikeEmpty(t *testing.T) {
	service, _ := newTestService(t, nil)
	ctx := context.Background()

	_, emptyErr := service.Create(ctx, "", "content")
	_, blankErr := service.Create(ctx, "    ", "content")
	if ErrorCode(emptyErr) == "" || ErrorCode(emptyErr) != ErrorCode(blankErr) {
		t.Fatalf("expected identical rejection, got %v and %v", emptyErr, blankErr)
	}

	_, emptyErr = service.Create(ctx, "Title", "")
	_, blankErr = service.Create(ctx, "Title", "\n\t")
	if ErrorCode(emptyErr) == "" || ErrorCode(emptyErr) != ErrorCode(blankErr) {
		t.Fatalf("expected identical rejection, got %v and %v", emptyErr, blankErr)
	}
}

func TestParseDocumentID(t *testing.T) {
	testCases := []struct {
		raw     string
		want    DocumentID
		wantErr bool
	}{
		{raw: "1", want: 1},
		{raw: " 42 ", want: 42},
		{raw: "9999", want: 9999},
		{raw: "0", wantErr: true},
		{raw: "-3", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "1.5", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "99999999999999999999", wantErr: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.raw, func(t *testing.T) {
			id, err := ParseDocumentID(testCase.raw)
			if testCase.wantErr {
				if !errors.Is(err, ErrValidation) || !errors.Is(err, ErrInvalidDocumentID) {
					t.Fatalf("expected invalid id validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id != testCase.want {
				t.Fatalf("expected %d, got %d", testCase.want, id)
			}
			if id.String() != strings.TrimSpace(testCase.raw) {
				t.Fatalf("unexpected string form %q", id.String())
			}
		})
	}
}

func TestRenderPreviewEscapesMarkup(t *testing.T) {
	got := RenderPreview(`<script>alert("x")</script>`)
	want := `<div class="preview">&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;</div>`
	if got != want {
		t.Fatalf("unexpected preview %q", got)
	}
}
