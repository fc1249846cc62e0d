package transcription

import (
	"testing"

	"github.com/fyaic/multimedia-to-note/errors"
	"github.com/fyaic/multimedia-to-note/session"
)

func textResult(text string) *session.ToolResult {
	return &session.ToolResult{Content: []session.Content{{Type: session.ContentText, Text: text}}}
}

func TestDecodeShapes(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantShape Shape
		wantText  string
	}{
		{
			name:      "nested channel",
			payload:   `{"results":{"channels":[{"alternatives":[{"transcript":"你好世界","confidence":0.98}]}]}}`,
			wantShape: ShapeNestedChannel,
			wantText:  "你好世界",
		},
		{
			name:      "nested wins over flat",
			payload:   `{"transcript":"flat","results":{"channels":[{"alternatives":[{"transcript":"nested"}]}]}}`,
			wantShape: ShapeNestedChannel,
			wantText:  "nested",
		},
		{
			name:      "only first channel and alternative",
			payload:   `{"results":{"channels":[{"alternatives":[{"transcript":"a"},{"transcript":"b"}]},{"alternatives":[{"transcript":"c"}]}]}}`,
			wantShape: ShapeNestedChannel,
			wantText:  "a",
		},
		{
			name:      "flat transcript",
			payload:   `{"transcript":"hello there","duration":3.2}`,
			wantShape: ShapeFlatTranscript,
			wantText:  "hello there",
		},
		{
			name:      "empty channels fall through to flat",
			payload:   `{"transcript":"flat","results":{"channels":[]}}`,
			wantShape: ShapeFlatTranscript,
			wantText:  "flat",
		},
		{
			name:      "empty alternatives fall through to flat",
			payload:   `{"transcript":"flat","results":{"channels":[{"alternatives":[]}]}}`,
			wantShape: ShapeFlatTranscript,
			wantText:  "flat",
		},
		{
			name:      "non-string nested transcript falls through",
			payload:   `{"results":{"channels":[{"alternatives":[{"transcript":42}]}]}}`,
			wantShape: ShapeRawText,
			wantText:  `{"results":{"channels":[{"alternatives":[{"transcript":42}]}]}}`,
		},
		{
			name:      "unknown json shape",
			payload:   `{"text":"something else"}`,
			wantShape: ShapeRawText,
			wantText:  `{"text":"something else"}`,
		},
		{
			name:      "malformed json",
			payload:   `{"transcript": "unterminated`,
			wantShape: ShapeRawText,
			wantText:  `{"transcript": "unterminated`,
		},
		{
			name:      "plain text",
			payload:   "just words",
			wantShape: ShapeRawText,
			wantText:  "just words",
		},
		{
			name:      "json array",
			payload:   `["a","b"]`,
			wantShape: ShapeRawText,
			wantText:  `["a","b"]`,
		},
		{
			name:      "json null",
			payload:   `null`,
			wantShape: ShapeRawText,
			wantText:  `null`,
		},
		{
			name:      "empty flat transcript is still a match",
			payload:   `{"transcript":""}`,
			wantShape: ShapeFlatTranscript,
			wantText:  "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(textResult(tc.payload))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Shape != tc.wantShape {
				t.Errorf("expected shape %s, got %s", tc.wantShape, got.Shape)
			}
			if got.Text != tc.wantText {
				t.Errorf("expected text %q, got %q", tc.wantText, got.Text)
			}
			if got.Raw != tc.payload {
				t.Errorf("expected raw payload preserved, got %q", got.Raw)
			}
		})
	}
}

func TestDecodeSkipsNonTextItems(t *testing.T) {
	res := &session.ToolResult{Content: []session.Content{
		{Type: "image"},
		{Type: session.ContentText, Text: `{"transcript":"second item"}`},
		{Type: session.ContentText, Text: "ignored"},
	}}
	got, err := Decode(res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "second item" {
		t.Errorf("expected first text item to be used, got %q", got.Text)
	}
}

func TestDecodeUnsupportedShape(t *testing.T) {
	tests := []struct {
		name string
		res  *session.ToolResult
	}{
		{"nil reply", nil},
		{"no content", &session.ToolResult{}},
		{"only non-text", &session.ToolResult{Content: []session.Content{{Type: "image"}, {Type: "audio"}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.res)
			if !errors.HasCode(err, errors.ErrCodeUnsupportedResultShape) {
				t.Fatalf("expected UNSUPPORTED_RESULT_SHAPE, got %v", err)
			}
		})
	}
}

func TestShapeString(t *testing.T) {
	for shape, want := range map[Shape]string{
		ShapeNestedChannel:  "nested_channel",
		ShapeFlatTranscript: "flat_transcript",
		ShapeRawText:        "raw_text",
	} {
		if shape.String() != want {
			t.Errorf("expected %q, got %q", want, shape.String())
		}
	}
}
