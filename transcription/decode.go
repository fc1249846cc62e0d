package transcription

import (
	"encoding/json"

	"github.com/fyaic/multimedia-to-note/errors"
	"github.com/fyaic/multimedia-to-note/session"
)

// Shape identifies which reply layout produced the transcript.
type Shape int

const (
	ShapeRawText Shape = iota
	ShapeNestedChannel
	ShapeFlatTranscript
)

func (s Shape) String() string {
	switch s {
	case ShapeNestedChannel:
		return "nested_channel"
	case ShapeFlatTranscript:
		return "flat_transcript"
	default:
		return "raw_text"
	}
}

// Decoded is a transcript together with the payload it came from.
type Decoded struct {
	Shape Shape
	Text  string
	Raw   string
}

type shapeRule struct {
	shape Shape
	match func(doc map[string]any) (string, bool)
}

// shapeRules are evaluated in order; raw text is the terminal case. A rule
// matches only when its whole path resolves, so empty channels or
// alternatives fall through to the flat rule and then to raw text.
var shapeRules = []shapeRule{
	{ShapeNestedChannel, nestedChannelTranscript},
	{ShapeFlatTranscript, flatTranscript},
}

// Decode extracts the transcript from the first text item of res. A reply
// without text content is UNSUPPORTED_RESULT_SHAPE; every other payload
// decodes, falling back to the raw text.
func Decode(res *session.ToolResult) (Decoded, error) {
	raw, ok := res.FirstText()
	if !ok {
		return Decoded{}, errors.UnsupportedResultShape(res.Kinds())
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err == nil && doc != nil {
		for _, rule := range shapeRules {
			if text, ok := rule.match(doc); ok {
				return Decoded{Shape: rule.shape, Text: text, Raw: raw}, nil
			}
		}
	}
	return Decoded{Shape: ShapeRawText, Text: raw, Raw: raw}, nil
}

// nestedChannelTranscript matches results.channels[0].alternatives[0].transcript.
func nestedChannelTranscript(doc map[string]any) (string, bool) {
	results, ok := doc["results"].(map[string]any)
	if !ok {
		return "", false
	}
	channel, ok := firstObject(results["channels"])
	if !ok {
		return "", false
	}
	alt, ok := firstObject(channel["alternatives"])
	if !ok {
		return "", false
	}
	text, ok := alt["transcript"].(string)
	return text, ok
}

func flatTranscript(doc map[string]any) (string, bool) {
	text, ok := doc["transcript"].(string)
	return text, ok
}

func firstObject(v any) (map[string]any, bool) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, false
	}
	obj, ok := list[0].(map[string]any)
	return obj, ok
}
