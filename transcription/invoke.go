package transcription

import (
	"context"
	"fmt"
	"maps"

	"github.com/fyaic/multimedia-to-note/audio"
	"github.com/fyaic/multimedia-to-note/errors"
	"github.com/fyaic/multimedia-to-note/session"
)

// Argument keys understood by the transcribe_audio tool.
const (
	ArgAudioData   = "audioData"
	ArgModel       = "model"
	ArgLanguage    = "language"
	ArgPunctuate   = "punctuate"
	ArgDiarize     = "diarize"
	ArgParagraphs  = "paragraphs"
	ArgSmartFormat = "smart_format"
)

// ToolRequest is one tool call. Treat it as read-only once built.
type ToolRequest struct {
	Name      string
	Arguments map[string]any
}

// NewToolRequest encodes the asset and merges it with the options.
// opts should already have defaults applied.
func NewToolRequest(asset *audio.Asset, opts Options) ToolRequest {
	return ToolRequest{
		Name: opts.Tool,
		Arguments: map[string]any{
			ArgAudioData:   asset.Base64(),
			ArgModel:       opts.Model,
			ArgLanguage:    opts.Language,
			ArgPunctuate:   deref(opts.Punctuate),
			ArgDiarize:     deref(opts.Diarize),
			ArgParagraphs:  deref(opts.Paragraphs),
			ArgSmartFormat: deref(opts.SmartFormat),
		},
	}
}

// PayloadSize returns the length of the encoded audio argument.
func (r ToolRequest) PayloadSize() int {
	s, _ := r.Arguments[ArgAudioData].(string)
	return len(s)
}

// Invoke performs exactly one call of req on s. Transport failures, empty
// replies and replies flagged as errors are INVOCATION_FAILED.
func Invoke(ctx context.Context, s session.Session, req ToolRequest) (*session.ToolResult, error) {
	res, err := s.CallTool(ctx, req.Name, maps.Clone(req.Arguments))
	if err != nil {
		return nil, errors.Invocation(req.Name, err)
	}
	if res == nil {
		return nil, errors.Invocation(req.Name, fmt.Errorf("empty reply"))
	}
	if res.IsError {
		text, _ := res.FirstText()
		return nil, errors.Invocation(req.Name, fmt.Errorf("tool reported error: %s", text))
	}
	return res, nil
}
