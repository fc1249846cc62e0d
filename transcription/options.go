package transcription

import (
	"github.com/fyaic/multimedia-to-note/validation"
)

// Defaults for the transcribe_audio call.
const (
	DefaultTool     = "transcribe_audio"
	DefaultModel    = "nova-2"
	DefaultLanguage = "zh"
)

// Options are the pass-through settings of the transcription call.
// Feature flags are pointers so an explicit false survives ApplyDefaults.
type Options struct {
	Tool        string `yaml:"tool" mapstructure:"tool" validate:"required"`
	Model       string `yaml:"model" mapstructure:"model" validate:"required"`
	Language    string `yaml:"language" mapstructure:"language" validate:"required,langtag"`
	Punctuate   *bool  `yaml:"punctuate" mapstructure:"punctuate"`
	Diarize     *bool  `yaml:"diarize" mapstructure:"diarize"`
	Paragraphs  *bool  `yaml:"paragraphs" mapstructure:"paragraphs"`
	SmartFormat *bool  `yaml:"smart_format" mapstructure:"smart_format"`
}

// ApplyDefaults fills unset fields; every feature flag defaults to true.
func (o *Options) ApplyDefaults() {
	if o.Tool == "" {
		o.Tool = DefaultTool
	}
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.Language == "" {
		o.Language = DefaultLanguage
	}
	for _, flag := range []**bool{&o.Punctuate, &o.Diarize, &o.Paragraphs, &o.SmartFormat} {
		if *flag == nil {
			*flag = Bool(true)
		}
	}
}

// Validate checks the options.
func (o *Options) Validate() error {
	return validation.Validate(o)
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

func deref(b *bool) bool { return b != nil && *b }
