package validation

import (
	"strings"
	"testing"

	"github.com/fyaic/multimedia-to-note/errors"
)

func TestValidatorRequired(t *testing.T) {
	if New().Required("name", "John").HasErrors() {
		t.Error("expected no errors for valid input")
	}
	if !New().Required("name", "").HasErrors() {
		t.Error("expected error for empty required field")
	}
	if !New().Required("name", "   ").HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorOneOf(t *testing.T) {
	if New().OneOf("format", "json", []string{"json", "console"}).HasErrors() {
		t.Error("expected no error for allowed value")
	}
	if !New().OneOf("format", "xml", []string{"json", "console"}).HasErrors() {
		t.Error("expected error for value outside the set")
	}
	if New().OneOf("format", "", []string{"json"}).HasErrors() {
		t.Error("expected empty value to be skipped")
	}
}

func TestValidatorNotePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"Inbox/transcript_meeting.md", false},
		{"note.md", false},
		{"a/../b.md", false},
		{"", true},
		{"/etc/passwd", true},
		{"../outside.md", true},
		{"a/../../outside.md", true},
		{"..\\windows.md", true},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			if got := New().NotePath("target", tc.path).HasErrors(); got != tc.wantErr {
				t.Errorf("NotePath(%q) errors = %v, want %v", tc.path, got, tc.wantErr)
			}
		})
	}
}

func TestValidatorValidate(t *testing.T) {
	if New().Required("name", "John").Validate() != nil {
		t.Error("expected nil for valid input")
	}

	appErr := New().Required("name", "").Required("email", "").Validate()
	if appErr == nil {
		t.Fatal("expected error")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if _, ok := appErr.Details["fields"].([]FieldError); !ok {
		t.Errorf("expected field errors in details, got %v", appErr.Details)
	}
	if !strings.Contains(appErr.Message, "name") || !strings.Contains(appErr.Message, "email") {
		t.Errorf("expected both fields in message, got %q", appErr.Message)
	}
}

func TestValidatorErrIsTrueNil(t *testing.T) {
	if err := New().Err(); err != nil {
		t.Errorf("expected nil error interface, got %#v", err)
	}
	if err := Required("name", "x"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := Required("name", ""); err == nil {
		t.Error("expected error for empty required field")
	}
}

type serverSection struct {
	Binary string `mapstructure:"binary" validate:"required"`
}

type sampleConfig struct {
	Model    string        `mapstructure:"model" validate:"required"`
	Language string        `mapstructure:"language" validate:"required,langtag"`
	Port     int           `mapstructure:"port" validate:"gte=1,lte=65535"`
	Server   serverSection `mapstructure:"server"`
}

func TestStructValidate(t *testing.T) {
	valid := sampleConfig{Model: "nova-2", Language: "zh", Port: 27123, Server: serverSection{Binary: "uvx"}}
	if err := Validate(valid); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	bad := sampleConfig{Language: "not a tag", Port: 0}
	err := Validate(bad)
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"model: is required", "language: must be auto or a language tag", "server.binary: is required", "port: must be at least 1"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}

func TestStructValidateLangTag(t *testing.T) {
	type opts struct {
		Language string `mapstructure:"language" validate:"langtag"`
	}
	for _, tag := range []string{"auto", "zh", "en", "en-US", "zh-Hant-TW", "yue"} {
		if err := Validate(opts{Language: tag}); err != nil {
			t.Errorf("expected %q to be accepted, got %v", tag, err)
		}
	}
	for _, tag := range []string{"", "z", "english language", "en_US"} {
		if err := Validate(opts{Language: tag}); err == nil {
			t.Errorf("expected %q to be rejected", tag)
		}
	}
}
