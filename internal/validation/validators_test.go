package validation

import (
	"strings"
	"testing"

	"github.com/benvon/thai-toolkit/internal/models"
)

func TestValidateTone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tone    string
		wantErr bool
	}{
		{"mid", false},
		{"low", false},
		{"high", false},
		{"falling", false},
		{"rising", false},
		{"", true},
		{"Rising", true},
		{"neutral", true},
	}

	for _, tt := range tests {
		t.Run(tt.tone, func(t *testing.T) {
			t.Parallel()
			err := ValidateTone(tt.tone)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTone(%q) error = %v, wantErr %v", tt.tone, err, tt.wantErr)
			}
		})
	}
}

func TestToneSessionResultValidation(t *testing.T) {
	t.Parallel()

	valid := models.ToneSessionResult{
		Mode:  models.ToneModeListen,
		Score: 1,
		Total: 1,
		Answers: []models.ToneAnswer{
			{TargetTone: "rising", BaseSound: "mai", TargetThai: "ไหม", IsCorrect: true},
		},
	}
	if err := Validate.Struct(valid); err != nil {
		t.Errorf("Expected valid session, got %v", err)
	}

	badMode := valid
	badMode.Mode = "write"
	if err := Validate.Struct(badMode); err == nil {
		t.Error("Expected error for unknown mode")
	}

	missingBase := valid
	missingBase.Answers = []models.ToneAnswer{{TargetTone: "rising"}}
	err := Validate.Struct(missingBase)
	if err == nil {
		t.Fatal("Expected error for missing base sound")
	}
	if msg := FormatErrors(err); !strings.Contains(msg, "BaseSound") {
		t.Errorf("Expected formatted error to name BaseSound, got %q", msg)
	}
}

func TestFlashcardCategoryValidation(t *testing.T) {
	t.Parallel()

	type req struct {
		Categories []string `validate:"required,min=1,dive,flashcard_category"`
	}

	if err := Validate.Struct(req{Categories: []string{"food", "travel"}}); err != nil {
		t.Errorf("Expected valid categories, got %v", err)
	}
	if err := Validate.Struct(req{Categories: []string{"food", "sports"}}); err == nil {
		t.Error("Expected error for unknown category")
	}
	if err := Validate.Struct(req{}); err == nil {
		t.Error("Expected error for empty categories")
	}
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  สวัสดี  ", "สวัสดี"},
		{"removes control characters", "hello\x00world\x07", "helloworld"},
		{"keeps newline and tab", "a\nb\tc", "a\nb\tc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
