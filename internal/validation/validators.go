package validation

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/benvon/thai-toolkit/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("tone", validateTone); err != nil {
		panic(fmt.Sprintf("failed to register tone validator: %v", err))
	}
	if err := Validate.RegisterValidation("tone_mode", validateToneMode); err != nil {
		panic(fmt.Sprintf("failed to register tone_mode validator: %v", err))
	}
	if err := Validate.RegisterValidation("flashcard_category", validateFlashcardCategory); err != nil {
		panic(fmt.Sprintf("failed to register flashcard_category validator: %v", err))
	}
}

func validateTone(fl validator.FieldLevel) bool {
	return ValidateTone(fl.Field().String()) == nil
}

func validateToneMode(fl validator.FieldLevel) bool {
	switch models.ToneMode(fl.Field().String()) {
	case models.ToneModeListen, models.ToneModeSpeak:
		return true
	default:
		return false
	}
}

func validateFlashcardCategory(fl validator.FieldLevel) bool {
	return slices.Contains(models.FlashcardCategories, fl.Field().String())
}

// ValidateTone validates a tone name
func ValidateTone(value string) error {
	switch models.Tone(value) {
	case models.ToneMid, models.ToneLow, models.ToneHigh, models.ToneFalling, models.ToneRising:
		return nil
	default:
		return fmt.Errorf("invalid tone: %s (must be 'mid', 'low', 'high', 'falling', or 'rising')", value)
	}
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// FormatErrors flattens validator errors into a single readable message.
func FormatErrors(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
