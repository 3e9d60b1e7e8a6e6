package ai

import (
	"errors"
	"testing"

	"github.com/benvon/thai-toolkit/internal/models"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		content    string
		wantParsed bool
		validate   func(*testing.T, models.ChatReply)
	}{
		{
			name:       "plain json",
			content:    `{"thai":"สวัสดีค่ะ","romanization":"sawatdee kha","english":"Hello","correction":null,"suggestions":["Ask for the menu"]}`,
			wantParsed: true,
			validate: func(t *testing.T, r models.ChatReply) {
				if r.Thai != "สวัสดีค่ะ" || r.Correction != nil || len(r.Suggestions) != 1 {
					t.Errorf("unexpected reply %+v", r)
				}
			},
		},
		{
			name:       "wrapped in markdown fence",
			content:    "```json\n{\"thai\":\"ได้ค่ะ\",\"correction\":\"Use ครับ\"}\n```",
			wantParsed: true,
			validate: func(t *testing.T, r models.ChatReply) {
				if r.Correction == nil || *r.Correction != "Use ครับ" {
					t.Errorf("correction = %v", r.Correction)
				}
			},
		},
		{name: "no object", content: "Sorry, I cannot help with that.", wantParsed: false},
		{name: "truncated json", content: `{"thai": "ไป`, wantParsed: false},
		{name: "syntax error", content: `{"thai": "ไป",}`, wantParsed: false},
		{name: "missing required field", content: `{"english":"hello"}`, wantParsed: false},
		{name: "empty", content: "", wantParsed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := Decode[models.ChatReply](tt.content)
			if r.IsParsed() != tt.wantParsed {
				t.Fatalf("IsParsed() = %v, want %v", r.IsParsed(), tt.wantParsed)
			}
			if !tt.wantParsed {
				if r.Raw() != tt.content {
					t.Errorf("Raw() = %q, want original content", r.Raw())
				}
				if _, err := r.Unwrap(); !errors.Is(err, ErrMalformed) {
					t.Errorf("Unwrap() error = %v, want ErrMalformed", err)
				}
				if _, ok := r.Value(); ok {
					t.Error("Value() reported ok for Malformed result")
				}
				return
			}
			v, err := r.Unwrap()
			if err != nil {
				t.Fatalf("Unwrap() error = %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, v)
			}
		})
	}
}

func TestDecode_ValidatesNestedTones(t *testing.T) {
	t.Parallel()

	bad := Decode[models.Breakdown](`{"thaiSentence":"กิน","words":[]}`)
	if bad.IsParsed() {
		t.Error("breakdown without words was accepted")
	}

	recs := Decode[models.Recommendations](`{"recommendations":[{"priority":1,"type":"dance","message":"x"}],"encouragement":"hi","focusArea":null}`)
	if recs.IsParsed() {
		t.Error("recommendation with unknown type was accepted")
	}

	empty := Decode[models.Recommendations](`{"recommendations":[],"encouragement":"hi"}`)
	if empty.IsParsed() {
		t.Error("empty recommendation list was accepted")
	}

	ok := Decode[models.Recommendations](`{"recommendations":[{"priority":1,"type":"chat","message":"Try taxi"}],"encouragement":"hi","focusArea":"chat"}`)
	v, parsed := ok.Value()
	if !parsed {
		t.Fatalf("valid recommendations rejected: %s", ok.reason)
	}
	if v.FocusArea == nil || *v.FocusArea != models.RecommendationChat {
		t.Errorf("focusArea = %v", v.FocusArea)
	}
}
