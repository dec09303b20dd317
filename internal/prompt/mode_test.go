package prompt

import (
	"errors"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		name string
		want RenderingMode
	}{
		{"i18n_string", PhraseSynthesis},
		{"play_numeric", NumericPlayback},
		{"ahn_say", DigitDictation},
		{"phrase_synthesis", PhraseSynthesis},
		{"numeric_playback", NumericPlayback},
		{"digit_dictation", DigitDictation},
		{" Play_Numeric ", NumericPlayback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMode(tt.name)
			if err != nil {
				t.Fatalf("ParseMode(%q) error: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestParseMode_Unknown(t *testing.T) {
	got, err := ParseMode("espeak")
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if got != ModeUnknown {
		t.Errorf("ParseMode() = %v, want ModeUnknown", got)
	}
}

func TestRenderingModeString(t *testing.T) {
	for _, m := range []RenderingMode{PhraseSynthesis, NumericPlayback, DigitDictation} {
		parsed, err := ParseMode(m.String())
		if err != nil {
			t.Fatalf("ParseMode(%q) error: %v", m.String(), err)
		}
		if parsed != m {
			t.Errorf("ParseMode(%q) = %v, want %v", m.String(), parsed, m)
		}
		if !m.Valid() {
			t.Errorf("%v.Valid() = false", m)
		}
	}
	if ModeUnknown.Valid() {
		t.Error("ModeUnknown.Valid() = true")
	}
}

func TestSelectMode(t *testing.T) {
	if got := SelectMode(Settings{Mode: DigitDictation}); got != DigitDictation {
		t.Errorf("SelectMode() = %v, want DigitDictation", got)
	}
}
