package prompt

import (
	"fmt"
	"strings"
)

// RenderingMode selects how numbers and times are turned into speech.
type RenderingMode int

const (
	// ModeUnknown is the zero value. Composing with it produces no segments.
	ModeUnknown RenderingMode = iota

	// PhraseSynthesis builds a single localized sentence per part, with the
	// timestamp and the spoken digits interpolated as parameters.
	PhraseSynthesis

	// NumericPlayback plays a localized lead-in followed by the audio
	// produced by the time/characters formatter.
	NumericPlayback

	// DigitDictation plays a localized lead-in followed by sound bundles
	// from the digit speech provider.
	DigitDictation
)

// modeNames maps configuration names to modes. The short names are the
// values used by existing voicemail deployments.
var modeNames = map[string]RenderingMode{
	"i18n_string":      PhraseSynthesis,
	"play_numeric":     NumericPlayback,
	"ahn_say":          DigitDictation,
	"phrase_synthesis": PhraseSynthesis,
	"numeric_playback": NumericPlayback,
	"digit_dictation":  DigitDictation,
}

// ParseMode maps a configured numeric method name to a RenderingMode.
// Unknown names are a configuration error.
func ParseMode(name string) (RenderingMode, error) {
	mode, ok := modeNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return ModeUnknown, fmt.Errorf("%w: unknown numeric method %q", ErrConfiguration, name)
	}
	return mode, nil
}

// String returns the canonical configuration name of the mode.
func (m RenderingMode) String() string {
	switch m {
	case PhraseSynthesis:
		return "i18n_string"
	case NumericPlayback:
		return "play_numeric"
	case DigitDictation:
		return "ahn_say"
	default:
		return "unknown"
	}
}

// Valid reports whether m is one of the three rendering strategies.
func (m RenderingMode) Valid() bool {
	return m == PhraseSynthesis || m == NumericPlayback || m == DigitDictation
}

// SelectMode returns the rendering mode configured in settings.
func SelectMode(s Settings) RenderingMode {
	return s.Mode
}
