package prompt

import (
	"time"

	"golang.org/x/text/language"
)

// LocalizationResolver looks up catalog entries. Implementations must be
// safe for concurrent use and must not change while a composition runs.
type LocalizationResolver interface {
	// Resolve returns the audio path (empty when the entry has no audio) and
	// the fallback text for key, with params interpolated.
	Resolve(key string, locale language.Tag, params map[string]string) (audioPath, text string, err error)

	// Translate returns the raw text for key. A missing entry yields a
	// string containing "missing" rather than an error.
	Translate(key string, locale language.Tag) string

	// LocalizeTime formats t for speech in locale.
	LocalizeTime(t time.Time, locale language.Tag) string
}

// TimeSpokenFormatter renders times and character strings as audio for the
// NumericPlayback mode.
type TimeSpokenFormatter interface {
	RenderTime(t time.Time, format string, locale language.Tag) ([]AudioAsset, error)
	RenderCharacters(chars string, locale language.Tag) ([]AudioAsset, error)
}

// DigitSpeechProvider produces sound bundles for the DigitDictation mode.
// It is optional; a nil provider disables that mode only.
type DigitSpeechProvider interface {
	SoundsForTime(t time.Time, format string) ([]AudioAsset, error)
	SoundsForDigits(digits string) ([]AudioAsset, error)
}

// Dependencies are the collaborators a Composer delegates to.
type Dependencies struct {
	Resolver  LocalizationResolver
	Formatter TimeSpokenFormatter
	Digits    DigitSpeechProvider
}

// Settings is the process-wide prompt configuration, loaded once at startup.
type Settings struct {
	Mode           RenderingMode
	DateTimeFormat string
	Locale         language.Tag
}
