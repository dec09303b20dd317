// Package speech renders times and character strings as locale-specific
// prompt files for numeric playback.
package speech

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/flowpbx/vmprompt/internal/prompt"
	"github.com/flowpbx/vmprompt/internal/saytime"
)

// promptExt is the extension of the prompt files served by the media player.
const promptExt = ".wav"

// LocaleMatcher maps a requested locale to one the prompt library has.
type LocaleMatcher interface {
	Match(locale language.Tag) language.Tag
}

// Formatter implements prompt.TimeSpokenFormatter. Each sound becomes a file
// under <audioPath>/<locale>/ with its text as fallback, so engines without
// the recordings can still speak the value.
type Formatter struct {
	audioPath string
	locales   LocaleMatcher
	nowFunc   func() time.Time // injectable for testing
}

// NewFormatter returns a formatter rooted at audioPath. locales may be nil,
// in which case the requested locale is used as-is.
func NewFormatter(audioPath string, locales LocaleMatcher) *Formatter {
	return &Formatter{
		audioPath: strings.TrimRight(audioPath, "/"),
		locales:   locales,
		nowFunc:   time.Now,
	}
}

// RenderTime renders t using the date/time format.
func (f *Formatter) RenderTime(t time.Time, format string, locale language.Tag) ([]prompt.AudioAsset, error) {
	if format == "" {
		format = saytime.DefaultFormat
	}
	sounds, err := saytime.ExpandTime(t, f.nowFunc().In(t.Location()), format)
	if err != nil {
		return nil, fmt.Errorf("rendering time: %w", err)
	}
	return f.assets(sounds, locale), nil
}

// RenderCharacters renders each digit of chars as its own prompt.
func (f *Formatter) RenderCharacters(chars string, locale language.Tag) ([]prompt.AudioAsset, error) {
	return f.assets(saytime.ExpandDigits(chars), locale), nil
}

func (f *Formatter) assets(sounds []saytime.Sound, locale language.Tag) []prompt.AudioAsset {
	if f.locales != nil {
		locale = f.locales.Match(locale)
	}
	dir := f.audioPath + "/" + locale.String() + "/"

	out := make([]prompt.AudioAsset, len(sounds))
	for i, s := range sounds {
		out[i] = prompt.AudioAsset{Path: dir + s.Name + promptExt, Text: s.Text}
	}
	return out
}

var _ prompt.TimeSpokenFormatter = (*Formatter)(nil)
