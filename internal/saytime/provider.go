package saytime

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/flowpbx/vmprompt/internal/prompt"
)

// Provider implements prompt.DigitSpeechProvider with Asterisk sound names
// rooted at a sounds directory.
type Provider struct {
	soundsDir string
	nowFunc   func() time.Time // injectable for testing
}

// Load returns a Provider for soundsDir. The directory must exist and
// contain a digits/ subdirectory, otherwise the provider is unavailable.
func Load(soundsDir string) (*Provider, error) {
	if soundsDir == "" {
		return nil, fmt.Errorf("%w: no sounds directory configured", prompt.ErrCollaboratorUnavailable)
	}
	info, err := os.Stat(filepath.Join(soundsDir, "digits"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", prompt.ErrCollaboratorUnavailable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s/digits is not a directory", prompt.ErrCollaboratorUnavailable, soundsDir)
	}
	return &Provider{soundsDir: soundsDir, nowFunc: time.Now}, nil
}

// SoundsForTime returns the sound bundle for t.
func (p *Provider) SoundsForTime(t time.Time, format string) ([]prompt.AudioAsset, error) {
	if format == "" {
		format = DefaultFormat
	}
	sounds, err := ExpandTime(t, p.nowFunc().In(t.Location()), format)
	if err != nil {
		return nil, fmt.Errorf("expanding time format: %w", err)
	}
	return p.assets(sounds), nil
}

// SoundsForDigits returns one sound per digit.
func (p *Provider) SoundsForDigits(digits string) ([]prompt.AudioAsset, error) {
	return p.assets(ExpandDigits(digits)), nil
}

func (p *Provider) assets(sounds []Sound) []prompt.AudioAsset {
	out := make([]prompt.AudioAsset, len(sounds))
	for i, s := range sounds {
		out[i] = prompt.AudioAsset{Path: filepath.Join(p.soundsDir, s.Name), Text: s.Text}
	}
	return out
}

var _ prompt.DigitSpeechProvider = (*Provider)(nil)
