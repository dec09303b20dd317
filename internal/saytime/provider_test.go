package saytime

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/flowpbx/vmprompt/internal/prompt"
)

func TestLoad_Unavailable(t *testing.T) {
	tests := []struct {
		name string
		dir  string
	}{
		{"empty", ""},
		{"missing", filepath.Join(t.TempDir(), "nope")},
		{"no digits dir", t.TempDir()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.dir)
			if !errors.Is(err, prompt.ErrCollaboratorUnavailable) {
				t.Errorf("Load(%q) error = %v, want ErrCollaboratorUnavailable", tt.dir, err)
			}
		})
	}
}

func newTestProvider(t *testing.T) (*Provider, string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "digits"), 0750); err != nil {
		t.Fatalf("creating digits dir: %v", err)
	}
	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return p, dir
}

func TestProvider_SoundsForDigits(t *testing.T) {
	p, dir := newTestProvider(t)

	assets, err := p.SoundsForDigits("5551234567")
	if err != nil {
		t.Fatalf("SoundsForDigits() error: %v", err)
	}
	if len(assets) != 10 {
		t.Fatalf("expected 10 assets, got %d", len(assets))
	}
	if want := filepath.Join(dir, "digits", "5"); assets[0].Path != want {
		t.Errorf("assets[0].Path = %q, want %q", assets[0].Path, want)
	}
	if assets[9].Text != "7" {
		t.Errorf("assets[9].Text = %q, want 7", assets[9].Text)
	}
}

func TestProvider_SoundsForTime(t *testing.T) {
	p, dir := newTestProvider(t)
	received := time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC)
	p.nowFunc = func() time.Time { return received.Add(2 * time.Hour) }

	assets, err := p.SoundsForTime(received, "")
	if err != nil {
		t.Fatalf("SoundsForTime() error: %v", err)
	}
	if len(assets) == 0 {
		t.Fatal("expected sounds for time")
	}
	if want := filepath.Join(dir, "digits", "today"); assets[0].Path != want {
		t.Errorf("assets[0].Path = %q, want %q", assets[0].Path, want)
	}
}

func TestProvider_SoundsForTime_BadFormat(t *testing.T) {
	p, _ := newTestProvider(t)

	if _, err := p.SoundsForTime(time.Now(), "'unterminated"); err == nil {
		t.Fatal("expected error for bad format")
	}
}
