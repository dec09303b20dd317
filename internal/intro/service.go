// Package intro renders voicemail intros end to end: it composes the
// segments for a message and serializes them in the requested format.
package intro

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/flowpbx/vmprompt/internal/prompt"
	"github.com/flowpbx/vmprompt/internal/ssml"
)

// Format selects the output encoding of a rendered intro.
type Format string

const (
	FormatSSML  Format = "ssml"
	FormatTwiML Format = "twiml"
	FormatJSON  Format = "json"
)

// ParseFormat accepts ssml, twiml or json. The empty string means SSML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatSSML, nil
	case FormatSSML, FormatTwiML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", prompt.ErrInvalidArgument, s)
	}
}

// LocaleMatcher maps a requested locale onto one the catalog supports.
type LocaleMatcher interface {
	Match(locale language.Tag) language.Tag
}

// Request describes one intro to render. Zero Mode and Locale fall back to
// the service settings.
type Request struct {
	Message *prompt.VoiceMessage
	Mode    prompt.RenderingMode
	Locale  language.Tag
	Format  Format
}

// Result is a rendered intro. Body is empty for FormatJSON; callers encode
// Segments themselves.
type Result struct {
	ID          string
	Mode        prompt.RenderingMode
	Locale      language.Tag
	Segments    []prompt.Segment
	ContentType string
	Body        string
}

// Observer is told about every render attempt.
type Observer interface {
	ObserveRender(mode prompt.RenderingMode, format string, elapsed time.Duration, err error)
}

// Service composes and renders intros. It is safe for concurrent use once
// configured.
type Service struct {
	deps     prompt.Dependencies
	settings prompt.Settings
	locales  LocaleMatcher
	builder  *ssml.Builder
	observer Observer
	logger   *slog.Logger
}

// NewService returns a Service. The resolver in deps also resolves phrases
// during markup rendering.
func NewService(deps prompt.Dependencies, settings prompt.Settings, locales LocaleMatcher, logger *slog.Logger) *Service {
	return &Service{
		deps:     deps,
		settings: settings,
		locales:  locales,
		builder:  ssml.NewBuilder(deps.Resolver),
		logger:   logger.With("subsystem", "intro"),
	}
}

// SetObserver installs o. Call it before the service is shared.
func (s *Service) SetObserver(o Observer) {
	s.observer = o
}

// Settings returns the default settings used when a request leaves mode
// or locale unset.
func (s *Service) Settings() prompt.Settings {
	return s.settings
}

// DictationAvailable reports whether the digit speech provider is installed.
func (s *Service) DictationAvailable() bool {
	return s.deps.Digits != nil
}

// Render composes req.Message and encodes it in req.Format.
func (s *Service) Render(req Request) (*Result, error) {
	start := time.Now()
	res, err := s.render(req)
	if s.observer != nil {
		mode := s.settings.Mode
		if req.Mode != prompt.ModeUnknown {
			mode = req.Mode
		}
		format := string(req.Format)
		if format == "" {
			format = string(FormatSSML)
		}
		s.observer.ObserveRender(mode, format, time.Since(start), err)
	}
	return res, err
}

func (s *Service) render(req Request) (*Result, error) {
	settings := s.settings
	if req.Mode != prompt.ModeUnknown {
		settings.Mode = req.Mode
	}
	if req.Locale != language.Und {
		settings.Locale = req.Locale
	}
	if s.locales != nil {
		settings.Locale = s.locales.Match(settings.Locale)
	}
	if req.Format == "" {
		req.Format = FormatSSML
	}

	composer, err := prompt.NewComposer(req.Message, s.deps, settings)
	if err != nil {
		return nil, err
	}
	segments, err := composer.Compose()
	if err != nil {
		return nil, fmt.Errorf("composing intro: %w", err)
	}

	res := &Result{
		ID:       uuid.NewString(),
		Mode:     settings.Mode,
		Locale:   settings.Locale,
		Segments: segments,
	}

	switch req.Format {
	case FormatSSML:
		doc, err := s.builder.Render(segments, settings.Locale)
		if err != nil {
			return nil, fmt.Errorf("rendering ssml: %w", err)
		}
		res.ContentType = ssml.ContentType
		res.Body = doc.String()
	case FormatTwiML:
		body, err := s.builder.RenderTwiML(segments, settings.Locale)
		if err != nil {
			return nil, fmt.Errorf("rendering twiml: %w", err)
		}
		res.ContentType = ssml.TwiMLContentType
		res.Body = body
	case FormatJSON:
		res.ContentType = "application/json"
	default:
		return nil, fmt.Errorf("%w: unknown format %q", prompt.ErrInvalidArgument, req.Format)
	}

	s.logger.Debug("intro rendered",
		"prompt_id", res.ID,
		"mode", res.Mode.String(),
		"locale", res.Locale.String(),
		"format", string(req.Format),
		"segments", len(segments),
	)
	return res, nil
}
