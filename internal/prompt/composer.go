// Package prompt composes the spoken intro played before a voicemail
// message: when it was received and who it is from.
//
// A Composer turns a VoiceMessage into an ordered list of Segments using one
// of three rendering modes. Rendering the segments into markup is the job of
// package ssml.
package prompt

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Catalog keys used by the intro.
const (
	KeyReceivedOnX   = "voicemail.messages.message_received_on_x"
	KeyReceivedOn    = "voicemail.messages.message_received_on"
	KeyReceivedFromX = "voicemail.messages.message_received_from_x"
	KeyFrom          = "from"
)

// UnknownCaller is spoken in NumericPlayback mode when the caller
// identifier has no digits.
const UnknownCaller = "unknown caller"

// missingMarker identifies a catalog lookup that found no translation.
const missingMarker = "missing"

// Composer builds the intro segments for one message.
type Composer struct {
	msg      *VoiceMessage
	deps     Dependencies
	settings Settings
}

// NewComposer returns a Composer for msg. The message is only read.
// A nil message, resolver or formatter is an invalid argument.
func NewComposer(msg *VoiceMessage, deps Dependencies, settings Settings) (*Composer, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: composer needs a valid message", ErrInvalidArgument)
	}
	if deps.Resolver == nil {
		return nil, fmt.Errorf("%w: composer needs a localization resolver", ErrInvalidArgument)
	}
	if deps.Formatter == nil {
		return nil, fmt.Errorf("%w: composer needs a time formatter", ErrInvalidArgument)
	}
	return &Composer{msg: msg, deps: deps, settings: settings}, nil
}

// Message returns the message the composer was built for.
func (c *Composer) Message() *VoiceMessage {
	return c.msg
}

// Compose returns the time segments followed by the caller segments, using
// the configured mode and locale. An unrecognized mode yields no segments.
func (c *Composer) Compose() ([]Segment, error) {
	mode := SelectMode(c.settings)
	locale := c.settings.Locale

	timeSegs, err := c.ComposeTime(mode, locale)
	if err != nil {
		return nil, err
	}
	fromSegs, err := c.ComposeFrom(mode, locale)
	if err != nil {
		return nil, err
	}
	return append(timeSegs, fromSegs...), nil
}

// ComposeTime returns the "message received on ..." segments.
func (c *Composer) ComposeTime(mode RenderingMode, locale language.Tag) ([]Segment, error) {
	switch mode {
	case PhraseSynthesis:
		return []Segment{LiteralPhrase{
			Key:    KeyReceivedOnX,
			Params: map[string]string{"received_on": c.deps.Resolver.LocalizeTime(c.msg.Received, locale)},
		}}, nil

	case NumericPlayback:
		assets, err := c.deps.Formatter.RenderTime(c.msg.Received, c.settings.DateTimeFormat, locale)
		if err != nil {
			return nil, fmt.Errorf("rendering received time: %w", err)
		}
		return []Segment{LiteralPhrase{Key: KeyReceivedOn}, AudioSequence{Assets: assets}}, nil

	case DigitDictation:
		if c.deps.Digits == nil {
			return nil, fmt.Errorf("%w: digit dictation requires a digit speech provider", ErrCollaboratorUnavailable)
		}
		sounds, err := c.deps.Digits.SoundsForTime(c.msg.Received, c.settings.DateTimeFormat)
		if err != nil {
			return nil, fmt.Errorf("dictating received time: %w", err)
		}
		return []Segment{LiteralPhrase{Key: KeyReceivedOn}, AudioSequence{Assets: sounds}}, nil

	default:
		return nil, nil
	}
}

// ComposeFrom returns the "from ..." segments.
func (c *Composer) ComposeFrom(mode RenderingMode, locale language.Tag) ([]Segment, error) {
	digits := ExtractDigits(c.msg.From)

	switch mode {
	case PhraseSynthesis:
		return []Segment{LiteralPhrase{
			Key:    KeyReceivedFromX,
			Params: map[string]string{"from": c.DigitsToSpokenString(digits, locale)},
		}}, nil

	case NumericPlayback:
		if digits == "" {
			return []Segment{LiteralPhrase{Key: KeyFrom}, PlainText{Text: UnknownCaller}}, nil
		}
		assets, err := c.deps.Formatter.RenderCharacters(digits, locale)
		if err != nil {
			return nil, fmt.Errorf("rendering caller digits: %w", err)
		}
		return []Segment{LiteralPhrase{Key: KeyFrom}, AudioSequence{Assets: assets}}, nil

	case DigitDictation:
		if c.deps.Digits == nil {
			return nil, fmt.Errorf("%w: digit dictation requires a digit speech provider", ErrCollaboratorUnavailable)
		}
		sounds, err := c.deps.Digits.SoundsForDigits(digits)
		if err != nil {
			return nil, fmt.Errorf("dictating caller digits: %w", err)
		}
		return []Segment{LiteralPhrase{Key: KeyFrom}, SynthesizedDigits{Digits: digits, Sounds: sounds}}, nil

	default:
		return nil, nil
	}
}

// DigitsToSpokenString spells digits as localized words separated by
// spaces. A digit with no translation is spoken as the digit itself.
func (c *Composer) DigitsToSpokenString(digits string, locale language.Tag) string {
	words := make([]string, 0, len(digits))
	for _, d := range digits {
		word := c.deps.Resolver.Translate("digits."+string(d)+".text", locale)
		if strings.Contains(word, missingMarker) {
			word = string(d)
		}
		words = append(words, word)
	}
	return strings.Join(words, " ")
}
