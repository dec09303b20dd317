package ssml

import (
	"fmt"
	"strings"

	"github.com/twilio/twilio-go/twiml"
	"golang.org/x/text/language"

	"github.com/flowpbx/vmprompt/internal/prompt"
)

// TwiMLContentType is the media type of rendered TwiML responses.
const TwiMLContentType = "text/xml"

// RenderTwiML renders segments as a TwiML voice response: resolved audio
// becomes <Play>, text becomes <Say> in the given locale.
func (b *Builder) RenderTwiML(segments []prompt.Segment, locale language.Tag) (string, error) {
	lang := locale.String()
	say := func(text string) twiml.Element {
		return &twiml.VoiceSay{Message: text, Language: lang}
	}
	play := func(url string) twiml.Element {
		return &twiml.VoicePlay{Url: url}
	}

	var verbs []twiml.Element
	for i, seg := range segments {
		switch s := seg.(type) {
		case prompt.LiteralPhrase:
			audio, text, err := b.resolver.Resolve(s.Key, locale, s.Params)
			if err != nil {
				return "", fmt.Errorf("rendering segment %d: %w", i, err)
			}
			if audio != "" {
				verbs = append(verbs, play(audio))
			} else if text != "" {
				verbs = append(verbs, say(text))
			}
		case prompt.AudioSequence:
			for _, a := range s.Assets {
				verbs = append(verbs, play(a.Path))
			}
		case prompt.SynthesizedDigits:
			if len(s.Sounds) == 0 {
				if s.Digits != "" {
					verbs = append(verbs, say(strings.Join(strings.Split(s.Digits, ""), " ")))
				}
				continue
			}
			for _, a := range s.Sounds {
				verbs = append(verbs, play(a.Path))
			}
		case prompt.PlainText:
			if s.Text != "" {
				verbs = append(verbs, say(s.Text))
			}
		default:
			return "", fmt.Errorf("rendering segment %d: unsupported segment type %T", i, seg)
		}
	}

	out, err := twiml.Voice(verbs)
	if err != nil {
		return "", fmt.Errorf("encoding twiml: %w", err)
	}
	return out, nil
}
