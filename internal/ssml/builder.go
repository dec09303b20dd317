// Package ssml serializes composed prompt segments into speech markup.
//
// The primary output is an SSML <speak> document. RenderTwiML produces the
// equivalent Twilio voice response for deployments that hand prompts to
// Twilio instead of an SSML engine.
package ssml

import (
	"fmt"
	"io"

	"github.com/beevik/etree"
	"golang.org/x/text/language"

	"github.com/flowpbx/vmprompt/internal/prompt"
)

// ContentType is the media type of rendered SSML documents.
const ContentType = "application/ssml+xml"

const (
	ssmlVersion   = "1.0"
	ssmlNamespace = "http://www.w3.org/2001/10/synthesis"
)

// PhraseResolver resolves a catalog key to an optional audio path and a
// fallback text.
type PhraseResolver interface {
	Resolve(key string, locale language.Tag, params map[string]string) (audioPath, text string, err error)
}

// Builder renders segments into markup documents.
type Builder struct {
	resolver PhraseResolver
}

// NewBuilder returns a Builder that resolves literal phrases with resolver.
func NewBuilder(resolver PhraseResolver) *Builder {
	return &Builder{resolver: resolver}
}

// Document is a rendered SSML document.
type Document struct {
	doc *etree.Document
}

// Root returns the <speak> element.
func (d *Document) Root() *etree.Element {
	return d.doc.Root()
}

// String returns the serialized document.
func (d *Document) String() string {
	s, err := d.doc.WriteToString()
	if err != nil {
		return ""
	}
	return s
}

// WriteTo writes the serialized document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return d.doc.WriteTo(w)
}

// Render builds an SSML document for segments. An empty segment list yields
// an empty <speak> element carrying the locale.
func (b *Builder) Render(segments []prompt.Segment, locale language.Tag) (*Document, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	speak := doc.CreateElement("speak")
	speak.CreateAttr("version", ssmlVersion)
	speak.CreateAttr("xmlns", ssmlNamespace)
	speak.CreateAttr("xml:lang", locale.String())

	for i, seg := range segments {
		if err := b.renderSegment(speak, seg, locale); err != nil {
			return nil, fmt.Errorf("rendering segment %d: %w", i, err)
		}
	}
	return &Document{doc: doc}, nil
}

func (b *Builder) renderSegment(parent *etree.Element, seg prompt.Segment, locale language.Tag) error {
	switch s := seg.(type) {
	case prompt.LiteralPhrase:
		audio, text, err := b.resolver.Resolve(s.Key, locale, s.Params)
		if err != nil {
			return err
		}
		if audio == "" {
			writeText(parent, text)
			return nil
		}
		writeAudio(parent, prompt.AudioAsset{Path: audio, Text: text})

	case prompt.AudioSequence:
		for _, a := range s.Assets {
			writeAudio(parent, a)
		}

	case prompt.SynthesizedDigits:
		if len(s.Sounds) == 0 {
			if s.Digits == "" {
				return nil
			}
			separate(parent)
			sayAs := parent.CreateElement("say-as")
			sayAs.CreateAttr("interpret-as", "characters")
			sayAs.SetText(s.Digits)
			return nil
		}
		for _, a := range s.Sounds {
			writeAudio(parent, a)
		}

	case prompt.PlainText:
		writeText(parent, s.Text)

	default:
		return fmt.Errorf("unsupported segment type %T", seg)
	}
	return nil
}

// writeText appends text to parent, separated by a space from whatever was
// written before it.
func writeText(parent *etree.Element, text string) {
	if text == "" {
		return
	}
	if len(parent.Child) > 0 {
		text = " " + text
	}
	parent.CreateCharData(text)
}

// separate appends a space when parent already has content, so fallback text
// of adjacent nodes does not run together.
func separate(parent *etree.Element) {
	if len(parent.Child) > 0 {
		parent.CreateCharData(" ")
	}
}

func writeAudio(parent *etree.Element, a prompt.AudioAsset) {
	separate(parent)
	audio := parent.CreateElement("audio")
	audio.CreateAttr("src", a.Path)
	if a.Text != "" {
		audio.SetText(a.Text)
	}
}
