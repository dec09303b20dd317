package intro

import (
	"fmt"

	"github.com/flowpbx/vmprompt/internal/prompt"
)

// SegmentView is the JSON shape of a segment: the segment fields plus a
// type discriminator.
type SegmentView struct {
	Type   string              `json:"type"`
	Key    string              `json:"key,omitempty"`
	Params map[string]string   `json:"params,omitempty"`
	Assets []prompt.AudioAsset `json:"assets,omitempty"`
	Digits string              `json:"digits,omitempty"`
	Text   string              `json:"text,omitempty"`
}

// Segment type names used in SegmentView.Type.
const (
	TypeLiteralPhrase     = "literal_phrase"
	TypeAudioSequence     = "audio_sequence"
	TypeSynthesizedDigits = "synthesized_digits"
	TypePlainText         = "plain_text"
)

// Views converts segments to their JSON representation.
func Views(segments []prompt.Segment) ([]SegmentView, error) {
	out := make([]SegmentView, 0, len(segments))
	for i, seg := range segments {
		switch s := seg.(type) {
		case prompt.LiteralPhrase:
			out = append(out, SegmentView{Type: TypeLiteralPhrase, Key: s.Key, Params: s.Params})
		case prompt.AudioSequence:
			out = append(out, SegmentView{Type: TypeAudioSequence, Assets: s.Assets})
		case prompt.SynthesizedDigits:
			out = append(out, SegmentView{Type: TypeSynthesizedDigits, Digits: s.Digits, Assets: s.Sounds})
		case prompt.PlainText:
			out = append(out, SegmentView{Type: TypePlainText, Text: s.Text})
		default:
			return nil, fmt.Errorf("segment %d: unsupported segment type %T", i, seg)
		}
	}
	return out, nil
}
