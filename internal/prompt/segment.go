package prompt

// Segment is one unit of a composed prompt. The set of implementations is
// closed: LiteralPhrase, AudioSequence, SynthesizedDigits and PlainText.
type Segment interface {
	segment()
}

// LiteralPhrase is a catalog key resolved at render time, with
// interpolation parameters.
type LiteralPhrase struct {
	Key    string            `json:"key"`
	Params map[string]string `json:"params,omitempty"`
}

// AudioAsset is a playable audio reference. Text is spoken by engines that
// cannot fetch Path.
type AudioAsset struct {
	Path string `json:"path"`
	Text string `json:"text,omitempty"`
}

// AudioSequence is an ordered run of resolved audio assets, such as the
// rendering of a timestamp. It counts as a single segment.
type AudioSequence struct {
	Assets []AudioAsset `json:"assets"`
}

// SynthesizedDigits is a digit string spoken one digit at a time by the
// digit speech provider.
type SynthesizedDigits struct {
	Digits string       `json:"digits"`
	Sounds []AudioAsset `json:"sounds"`
}

// PlainText is spoken as-is, without a catalog lookup.
type PlainText struct {
	Text string `json:"text"`
}

func (LiteralPhrase) segment()     {}
func (AudioSequence) segment()     {}
func (SynthesizedDigits) segment() {}
func (PlainText) segment()         {}
