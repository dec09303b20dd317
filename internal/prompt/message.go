package prompt

import "time"

// VoiceMessage is the part of a stored voicemail the intro is built from.
// From is the caller identifier exactly as it was captured and may contain
// formatting such as "+1 (555) 123-4567".
type VoiceMessage struct {
	Received time.Time
	From     string
}
