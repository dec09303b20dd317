package models

import "time"

// VoicemailMessage represents a single stored voicemail message. Only the
// metadata is kept here; the recording itself lives elsewhere.
type VoicemailMessage struct {
	ID           int64
	MailboxID    int64
	CallerIDName string
	CallerIDNum  string
	Timestamp    time.Time
	Duration     int
	FilePath     string
	Read         bool
	Locale       string // BCP 47 tag, empty for the server default
	CreatedAt    time.Time
}
