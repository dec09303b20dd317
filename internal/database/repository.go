package database

import (
	"context"

	"github.com/flowpbx/vmprompt/internal/database/models"
)

// VoicemailMessageRepository manages voicemail message metadata.
type VoicemailMessageRepository interface {
	Create(ctx context.Context, msg *models.VoicemailMessage) error
	GetByID(ctx context.Context, id int64) (*models.VoicemailMessage, error)
	ListByMailbox(ctx context.Context, mailboxID int64) ([]models.VoicemailMessage, error)
	MarkRead(ctx context.Context, id int64) error
	CountAll(ctx context.Context) (int64, error)
}
