package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/flowpbx/vmprompt/internal/database/models"
	"github.com/flowpbx/vmprompt/internal/prompt"
)

const voicemailMessageColumns = `id, mailbox_id, caller_id_name, caller_id_num, timestamp,
	 duration, file_path, read, locale, created_at`

// voicemailMessageRepo implements VoicemailMessageRepository.
type voicemailMessageRepo struct {
	db *DB
}

// NewVoicemailMessageRepository creates a new VoicemailMessageRepository.
func NewVoicemailMessageRepository(db *DB) VoicemailMessageRepository {
	return &voicemailMessageRepo{db: db}
}

// Create inserts a new voicemail message.
func (r *voicemailMessageRepo) Create(ctx context.Context, msg *models.VoicemailMessage) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO voicemail_messages (mailbox_id, caller_id_name, caller_id_num,
		 timestamp, duration, file_path, read, locale, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?, datetime('now'))`,
		msg.MailboxID, msg.CallerIDName, msg.CallerIDNum,
		msg.Timestamp, msg.Duration, msg.FilePath, msg.Locale,
	)
	if err != nil {
		return fmt.Errorf("inserting voicemail message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	msg.ID = id
	return nil
}

// GetByID returns a voicemail message by ID, or nil if it does not exist.
func (r *voicemailMessageRepo) GetByID(ctx context.Context, id int64) (*models.VoicemailMessage, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT `+voicemailMessageColumns+` FROM voicemail_messages WHERE id = ?`, id,
	))
}

// ListByMailbox returns all messages for a given mailbox, ordered by timestamp descending.
func (r *voicemailMessageRepo) ListByMailbox(ctx context.Context, mailboxID int64) ([]models.VoicemailMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+voicemailMessageColumns+` FROM voicemail_messages
		 WHERE mailbox_id = ? ORDER BY timestamp DESC`, mailboxID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying voicemail messages: %w", err)
	}
	defer rows.Close()

	var msgs []models.VoicemailMessage
	for rows.Next() {
		var m models.VoicemailMessage
		if err := rows.Scan(&m.ID, &m.MailboxID, &m.CallerIDName, &m.CallerIDNum,
			&m.Timestamp, &m.Duration, &m.FilePath, &m.Read, &m.Locale, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning voicemail message row: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// MarkRead marks a voicemail message as read.
func (r *voicemailMessageRepo) MarkRead(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE voicemail_messages SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking voicemail message as read: %w", err)
	}
	return nil
}

// CountAll returns the number of stored messages across all mailboxes.
func (r *voicemailMessageRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM voicemail_messages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting voicemail messages: %w", err)
	}
	return n, nil
}

func (r *voicemailMessageRepo) scanOne(row *sql.Row) (*models.VoicemailMessage, error) {
	var m models.VoicemailMessage
	err := row.Scan(&m.ID, &m.MailboxID, &m.CallerIDName, &m.CallerIDNum,
		&m.Timestamp, &m.Duration, &m.FilePath, &m.Read, &m.Locale, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning voicemail message: %w", err)
	}
	return &m, nil
}

// ToVoiceMessage converts a stored message into the composer's input. The
// caller number is preferred; the display name is used when the number is
// empty so that the intro can still fall back to "unknown caller".
func ToVoiceMessage(m *models.VoicemailMessage) *prompt.VoiceMessage {
	if m == nil {
		return nil
	}
	from := m.CallerIDNum
	if from == "" {
		from = m.CallerIDName
	}
	return &prompt.VoiceMessage{Received: m.Timestamp, From: from}
}
