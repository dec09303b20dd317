package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/flowpbx/vmprompt/internal/database"
	"github.com/flowpbx/vmprompt/internal/database/models"
)

// voicemailMessageResponse is the JSON response for a single voicemail message.
type voicemailMessageResponse struct {
	ID           int64  `json:"id"`
	MailboxID    int64  `json:"mailbox_id"`
	CallerIDName string `json:"caller_id_name"`
	CallerIDNum  string `json:"caller_id_num"`
	Timestamp    string `json:"timestamp"`
	Duration     int    `json:"duration"`
	Read         bool   `json:"read"`
	Locale       string `json:"locale,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// handleListVoicemailMessages returns all messages for a voicemail box,
// newest first.
func (s *Server) handleListVoicemailMessages(w http.ResponseWriter, r *http.Request) {
	boxID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid voicemail box id")
		return
	}

	msgs, err := s.messages.ListByMailbox(r.Context(), boxID)
	if err != nil {
		s.logger.Error("list voicemail messages: failed to query", "error", err, "box_id", boxID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]voicemailMessageResponse, len(msgs))
	for i := range msgs {
		items[i] = toVoicemailMessageResponse(&msgs[i])
	}
	writeJSON(w, http.StatusOK, items)
}

// handleVoicemailMessageIntro renders the intro of a stored message. The
// locale query parameter overrides the message locale, which overrides the
// server default.
func (s *Server) handleVoicemailMessageIntro(w http.ResponseWriter, r *http.Request) {
	msg, ok := s.loadMessage(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	locale := q.Get("locale")
	if locale == "" {
		locale = msg.Locale
	}
	req, errMsg := parseRenderOptions(q.Get("mode"), locale, q.Get("format"))
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}
	req.Message = database.ToVoiceMessage(msg)

	s.writeIntro(w, r, req)
}

// handleMarkVoicemailMessageRead marks a voicemail message as read, typically
// after the playback engine has played it.
func (s *Server) handleMarkVoicemailMessageRead(w http.ResponseWriter, r *http.Request) {
	msg, ok := s.loadMessage(w, r)
	if !ok {
		return
	}

	if err := s.messages.MarkRead(r.Context(), msg.ID); err != nil {
		s.logger.Error("mark voicemail read: failed to update", "error", err, "msg_id", msg.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	msg.Read = true

	s.logger.Info("voicemail message marked read", "msg_id", msg.ID, "box_id", msg.MailboxID)
	writeJSON(w, http.StatusOK, toVoicemailMessageResponse(msg))
}

// loadMessage fetches the message named by the {id} URL parameter. It
// writes the error response itself and reports false when there is none.
func (s *Server) loadMessage(w http.ResponseWriter, r *http.Request) (*models.VoicemailMessage, bool) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid message id")
		return nil, false
	}

	msg, err := s.messages.GetByID(r.Context(), id)
	if err != nil {
		s.logger.Error("voicemail message: failed to query", "error", err, "msg_id", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	if msg == nil {
		writeError(w, http.StatusNotFound, "voicemail message not found")
		return nil, false
	}
	return msg, true
}

// parseID extracts and parses the {id} URL parameter.
func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, err
	}
	if id < 1 {
		return 0, strconv.ErrRange
	}
	return id, nil
}

// toVoicemailMessageResponse converts a models.VoicemailMessage to the API response.
func toVoicemailMessageResponse(m *models.VoicemailMessage) voicemailMessageResponse {
	return voicemailMessageResponse{
		ID:           m.ID,
		MailboxID:    m.MailboxID,
		CallerIDName: m.CallerIDName,
		CallerIDNum:  m.CallerIDNum,
		Timestamp:    m.Timestamp.Format(time.RFC3339),
		Duration:     m.Duration,
		Read:         m.Read,
		Locale:       m.Locale,
		CreatedAt:    m.CreatedAt.Format(time.RFC3339),
	}
}
