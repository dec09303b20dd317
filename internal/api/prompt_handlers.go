package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/text/language"

	"github.com/flowpbx/vmprompt/internal/intro"
	"github.com/flowpbx/vmprompt/internal/prompt"
)

// promptIDHeader carries the ID of a rendered intro.
const promptIDHeader = "X-Prompt-ID"

// composeIntroRequest is the body of POST /prompts/intro.
type composeIntroRequest struct {
	Received time.Time `json:"received"`
	From     string    `json:"from"`
	Locale   string    `json:"locale"`
	Mode     string    `json:"mode"`
	Format   string    `json:"format"`
}

// introResponse is the JSON rendering of an intro (format=json).
type introResponse struct {
	ID       string              `json:"id"`
	Mode     string              `json:"mode"`
	Locale   string              `json:"locale"`
	Segments []intro.SegmentView `json:"segments"`
}

// handleComposeIntro renders an intro for an ad-hoc message.
func (s *Server) handleComposeIntro(w http.ResponseWriter, r *http.Request) {
	var body composeIntroRequest
	if msg := readJSON(r, &body); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if body.Received.IsZero() {
		writeError(w, http.StatusBadRequest, "received is required")
		return
	}
	if msg := validateStringLen("from", body.From, maxCallerLen); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validateNoControlChars("from", body.From); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	req, msg := parseRenderOptions(body.Mode, body.Locale, body.Format)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	req.Message = &prompt.VoiceMessage{Received: body.Received, From: body.From}

	s.writeIntro(w, r, req)
}

// parseRenderOptions validates the optional mode, locale and format of a
// render request. Empty values keep the server defaults.
func parseRenderOptions(mode, locale, format string) (intro.Request, string) {
	var req intro.Request

	if mode != "" {
		m, err := prompt.ParseMode(mode)
		if err != nil {
			return req, "mode must be one of i18n_string, play_numeric, ahn_say"
		}
		req.Mode = m
	}

	if locale = strings.TrimSpace(locale); locale != "" {
		if msg := validateStringLen("locale", locale, maxLocaleLen); msg != "" {
			return req, msg
		}
		tag, err := language.Parse(locale)
		if err != nil {
			return req, "locale is not a valid language tag"
		}
		req.Locale = tag
	}

	f, err := intro.ParseFormat(format)
	if err != nil {
		return req, "format must be one of ssml, twiml, json"
	}
	req.Format = f

	return req, ""
}

// writeIntro renders req and writes the markup, or the JSON segments for
// format=json.
func (s *Server) writeIntro(w http.ResponseWriter, r *http.Request, req intro.Request) {
	res, err := s.intros.Render(req)
	if err != nil {
		s.writeRenderError(w, r, err)
		return
	}

	w.Header().Set(promptIDHeader, res.ID)
	s.logger.Info("intro rendered",
		"request_id", chimw.GetReqID(r.Context()),
		"prompt_id", res.ID,
		"mode", res.Mode.String(),
		"locale", res.Locale.String(),
		"format", string(req.Format),
	)

	if req.Format == intro.FormatJSON {
		views, err := intro.Views(res.Segments)
		if err != nil {
			s.writeRenderError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, introResponse{
			ID:       res.ID,
			Mode:     res.Mode.String(),
			Locale:   res.Locale.String(),
			Segments: views,
		})
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, res.Body); err != nil {
		s.logger.Warn("writing intro body", "prompt_id", res.ID, "error", err)
	}
}

// writeRenderError maps composition errors onto HTTP statuses.
func (s *Server) writeRenderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, prompt.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, prompt.ErrCollaboratorUnavailable):
		writeError(w, http.StatusUnprocessableEntity, "rendering mode is not available on this server")
	default:
		s.logger.Error("rendering intro failed",
			"request_id", chimw.GetReqID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
