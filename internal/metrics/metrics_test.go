package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/flowpbx/vmprompt/internal/prompt"
)

type fixedCounter struct {
	n   int64
	err error
}

func (f fixedCounter) CountAll(context.Context) (int64, error) { return f.n, f.err }

func TestCollector(t *testing.T) {
	c := NewCollector(fixedCounter{n: 7}, true, time.Now())

	if n := testutil.CollectAndCount(c); n != 3 {
		t.Fatalf("expected 3 metrics, got %d", n)
	}
	if n := testutil.CollectAndCount(c, "vmprompt_voicemail_messages"); n != 1 {
		t.Errorf("expected voicemail_messages metric, got %d", n)
	}
}

func TestCollector_CountErrorSkipsGauge(t *testing.T) {
	c := NewCollector(fixedCounter{err: errors.New("db closed")}, false, time.Now())

	if n := testutil.CollectAndCount(c, "vmprompt_voicemail_messages"); n != 0 {
		t.Errorf("expected no voicemail_messages metric, got %d", n)
	}
	if n := testutil.CollectAndCount(c); n != 2 {
		t.Errorf("expected 2 metrics, got %d", n)
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()

	r.ObserveRender(prompt.PhraseSynthesis, "ssml", time.Millisecond, nil)
	r.ObserveRender(prompt.PhraseSynthesis, "ssml", time.Millisecond, nil)
	r.ObserveRender(prompt.NumericPlayback, "twiml", time.Millisecond, nil)
	r.ObserveRender(prompt.DigitDictation, "ssml", time.Millisecond,
		fmt.Errorf("composing intro: %w", prompt.ErrCollaboratorUnavailable))

	if got := testutil.ToFloat64(r.rendered.WithLabelValues("i18n_string", "ssml")); got != 2 {
		t.Errorf("rendered{i18n_string,ssml} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.rendered.WithLabelValues("play_numeric", "twiml")); got != 1 {
		t.Errorf("rendered{play_numeric,twiml} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.failed.WithLabelValues("ahn_say", "unavailable")); got != 1 {
		t.Errorf("failed{ahn_say,unavailable} = %v, want 1", got)
	}
}

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{prompt.ErrInvalidArgument, "invalid_argument"},
		{fmt.Errorf("x: %w", prompt.ErrCollaboratorUnavailable), "unavailable"},
		{prompt.ErrConfiguration, "configuration"},
		{errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		if got := reason(tt.err); got != tt.want {
			t.Errorf("reason(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(NewCollector(nil, false, time.Now()), NewRecorder())
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "vmprompt_uptime_seconds" {
			found = true
		}
	}
	if !found {
		t.Error("expected vmprompt_uptime_seconds in registry")
	}
}
