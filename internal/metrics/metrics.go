// Package metrics exposes Prometheus metrics for intro rendering and the
// message store.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/flowpbx/vmprompt/internal/prompt"
)

const namespace = "vmprompt"

// MessageCounter returns the number of stored voicemail messages.
type MessageCounter interface {
	CountAll(ctx context.Context) (int64, error)
}

// Collector is a prometheus.Collector that reads the message store and
// process state at scrape time.
type Collector struct {
	messages  MessageCounter
	dictation bool
	startTime time.Time

	messagesDesc  *prometheus.Desc
	dictationDesc *prometheus.Desc
	uptimeDesc    *prometheus.Desc
}

// NewCollector creates a scrape-time collector. messages may be nil.
func NewCollector(messages MessageCounter, dictationAvailable bool, startTime time.Time) *Collector {
	return &Collector{
		messages:  messages,
		dictation: dictationAvailable,
		startTime: startTime,

		messagesDesc: prometheus.NewDesc(
			namespace+"_voicemail_messages",
			"Voicemail messages in the message store",
			nil, nil,
		),
		dictationDesc: prometheus.NewDesc(
			namespace+"_digit_dictation_available",
			"Whether the digit speech provider is installed (1) or not (0)",
			nil, nil,
		),
		uptimeDesc: prometheus.NewDesc(
			namespace+"_uptime_seconds",
			"Seconds since the process started",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.messagesDesc
	ch <- c.dictationDesc
	ch <- c.uptimeDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if c.messages != nil {
		count, err := c.messages.CountAll(ctx)
		if err != nil {
			slog.Error("metrics: failed to count voicemail messages", "error", err)
		} else {
			ch <- prometheus.MustNewConstMetric(c.messagesDesc, prometheus.GaugeValue, float64(count))
		}
	}

	dictation := 0.0
	if c.dictation {
		dictation = 1
	}
	ch <- prometheus.MustNewConstMetric(c.dictationDesc, prometheus.GaugeValue, dictation)

	ch <- prometheus.MustNewConstMetric(c.uptimeDesc, prometheus.GaugeValue, time.Since(c.startTime).Seconds())
}

// Recorder counts rendered intros. It implements intro.Observer.
type Recorder struct {
	rendered *prometheus.CounterVec
	failed   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRecorder creates the rendering counters. Register them with Register.
func NewRecorder() *Recorder {
	return &Recorder{
		rendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intros_rendered_total",
			Help:      "Intros rendered, by rendering mode and output format",
		}, []string{"mode", "format"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intro_render_errors_total",
			Help:      "Intro renders that failed, by rendering mode and reason",
		}, []string{"mode", "reason"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "intro_render_duration_seconds",
			Help:      "Time spent composing and serializing an intro",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		}, []string{"mode"}),
	}
}

// ObserveRender records one render attempt.
func (r *Recorder) ObserveRender(mode prompt.RenderingMode, format string, elapsed time.Duration, err error) {
	r.duration.WithLabelValues(mode.String()).Observe(elapsed.Seconds())
	if err != nil {
		r.failed.WithLabelValues(mode.String(), reason(err)).Inc()
		return
	}
	r.rendered.WithLabelValues(mode.String(), format).Inc()
}

func reason(err error) string {
	switch {
	case errors.Is(err, prompt.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, prompt.ErrCollaboratorUnavailable):
		return "unavailable"
	case errors.Is(err, prompt.ErrConfiguration):
		return "configuration"
	default:
		return "internal"
	}
}

// NewRegistry returns a registry holding the collector, the recorder and
// the standard Go and process collectors.
func NewRegistry(c *Collector, r *Recorder) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	cs := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	if c != nil {
		cs = append(cs, c)
	}
	if r != nil {
		cs = append(cs, r.rendered, r.failed, r.duration)
	}
	for _, col := range cs {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
