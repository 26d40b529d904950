package irc

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// commands no registered handler names share one label value
const otherCommand = "other"

// Metrics counts what a Session dispatches. A nil *Metrics records nothing.
type Metrics struct {
	events     *prometheus.CounterVec
	exceptions *prometheus.CounterVec
	tokens     *prometheus.CounterVec
}

// NewMetrics creates the session collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ircstate",
			Name:      "events_dispatched_total",
			Help:      "Raw protocol events dispatched, by command.",
		}, []string{"command"}),
		exceptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ircstate",
			Name:      "event_exceptions_total",
			Help:      "Non-fatal exceptions tracked against dispatched events, by command.",
		}, []string{"command"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ircstate",
			Name:      "isupport_tokens_total",
			Help:      "ISUPPORT tokens processed, by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.events, m.exceptions, m.tokens)
	return m
}

func (m *Metrics) observeEvent(e *RawEvent, handled bool) {
	if m == nil {
		return
	}
	label := otherCommand
	if handled {
		label = strings.ToUpper(e.Command())
	}
	m.events.WithLabelValues(label).Inc()
	if n := len(e.exceptions); n > 0 {
		m.exceptions.WithLabelValues(label).Add(float64(n))
	}
}

func (m *Metrics) observeToken(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.tokens.WithLabelValues("failed").Inc()
		return
	}
	m.tokens.WithLabelValues("applied").Inc()
}
