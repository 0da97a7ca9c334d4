// Package metrics provides Prometheus metric collection and exposure.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metric-recording interface used by the service layer.
type Recorder interface {
	RecordRegistration()
	RecordRegistrationConflict()
	RecordSeatRelease()
	RecordConferenceQuery()
	RecordTxRetry()
}

// Collector implements Recorder backed by Prometheus counters.
type Collector struct {
	registrations         prometheus.Counter
	registrationConflicts prometheus.Counter
	seatReleases          prometheus.Counter
	conferenceQueries     prometheus.Counter
	txRetries             prometheus.Counter

	registry *prometheus.Registry
}

// NewCollector creates a Collector and registers its metrics on a fresh
// registry.
func NewCollector() *Collector {
	c := &Collector{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "conference_registrations_total",
			Help: "Successful conference registrations.",
		}),
		registrationConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "conference_registration_conflicts_total",
			Help: "Registrations rejected by a business rule (already registered, no seats).",
		}),
		seatReleases: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "conference_seat_releases_total",
			Help: "Seats returned by unregistration.",
		}),
		conferenceQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "conference_queries_total",
			Help: "Executed conference filter queries.",
		}),
		txRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "conference_tx_retries_total",
			Help: "Registration transactions retried after a conflict.",
		}),
		registry: prometheus.NewRegistry(),
	}
	c.registry.MustRegister(
		c.registrations,
		c.registrationConflicts,
		c.seatReleases,
		c.conferenceQueries,
		c.txRetries,
	)
	return c
}

func (c *Collector) RecordRegistration()         { c.registrations.Inc() }
func (c *Collector) RecordRegistrationConflict() { c.registrationConflicts.Inc() }
func (c *Collector) RecordSeatRelease()          { c.seatReleases.Inc() }
func (c *Collector) RecordConferenceQuery()      { c.conferenceQueries.Inc() }
func (c *Collector) RecordTxRetry()              { c.txRetries.Inc() }

// Handler returns the HTTP handler exposing the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Noop is a Recorder that discards all observations. Used in tests.
type Noop struct{}

func (Noop) RecordRegistration()         {}
func (Noop) RecordRegistrationConflict() {}
func (Noop) RecordSeatRelease()          {}
func (Noop) RecordConferenceQuery()      {}
func (Noop) RecordTxRetry()              {}
