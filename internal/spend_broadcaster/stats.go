package spend_broadcaster

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bitcoin-sv/spend-broadcaster/internal/node_client"
)

var ErrFailedToRegisterStats = errors.New("failed to register stats collector")

// Stats holds the prometheus collectors of the spend broadcaster. A nil *Stats is valid and
// records nothing.
type Stats struct {
	ticks         prometheus.Counter
	fetchErrors   prometheus.Counter
	pendingTxs    prometheus.Gauge
	broadcasted   prometheus.Counter
	alreadyKnown  prometheus.Counter
	rejectedTxs   prometheus.Counter
	fatalErrors   prometheus.Counter
	restarts      prometheus.Counter
	tickDuration  prometheus.Histogram
	registeredCol []prometheus.Collector
}

func NewStats() (*Stats, error) {
	s := &Stats{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spend_broadcaster_ticks_total",
			Help: "Number of broadcast attempts",
		}),
		fetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spend_broadcaster_fetch_errors_total",
			Help: "Number of failures to read pending spend transactions",
		}),
		pendingTxs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "spend_broadcaster_pending_txs",
			Help: "Number of pending spend transactions found by the last attempt",
		}),
		broadcasted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spend_broadcaster_broadcasted_total",
			Help: "Number of spend transactions accepted by the node and marked as broadcasted",
		}),
		alreadyKnown: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spend_broadcaster_already_known_total",
			Help: "Number of spend transactions already known to the node and marked as broadcasted",
		}),
		rejectedTxs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spend_broadcaster_rejected_total",
			Help: "Number of spend transactions not accepted by the node, left pending",
		}),
		fatalErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spend_broadcaster_fatal_errors_total",
			Help: "Number of fatal errors which stopped the broadcaster",
		}),
		restarts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spend_broadcaster_restarts_total",
			Help: "Number of restarts of the broadcaster after a fatal error",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "spend_broadcaster_tick_duration_seconds",
			Help:    "Duration of a broadcast attempt",
			Buckets: prometheus.DefBuckets,
		}),
	}

	collectors := []prometheus.Collector{
		s.ticks,
		s.fetchErrors,
		s.pendingTxs,
		s.broadcasted,
		s.alreadyKnown,
		s.rejectedTxs,
		s.fatalErrors,
		s.restarts,
		s.tickDuration,
	}

	for _, c := range collectors {
		err := prometheus.Register(c)
		if err != nil {
			// only roll back what this instance registered
			s.Unregister()
			return nil, errors.Join(ErrFailedToRegisterStats, err)
		}
		s.registeredCol = append(s.registeredCol, c)
	}

	return s, nil
}

func (s *Stats) Unregister() {
	if s == nil {
		return
	}

	for _, c := range s.registeredCol {
		_ = prometheus.Unregister(c)
	}
}

func (s *Stats) tick() {
	if s == nil {
		return
	}
	s.ticks.Inc()
}

func (s *Stats) observeTick(d time.Duration) {
	if s == nil {
		return
	}
	s.tickDuration.Observe(d.Seconds())
}

func (s *Stats) fetchError() {
	if s == nil {
		return
	}
	s.fetchErrors.Inc()
}

func (s *Stats) setPending(n int) {
	if s == nil {
		return
	}
	s.pendingTxs.Set(float64(n))
}

func (s *Stats) marked(outcome node_client.Outcome) {
	if s == nil {
		return
	}

	if outcome == node_client.OutcomeAlreadyKnown {
		s.alreadyKnown.Inc()
		return
	}
	s.broadcasted.Inc()
}

func (s *Stats) rejected() {
	if s == nil {
		return
	}
	s.rejectedTxs.Inc()
}

func (s *Stats) fatalError() {
	if s == nil {
		return
	}
	s.fatalErrors.Inc()
}

func (s *Stats) restart() {
	if s == nil {
		return
	}
	s.restarts.Inc()
}
