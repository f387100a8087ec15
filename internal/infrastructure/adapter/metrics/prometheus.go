package metrics

import (
	"database/sql"
	"strconv"

	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "spin_rewards"

// Label names
const (
	LabelSlotType  = "slot_type"
	LabelSource    = "source"
	LabelWord      = "word"
	LabelOperation = "operation"
	LabelCode      = "code"
)

// PrometheusMetrics implements core.Metrics with Prometheus collectors
type PrometheusMetrics struct {
	spinsConsumed  *prometheus.CounterVec
	spinsGranted   *prometheus.CounterVec
	wordsClaimed   *prometheus.CounterVec
	ledgerRetries  *prometheus.CounterVec
	ledgerFailures *prometheus.CounterVec

	dbOpenConnections prometheus.Gauge
	dbInUse           prometheus.Gauge
	dbIdle            prometheus.Gauge
	dbWaitCount       prometheus.Gauge
}

// NewPrometheusMetrics registers the reward collectors on reg
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		spinsConsumed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "spins_consumed_total",
				Help:      "Paid spins by outcome slot type",
			},
			[]string{LabelSlotType},
		),
		spinsGranted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "spins_granted_total",
				Help:      "Spins granted by grant source",
			},
			[]string{LabelSource},
		),
		wordsClaimed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "words_claimed_total",
				Help:      "Redeemed letter words",
			},
			[]string{LabelWord},
		),
		ledgerRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_retries_total",
				Help:      "Ledger units retried after a lost race",
			},
			[]string{LabelOperation},
		),
		ledgerFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_failures_total",
				Help:      "Ledger units that ended in an error",
			},
			[]string{LabelOperation, LabelCode},
		),
		dbOpenConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_open_connections",
			Help:      "Open database connections",
		}),
		dbInUse: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_in_use_connections",
			Help:      "Database connections in use",
		}),
		dbIdle: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_idle_connections",
			Help:      "Idle database connections",
		}),
		dbWaitCount: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_wait_count",
			Help:      "Total connections waited for",
		}),
	}
}

var _ coreport.Metrics = (*PrometheusMetrics)(nil)

// SpinConsumed counts a paid spin
func (m *PrometheusMetrics) SpinConsumed(slotType string) {
	m.spinsConsumed.WithLabelValues(slotType).Inc()
}

// SpinsGranted counts granted spins
func (m *PrometheusMetrics) SpinsGranted(source string, spins int64) {
	if spins <= 0 {
		return
	}
	m.spinsGranted.WithLabelValues(source).Add(float64(spins))
}

// WordClaimed counts a redeemed word
func (m *PrometheusMetrics) WordClaimed(word string) {
	m.wordsClaimed.WithLabelValues(word).Inc()
}

// LedgerRetry counts a retried unit
func (m *PrometheusMetrics) LedgerRetry(operation string) {
	m.ledgerRetries.WithLabelValues(operation).Inc()
}

// LedgerFailure counts a failed unit
func (m *PrometheusMetrics) LedgerFailure(operation string, code int) {
	m.ledgerFailures.WithLabelValues(operation, strconv.Itoa(code)).Inc()
}

// ObservePool publishes connection pool statistics
func (m *PrometheusMetrics) ObservePool(stats sql.DBStats) {
	m.dbOpenConnections.Set(float64(stats.OpenConnections))
	m.dbInUse.Set(float64(stats.InUse))
	m.dbIdle.Set(float64(stats.Idle))
	m.dbWaitCount.Set(float64(stats.WaitCount))
}
