package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SettlementMetrics covers the reconciliation and payout workflows.
type SettlementMetrics struct {
	TransfersRevertedTotal  prometheus.CounterVec
	TransfersConfirmedTotal prometheus.CounterVec
	TransfersPackedTotal    prometheus.CounterVec
	OrdersPickedOffTotal    prometheus.CounterVec

	PayoutsExecutedTotal prometheus.CounterVec
	PayoutsAmountTotal   prometheus.CounterVec
	PayoutBatchDuration  prometheus.HistogramVec
	StuckPayoutsGauge    prometheus.GaugeVec

	AccountingsExpiredTotal     prometheus.CounterVec
	AccountingsApproachingTotal prometheus.CounterVec

	SettlementErrorsTotal prometheus.CounterVec
}

func NewSettlementMetrics() *SettlementMetrics {
	return &SettlementMetrics{
		TransfersRevertedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transfers_reverted_total",
				Help: "Count of order transfers reverted by undo-confirm",
			},
			[]string{"application_id"},
		),

		TransfersConfirmedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transfers_confirmed_total",
				Help: "Count of order transfers settled by confirm",
			},
			[]string{"application_id"},
		),

		TransfersPackedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transfers_packed_total",
				Help: "Count of order transfers created by the auto-pack task",
			},
			[]string{"application_id"},
		),

		OrdersPickedOffTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_picked_off_total",
				Help: "Count of orders removed from in-flight transfers",
			},
			[]string{"application_id"},
		),

		PayoutsExecutedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payouts_executed_total",
				Help: "Count of payouts driven through a gateway, by outcome",
			},
			[]string{"application_id", "gateway", "status"},
		),

		PayoutsAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payouts_amount_total",
				Help: "Total amount of finished payouts",
			},
			[]string{"application_id", "gateway", "currency"},
		),

		PayoutBatchDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payout_batch_duration_seconds",
				Help:    "Wall-clock duration of a payout batch execution",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			},
			[]string{"gateway"},
		),

		StuckPayoutsGauge: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stuck_payouts",
				Help: "Payouts sitting in_process longer than the configured age",
			},
			[]string{"application_id"},
		),

		AccountingsExpiredTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accountings_expired_total",
				Help: "Scheduled accountings deleted by the expiry sweep",
			},
			[]string{"application_id"},
		),

		AccountingsApproachingTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accountings_approaching_total",
				Help: "Scheduled accountings whose execution date arrived",
			},
			[]string{"application_id"},
		),

		SettlementErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_errors_total",
				Help: "Errors during settlement workflows",
			},
			[]string{"operation"},
		),
	}
}

func (m *SettlementMetrics) RecordTransferReverted(applicationID string) {
	m.TransfersRevertedTotal.WithLabelValues(applicationID).Inc()
}

func (m *SettlementMetrics) RecordTransferConfirmed(applicationID string) {
	m.TransfersConfirmedTotal.WithLabelValues(applicationID).Inc()
}

func (m *SettlementMetrics) RecordTransfersPacked(applicationID string, count int) {
	m.TransfersPackedTotal.WithLabelValues(applicationID).Add(float64(count))
}

func (m *SettlementMetrics) RecordOrderPickedOff(applicationID string) {
	m.OrdersPickedOffTotal.WithLabelValues(applicationID).Inc()
}

func (m *SettlementMetrics) RecordPayoutExecuted(applicationID, gateway, status string) {
	m.PayoutsExecutedTotal.WithLabelValues(applicationID, gateway, status).Inc()
}

func (m *SettlementMetrics) RecordPayoutAmount(applicationID, gateway, currency string, amount float64) {
	m.PayoutsAmountTotal.WithLabelValues(applicationID, gateway, currency).Add(amount)
}

func (m *SettlementMetrics) RecordPayoutBatchDuration(gateway string, seconds float64) {
	m.PayoutBatchDuration.WithLabelValues(gateway).Observe(seconds)
}

func (m *SettlementMetrics) RecordStuckPayouts(applicationID string, count int) {
	m.StuckPayoutsGauge.WithLabelValues(applicationID).Set(float64(count))
}

func (m *SettlementMetrics) RecordAccountingExpired(applicationID string) {
	m.AccountingsExpiredTotal.WithLabelValues(applicationID).Inc()
}

func (m *SettlementMetrics) RecordAccountingApproaching(applicationID string) {
	m.AccountingsApproachingTotal.WithLabelValues(applicationID).Inc()
}

func (m *SettlementMetrics) RecordError(operation string) {
	m.SettlementErrorsTotal.WithLabelValues(operation).Inc()
}
