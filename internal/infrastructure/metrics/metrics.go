package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EscrowMetrics bundles the prometheus instruments for the escrow lifecycle.
// A nil *EscrowMetrics is valid and records nothing.
type EscrowMetrics struct {
	EscrowsCreatedTotal       prometheus.CounterVec
	EscrowsFundedTotal        prometheus.CounterVec
	EscrowsReleasedTotal      prometheus.CounterVec
	EscrowsRefundedTotal      prometheus.CounterVec
	PartialRefundsTotal       prometheus.CounterVec
	DisputesOpenedTotal       prometheus.CounterVec
	DisputesResolvedTotal     prometheus.CounterVec
	DisputesEscalatedTotal    prometheus.CounterVec
	ArbiterVotesCastTotal     prometheus.CounterVec
	ProtocolFeeAmountTotal    prometheus.CounterVec
	DisputeFeeAmountTotal     prometheus.CounterVec
	EscrowAmountTotal         prometheus.CounterVec
	OperationErrorsTotal      prometheus.CounterVec
	OperationDurationSeconds prometheus.HistogramVec
}

func NewEscrowMetrics() *EscrowMetrics {
	return &EscrowMetrics{
		EscrowsCreatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrows_created_total",
				Help: "Total number of escrows created",
			},
			[]string{},
		),

		EscrowsFundedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrows_funded_total",
				Help: "Total number of escrows funded by the buyer",
			},
			[]string{},
		),

		EscrowsReleasedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrows_released_total",
				Help: "Total number of escrows released to the seller",
			},
			[]string{"kind"},
		),

		EscrowsRefundedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrows_refunded_total",
				Help: "Total number of escrows refunded to the buyer",
			},
			[]string{"kind"},
		),

		PartialRefundsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partial_refunds_total",
				Help: "Total number of partial refunds issued",
			},
			[]string{},
		),

		DisputesOpenedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "disputes_opened_total",
				Help: "Total number of disputes opened",
			},
			[]string{"opened_by"},
		),

		DisputesResolvedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "disputes_resolved_total",
				Help: "Total number of disputes resolved",
			},
			[]string{"track", "winner_side"},
		),

		DisputesEscalatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "disputes_escalated_total",
				Help: "Total number of disputes escalated to senior arbitration",
			},
			[]string{},
		),

		ArbiterVotesCastTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbiter_votes_cast_total",
				Help: "Total number of arbiter votes cast on disputed escrows",
			},
			[]string{"side"},
		),

		ProtocolFeeAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "protocol_fee_amount_total",
				Help: "Cumulative protocol fee collected in base units",
			},
			[]string{},
		),

		DisputeFeeAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispute_fee_amount_total",
				Help: "Cumulative dispute fee collected in base units",
			},
			[]string{},
		),

		EscrowAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_amount_total",
				Help: "Cumulative locked value moved through escrow in base units",
			},
			[]string{"outcome"},
		),

		OperationErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_operation_errors_total",
				Help: "Total number of rejected escrow operations",
			},
			[]string{"operation", "error_kind"},
		),

		OperationDurationSeconds: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "escrow_operation_duration_seconds",
				Help:    "Escrow operation execution time in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"operation"},
		),
	}
}

func (m *EscrowMetrics) RecordEscrowCreated() {
	if m == nil {
		return
	}
	m.EscrowsCreatedTotal.WithLabelValues().Inc()
}

func (m *EscrowMetrics) RecordEscrowFunded(amount uint64) {
	if m == nil {
		return
	}
	m.EscrowsFundedTotal.WithLabelValues().Inc()
	m.EscrowAmountTotal.WithLabelValues("funded").Add(float64(amount))
}

func (m *EscrowMetrics) RecordEscrowReleased(kind string, amount, fee uint64) {
	if m == nil {
		return
	}
	m.EscrowsReleasedTotal.WithLabelValues(kind).Inc()
	m.EscrowAmountTotal.WithLabelValues("released").Add(float64(amount))
	m.ProtocolFeeAmountTotal.WithLabelValues().Add(float64(fee))
}

func (m *EscrowMetrics) RecordEscrowRefunded(kind string, amount uint64) {
	if m == nil {
		return
	}
	m.EscrowsRefundedTotal.WithLabelValues(kind).Inc()
	m.EscrowAmountTotal.WithLabelValues("refunded").Add(float64(amount))
}

func (m *EscrowMetrics) RecordPartialRefund(amount uint64) {
	if m == nil {
		return
	}
	m.PartialRefundsTotal.WithLabelValues().Inc()
	m.EscrowAmountTotal.WithLabelValues("refunded").Add(float64(amount))
}

func (m *EscrowMetrics) RecordDisputeOpened(openedBy string) {
	if m == nil {
		return
	}
	m.DisputesOpenedTotal.WithLabelValues(openedBy).Inc()
}

func (m *EscrowMetrics) RecordDisputeResolved(track, winnerSide string, amount, fee uint64) {
	if m == nil {
		return
	}
	m.DisputesResolvedTotal.WithLabelValues(track, winnerSide).Inc()
	m.EscrowAmountTotal.WithLabelValues("resolved").Add(float64(amount))
	m.DisputeFeeAmountTotal.WithLabelValues().Add(float64(fee))
}

func (m *EscrowMetrics) RecordDisputeEscalated() {
	if m == nil {
		return
	}
	m.DisputesEscalatedTotal.WithLabelValues().Inc()
}

func (m *EscrowMetrics) RecordArbiterVote(side string) {
	if m == nil {
		return
	}
	m.ArbiterVotesCastTotal.WithLabelValues(side).Inc()
}

func (m *EscrowMetrics) RecordError(operation, errorKind string) {
	if m == nil {
		return
	}
	m.OperationErrorsTotal.WithLabelValues(operation, errorKind).Inc()
}

func (m *EscrowMetrics) RecordOperationDuration(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.OperationDurationSeconds.WithLabelValues(operation).Observe(seconds)
}
