package metrics

import (
	"time"

	pkgerrors "github.com/angelmondragon/deliverydesk-backend/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK                = "ok"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeConflict          = "conflict"
	OutcomeRejected          = "rejected"
	OutcomeError             = "error"
)

// OperationMetrics records outcomes and latency of composite domain operations
// (order placement, transfers, payments). A nil receiver is a no-op.
type OperationMetrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewOperationMetrics registers the operation metrics on the provided registerer.
func NewOperationMetrics(reg prometheus.Registerer) *OperationMetrics {
	if reg == nil {
		return &OperationMetrics{}
	}
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "deliverydesk",
		Name:      "operation_total",
		Help:      "Composite operations by outcome.",
	}, []string{"operation", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "deliverydesk",
		Name:      "operation_duration_seconds",
		Help:      "Duration of composite operations in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(total, duration)
	return &OperationMetrics{total: total, duration: duration}
}

// Observe records one finished operation. Use it with defer:
//
//	defer m.Observe("orders.create_vendor", time.Now(), &err)
func (m *OperationMetrics) Observe(operation string, started time.Time, errp *error) {
	if m == nil || m.total == nil {
		return
	}
	var err error
	if errp != nil {
		err = *errp
	}
	op := normalizeLabel(operation)
	m.total.WithLabelValues(op, OutcomeFor(err)).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

// OutcomeFor maps an operation error to its outcome label.
func OutcomeFor(err error) string {
	if err == nil {
		return OutcomeOK
	}
	switch pkgerrors.CodeOf(err) {
	case pkgerrors.CodeInsufficientStock:
		return OutcomeInsufficientStock
	case pkgerrors.CodeConflict:
		return OutcomeConflict
	case pkgerrors.CodeValidation, pkgerrors.CodeNotFound, pkgerrors.CodeStateConflict, pkgerrors.CodeUnauthorized:
		return OutcomeRejected
	default:
		return OutcomeError
	}
}

func normalizeLabel(operation string) string {
	if operation == "" {
		return "unknown"
	}
	return operation
}
