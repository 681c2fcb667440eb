package verification

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// issuanceTotal tracks code issuance outcomes
	issuanceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ridelink",
			Subsystem: "verification",
			Name:      "issuance_total",
			Help:      "Total verification code issuances",
		},
		[]string{"operation", "status"}, // operation: verification_sent, verification_resent; status: success, failed
	)

	// smsSendLatency tracks SMS delivery latency
	smsSendLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ridelink",
			Subsystem: "verification",
			Name:      "sms_send_latency_seconds",
			Help:      "SMS delivery latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
	)

	// verifyTotal tracks verification attempt outcomes
	verifyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ridelink",
			Subsystem: "verification",
			Name:      "verify_total",
			Help:      "Total verification attempts by result",
		},
		[]string{"result"}, // success, not_found, expired, invalid_code, already_used, locked
	)
)

// RecordIssuance records a code issuance result
func RecordIssuance(operation string, success bool) {
	status := "success"
	if !success {
		status = "failed"
	}
	issuanceTotal.WithLabelValues(operation, status).Inc()
}

// RecordVerification records a verification attempt result
func RecordVerification(result string) {
	verifyTotal.WithLabelValues(result).Inc()
}

// RecordSMSLatency records SMS delivery latency
func RecordSMSLatency(seconds float64) {
	smsSendLatency.Observe(seconds)
}
