package service

import "github.com/messagely/messagely/internal/observability/metrics"

func incrementTokensIssued() {
	metrics.TokensIssued.Inc()
}

func incrementTokenVerificationsFailed() {
	metrics.TokenVerificationsFailed.Inc()
}

func incrementRegistrations(outcome string) {
	metrics.RegistrationsTotal.WithLabelValues(outcome).Inc()
}

func incrementLogins(outcome string) {
	metrics.LoginsTotal.WithLabelValues(outcome).Inc()
}
