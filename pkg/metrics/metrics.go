package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the call-credit engine. Registered on the default registry;
// exposed via promhttp in cmd/api.
var (
	Reconciliations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matrimony",
		Subsystem: "calls",
		Name:      "reconciliations_total",
		Help:      "Provider reconciliations by outcome.",
	}, []string{"outcome"})

	CreditDeductions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "matrimony",
		Subsystem: "ledger",
		Name:      "deductions_total",
		Help:      "Successful call-credit deductions.",
	})

	InsufficientCredits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "matrimony",
		Subsystem: "ledger",
		Name:      "insufficient_credits_total",
		Help:      "Deductions that failed because the active balance was exhausted.",
	})

	ProviderErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "matrimony",
		Subsystem: "calls",
		Name:      "provider_errors_total",
		Help:      "Failed telephony provider status lookups.",
	})
)
