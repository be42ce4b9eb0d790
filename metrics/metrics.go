package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	LedgerMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vaultgrow",
			Subsystem: "ledger",
			Name:      "mutations_total",
			Help:      "Balance deltas applied, by field and direction.",
		},
		[]string{"field", "direction"},
	)

	LedgerRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vaultgrow",
			Subsystem: "ledger",
			Name:      "insufficient_funds_total",
			Help:      "Debits refused because the field would go negative.",
		},
		[]string{"field"},
	)

	AccrualRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vaultgrow",
			Subsystem: "accrual",
			Name:      "runs_total",
			Help:      "Accrual sweeps, by outcome.",
		},
		[]string{"outcome"},
	)

	AccrualInvestments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vaultgrow",
			Subsystem: "accrual",
			Name:      "investments_total",
			Help:      "Investments visited by the accrual sweep, by result.",
		},
		[]string{"result"},
	)

	AccrualDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "vaultgrow",
			Subsystem: "accrual",
			Name:      "run_duration_seconds",
			Help:      "Duration of one accrual sweep.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		},
	)
)

func init() {
	Registry.MustRegister(
		LedgerMutations,
		LedgerRejections,
		AccrualRuns,
		AccrualInvestments,
		AccrualDuration,
	)
}

// Handler exposes the registry on a Fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}
