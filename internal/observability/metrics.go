// Package observability holds Prometheus metric definitions and helpers.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toolgate_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "toolgate_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// RequestDecisionsTotal counts admin decisions on tool requests by outcome.
	RequestDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toolgate_request_decisions_total",
		Help: "Total number of tool request decisions by outcome",
	}, []string{"outcome"})

	// ReportsSubmittedTotal counts submitted usage reports.
	ReportsSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "toolgate_reports_submitted_total",
		Help: "Total number of usage reports submitted",
	})

	// VulnerabilityLookupsTotal counts vulnerability searches by data source.
	VulnerabilityLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toolgate_vulnerability_lookups_total",
		Help: "Total number of vulnerability lookups by data source",
	}, []string{"source"})

	// OverdueRemindersTotal counts overdue-report reminder alerts sent.
	OverdueRemindersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "toolgate_overdue_reminders_total",
		Help: "Total number of overdue report reminder alerts sent",
	})
)
