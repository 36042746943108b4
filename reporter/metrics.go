package reporter

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "faultdump"

type metrics struct {
	events         *prometheus.CounterVec
	reportsWritten prometheus.Counter
	reportFailures prometheus.Counter
	captures       *prometheus.CounterVec
}

func newMetrics() *metrics {
	return &metrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "diagnostic_events_total",
			Help:      "Diagnostic events received, by severity",
		}, []string{"severity"}),
		reportsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "reports_written_total",
			Help:      "Crash reports persisted to the reports root",
		}),
		reportFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "report_failures_total",
			Help:      "Crash reports that could not be written",
		}),
		captures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "minidump_captures_total",
			Help:      "Minidump capture attempts, by outcome",
		}, []string{"outcome"}),
	}
}

func (m *metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.events, m.reportsWritten, m.reportFailures, m.captures}
}
