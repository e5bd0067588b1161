package dualog

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace is prefixed before every metric.
const Namespace = "dualog"

// metrics groups various metrics counters for statistical reasons.
type metrics struct {
	ErrorCount prometheus.Counter
	WarnCount  prometheus.Counter
	InfoCount  prometheus.Counter
	DebugCount prometheus.Counter

	SubmittedLines prometheus.Counter
	DrainCycles    prometheus.Counter
	FailedAppends  prometheus.Counter
	DroppedLines   prometheus.Counter
	WrittenBytes   prometheus.Counter
	BatchSize      prometheus.Histogram
}

// Fire implements Hook interface.
func (m metrics) Fire(s Severity) error {
	switch s {
	case ErrorIssuer:
		m.ErrorCount.Inc()
	case WarnIssuer:
		m.WarnCount.Inc()
	case InfoIssuer:
		m.InfoCount.Inc()
	case DebugIssuer:
		m.DebugCount.Inc()
	}
	return nil
}

func newMetrics() metrics {
	const (
		logSubsystem   = "log"
		queueSubsystem = "queue"
	)

	return metrics{
		ErrorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: logSubsystem,
			Name:      "error_count",
			Help:      "Number of accepted ERROR messages.",
		}),
		WarnCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: logSubsystem,
			Name:      "warn_count",
			Help:      "Number of accepted WARN messages.",
		}),
		InfoCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: logSubsystem,
			Name:      "info_count",
			Help:      "Number of accepted INFO messages.",
		}),
		DebugCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: logSubsystem,
			Name:      "debug_count",
			Help:      "Number of accepted DEBUG messages.",
		}),
		SubmittedLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: queueSubsystem,
			Name:      "submitted_lines_total",
			Help:      "Lines submitted to the file append queue.",
		}),
		DrainCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: queueSubsystem,
			Name:      "drain_cycles_total",
			Help:      "Drain cycles, each issuing one file append.",
		}),
		FailedAppends: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: queueSubsystem,
			Name:      "failed_appends_total",
			Help:      "File appends that returned an error.",
		}),
		DroppedLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: queueSubsystem,
			Name:      "dropped_lines_total",
			Help:      "Lines lost together with a failed append.",
		}),
		WrittenBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: queueSubsystem,
			Name:      "written_bytes_total",
			Help:      "Bytes appended to the log file.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: queueSubsystem,
			Name:      "batch_size_lines",
			Help:      "Histogram of lines coalesced into one append.",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128, 256, 512},
		}),
	}
}

func (m metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ErrorCount,
		m.WarnCount,
		m.InfoCount,
		m.DebugCount,
		m.SubmittedLines,
		m.DrainCycles,
		m.FailedAppends,
		m.DroppedLines,
		m.WrittenBytes,
		m.BatchSize,
	}
}
