package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RowsImported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "merchant_analytics_rows_imported_total",
		Help: "Total number of CSV rows inserted into the store.",
	})

	RowsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "merchant_analytics_rows_skipped_total",
		Help: "Total number of CSV rows rejected by validation.",
	})

	FilesImported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "merchant_analytics_files_imported_total",
		Help: "Total number of CSV files fully imported.",
	})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "merchant_analytics_http_request_duration_seconds",
		Help:    "HTTP request latency, labelled by route and status code.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"route", "status"})
)
