package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ShardsSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wxbackup_shards_skipped_total",
		Help: "Total message shards skipped because they could not be opened or listed.",
	})
	TablesScanned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wxbackup_chat_tables_scanned_total",
		Help: "Total chat tables inspected while building chat catalogs.",
	})
	TablesSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wxbackup_chat_tables_skipped_total",
		Help: "Total chat tables skipped because of read errors.",
	})
	ContactsLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wxbackup_contacts_loaded",
		Help: "Contacts loaded by the most recent contact scan.",
	})

	CatalogDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "wxbackup_catalog_duration_seconds",
		Help:    "Time spent building a chat catalog.",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wxbackup_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "status"})
)

var registerOnce sync.Once

// Register 把所有指标注册到默认 registry，重复调用是安全的
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ShardsSkipped, TablesScanned, TablesSkipped, ContactsLoaded,
			CatalogDuration,
			HTTPRequests,
		)
	})
}
