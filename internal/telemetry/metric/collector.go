// Package metric provides Prometheus metrics for snapkv.
package metric

import "github.com/prometheus/client_golang/prometheus"

// Stats is a point-in-time size sample.
type Stats struct {
	Records   int
	Fields    int
	Snapshots int
}

// StatsFunc returns the current sizes. It is called on every scrape.
type StatsFunc func() Stats

// Collector reports store and archive sizes as gauges.
type Collector struct {
	stats StatsFunc

	records   *prometheus.Desc
	fields    *prometheus.Desc
	snapshots *prometheus.Desc
}

// NewCollector creates a collector sampling stats on each scrape.
func NewCollector(stats StatsFunc) *Collector {
	return &Collector{
		stats: stats,
		records: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "records"),
			"Records held by the live store, including ones with only expired fields.",
			nil, nil,
		),
		fields: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "fields"),
			"Cells held by the live store, including expired ones not yet removed.",
			nil, nil,
		),
		snapshots: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "snapshots"),
			"Snapshots held by the backup archive.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.records
	ch <- c.fields
	ch <- c.snapshots
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(c.records, prometheus.GaugeValue, float64(s.Records))
	ch <- prometheus.MustNewConstMetric(c.fields, prometheus.GaugeValue, float64(s.Fields))
	ch <- prometheus.MustNewConstMetric(c.snapshots, prometheus.GaugeValue, float64(s.Snapshots))
}
