// Package metrics exports resp.Reader statistics to Prometheus.
package metrics

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pior/resp"
)

// StatsSource is implemented by *resp.Reader.
type StatsSource interface {
	Stats() resp.ReaderStats
}

// ReaderCollector is a prometheus.Collector reporting the stats of any number
// of named readers, one label value per reader.
//
// Stats are read at scrape time, so readers are never slowed by metric
// updates.
type ReaderCollector struct {
	mu      sync.RWMutex
	sources map[string]StatsSource

	replies          *prometheus.Desc
	bytesFed         *prometheus.Desc
	incomplete       *prometheus.Desc
	protocolErrors   *prometheus.Desc
	deferredErrors   *prometheus.Desc
	maxBufRejections *prometheus.Desc
	compactions      *prometheus.Desc
}

// NewReaderCollector creates a collector. namespace prefixes every metric
// name and may be empty.
func NewReaderCollector(namespace string) *ReaderCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "resp_reader", name),
			help,
			[]string{"reader"},
			nil,
		)
	}

	return &ReaderCollector{
		sources:          make(map[string]StatsSource),
		replies:          desc("replies_total", "Complete replies returned"),
		bytesFed:         desc("bytes_fed_total", "Bytes fed to the reader"),
		incomplete:       desc("incomplete_total", "Reads that ran out of buffered input"),
		protocolErrors:   desc("protocol_errors_total", "Malformed input detected"),
		deferredErrors:   desc("deferred_errors_total", "Replies replaced by a decode or reply hook error"),
		maxBufRejections: desc("maxbuf_rejections_total", "Tokens refused for exceeding maxbuf"),
		compactions:      desc("compactions_total", "Buffer compactions"),
	}
}

// Add registers a source under name, replacing any previous one.
func (c *ReaderCollector) Add(name string, source StatsSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources[name] = source
}

// Remove forgets the source registered under name.
func (c *ReaderCollector) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sources, name)
}

// Describe implements prometheus.Collector.
func (c *ReaderCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.replies
	ch <- c.bytesFed
	ch <- c.incomplete
	ch <- c.protocolErrors
	ch <- c.deferredErrors
	ch <- c.maxBufRejections
	ch <- c.compactions
}

// Collect implements prometheus.Collector.
func (c *ReaderCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	names := make([]string, 0, len(c.sources))
	for name := range c.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	stats := make([]resp.ReaderStats, len(names))
	for i, name := range names {
		stats[i] = c.sources[name].Stats()
	}
	c.mu.RUnlock()

	for i, name := range names {
		s := stats[i]
		counter := func(desc *prometheus.Desc, v uint64) {
			ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(v), name)
		}
		counter(c.replies, s.Replies)
		counter(c.bytesFed, s.BytesFed)
		counter(c.incomplete, s.Incomplete)
		counter(c.protocolErrors, s.ProtocolErrors)
		counter(c.deferredErrors, s.DeferredErrors)
		counter(c.maxBufRejections, s.MaxBufRejections)
		counter(c.compactions, s.Compactions)
	}
}
