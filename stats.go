package resp

import (
	"sync/atomic"
)

// ReaderStats contains statistics about a Reader.
// All fields are safe for concurrent access, so a metrics exporter may read
// them while the owning goroutine keeps decoding.
//
// Struct is optimized to fit within a single cache line (64 bytes).
//
// For Prometheus integration see the metrics package, which exposes every
// field as a counter.
type ReaderStats struct {
	Replies          uint64 // Complete top-level replies returned
	BytesFed         uint64 // Total bytes accepted by Feed and FeedRange
	Incomplete       uint64 // GetReply calls that ran out of input
	ProtocolErrors   uint64 // Malformed input detected
	DeferredErrors   uint64 // Replies replaced by a decode or reply hook error
	MaxBufRejections uint64 // Tokens refused for exceeding maxbuf
	Compactions      uint64 // Consumed prefixes dropped from the buffer
	_                uint64 // Padding to align to 64 bytes
}

// readerStatsCollector provides internal methods for updating reader stats.
// Not exported - readers update their own stats.
type readerStatsCollector struct {
	stats *ReaderStats
}

func newReaderStatsCollector() *readerStatsCollector {
	return &readerStatsCollector{
		stats: &ReaderStats{},
	}
}

func (c *readerStatsCollector) recordReply() {
	atomic.AddUint64(&c.stats.Replies, 1)
}

func (c *readerStatsCollector) recordFeed(n int) {
	atomic.AddUint64(&c.stats.BytesFed, uint64(n))
}

func (c *readerStatsCollector) recordIncomplete() {
	atomic.AddUint64(&c.stats.Incomplete, 1)
}

func (c *readerStatsCollector) recordProtocolError(limit bool) {
	atomic.AddUint64(&c.stats.ProtocolErrors, 1)
	if limit {
		atomic.AddUint64(&c.stats.MaxBufRejections, 1)
	}
}

func (c *readerStatsCollector) recordDeferredError() {
	atomic.AddUint64(&c.stats.DeferredErrors, 1)
}

func (c *readerStatsCollector) recordCompaction() {
	atomic.AddUint64(&c.stats.Compactions, 1)
}

func (c *readerStatsCollector) snapshot() ReaderStats {
	return ReaderStats{
		Replies:          atomic.LoadUint64(&c.stats.Replies),
		BytesFed:         atomic.LoadUint64(&c.stats.BytesFed),
		Incomplete:       atomic.LoadUint64(&c.stats.Incomplete),
		ProtocolErrors:   atomic.LoadUint64(&c.stats.ProtocolErrors),
		DeferredErrors:   atomic.LoadUint64(&c.stats.DeferredErrors),
		MaxBufRejections: atomic.LoadUint64(&c.stats.MaxBufRejections),
		Compactions:      atomic.LoadUint64(&c.stats.Compactions),
	}
}
