package resp

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestReaderStats_Size(t *testing.T) {
	require.Equal(t, uintptr(64), unsafe.Sizeof(ReaderStats{}))
}

func TestReaderStatsCollector(t *testing.T) {
	c := newReaderStatsCollector()

	c.recordReply()
	c.recordReply()
	c.recordFeed(10)
	c.recordIncomplete()
	c.recordProtocolError(false)
	c.recordProtocolError(true)
	c.recordDeferredError()
	c.recordCompaction()

	require.Equal(t, ReaderStats{
		Replies:          2,
		BytesFed:         10,
		Incomplete:       1,
		ProtocolErrors:   2,
		DeferredErrors:   1,
		MaxBufRejections: 1,
		Compactions:      1,
	}, c.snapshot())
}

func TestReaderStats_ConcurrentRead(t *testing.T) {
	r := newTestReader(t, Config{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 1000 {
			_ = r.Stats()
		}
	}()

	for range 1000 {
		r.Feed([]byte(":1\r\n"))
		requireReply(t, r)
	}
	wg.Wait()

	stats := r.Stats()
	require.Equal(t, uint64(1000), stats.Replies)
	require.Equal(t, uint64(4000), stats.BytesFed)
}
