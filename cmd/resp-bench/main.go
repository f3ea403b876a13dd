package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pior/resp"
)

type Workload string

const (
	Simple Workload = "simple"
	Bulk   Workload = "bulk"
	Nested Workload = "nested"
	Hash   Workload = "map"
	All    Workload = "all"
)

type BenchmarkResult struct {
	Workload     Workload
	Duration     time.Duration
	Replies      int64
	Bytes        int64
	Failures     int64
	RepliesPerS  float64
	MBPerSecond  float64
	Correctness  bool
	ErrorMessage string
}

func main() {
	var (
		workload    = flag.String("workload", "all", "Workload: simple, bulk, nested, map, or all")
		duration    = flag.Duration("duration", 3*time.Second, "Duration of each benchmark")
		concurrency = flag.Int("concurrency", 1, "Number of concurrent readers")
		chunk       = flag.Int("chunk", 4096, "Bytes fed per Feed call")
		batch       = flag.Int("batch", 100, "Replies per fed batch")
		encoding    = flag.String("encoding", "", "Text encoding, empty for raw bytes")
	)
	flag.Parse()

	if *chunk <= 0 || *batch <= 0 {
		log.Fatal("chunk and batch must be positive")
	}

	fmt.Printf("RESP Reader Benchmark Tool\n")
	fmt.Printf("==========================\n")
	fmt.Printf("Workload: %s\n", *workload)
	fmt.Printf("Duration: %v\n", *duration)
	fmt.Printf("Concurrency: %d\n", *concurrency)
	fmt.Printf("Chunk: %d bytes\n", *chunk)
	fmt.Println()

	config := resp.Config{Encoding: *encoding}

	workloads := []Workload{Simple, Bulk, Nested, Hash}
	if Workload(*workload) != All {
		workloads = []Workload{Workload(*workload)}
	}
	for _, w := range workloads {
		fmt.Printf("--- Running %s benchmark ---\n", w)
		printResult(run(config, w, *duration, *concurrency, *chunk, *batch))
	}
}

// payload returns one reply of the workload.
func payload(w Workload) ([]byte, error) {
	switch w {
	case Simple:
		return []byte("+OK\r\n"), nil
	case Bulk:
		return resp.Pack(strings.Repeat("v", 512))
	case Nested:
		return []byte("*3\r\n:1\r\n*2\r\n$3\r\nfoo\r\n,3.14\r\n%1\r\n+k\r\n#t\r\n"), nil
	case Hash:
		var sb strings.Builder
		sb.WriteString("%16\r\n")
		for i := range 16 {
			fmt.Fprintf(&sb, "$6\r\nkey-%02d\r\n:%d\r\n", i, i)
		}
		return []byte(sb.String()), nil
	}
	return nil, fmt.Errorf("unknown workload: %s", w)
}

func run(config resp.Config, w Workload, duration time.Duration, concurrency, chunk, batch int) *BenchmarkResult {
	result := &BenchmarkResult{Workload: w, Correctness: true}

	one, err := payload(w)
	if err != nil {
		result.Correctness = false
		result.ErrorMessage = err.Error()
		return result
	}
	data := []byte(strings.Repeat(string(one), batch))

	var replies, bytes, failures int64
	var mu sync.Mutex

	startTime := time.Now()
	var wg sync.WaitGroup

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			r, err := resp.NewReader(config)
			if err != nil {
				atomic.AddInt64(&failures, 1)
				return
			}

			for time.Since(startTime) < duration {
				got := 0
				for off := 0; off < len(data); off += chunk {
					r.Feed(data[off:min(off+chunk, len(data))])
					for {
						_, ok, err := r.GetReply()
						if err != nil {
							atomic.AddInt64(&failures, 1)
							r.Reset()
							break
						}
						if !ok {
							break
						}
						got++
					}
				}
				atomic.AddInt64(&replies, int64(got))
				atomic.AddInt64(&bytes, int64(len(data)))

				if got != batch {
					mu.Lock()
					result.Correctness = false
					result.ErrorMessage = fmt.Sprintf("decoded %d replies, expected %d", got, batch)
					mu.Unlock()
				}
			}
		}()
	}

	wg.Wait()

	result.Duration = time.Since(startTime)
	result.Replies = replies
	result.Bytes = bytes
	result.Failures = failures

	if replies > 0 {
		result.RepliesPerS = float64(replies) / result.Duration.Seconds()
		result.MBPerSecond = float64(bytes) / result.Duration.Seconds() / (1 << 20)
	}

	return result
}

func printResult(result *BenchmarkResult) {
	fmt.Printf("Workload: %s\n", result.Workload)
	fmt.Printf("Duration: %v\n", result.Duration)
	fmt.Printf("Replies: %d\n", result.Replies)
	fmt.Printf("Failures: %d\n", result.Failures)
	if result.Replies > 0 {
		fmt.Printf("Replies/sec: %.2f\n", result.RepliesPerS)
		fmt.Printf("Throughput: %.2f MiB/s\n", result.MBPerSecond)
	}
	fmt.Printf("Correctness: %t\n", result.Correctness)
	if result.ErrorMessage != "" {
		fmt.Printf("Error: %s\n", result.ErrorMessage)
	}
	fmt.Println()
}
