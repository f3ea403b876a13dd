package resp

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func benchmarkReader(b *testing.B, config Config, data []byte, chunk int) {
	r, err := NewReader(config)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		for off := 0; off < len(data); off += chunk {
			r.Feed(data[off:min(off+chunk, len(data))])
			for {
				_, ok, err := r.GetReply()
				if err != nil {
					b.Fatal(err)
				}
				if !ok {
					break
				}
			}
		}
	}
}

// Benchmark decoding simple status replies
func BenchmarkReader_SimpleString(b *testing.B) {
	data := bytes.Repeat([]byte("+OK\r\n"), 100)
	benchmarkReader(b, Config{}, data, len(data))
}

// Benchmark decoding bulk strings with text decoding
func BenchmarkReader_BulkStringUTF8(b *testing.B) {
	reply, _ := Pack(strings.Repeat("v", 1024))
	benchmarkReader(b, Config{Encoding: "utf-8"}, bytes.Repeat(reply, 10), 4096)
}

// Benchmark decoding nested aggregates
func BenchmarkReader_Nested(b *testing.B) {
	data := bytes.Repeat([]byte("*3\r\n:1\r\n*2\r\n$3\r\nfoo\r\n,3.14\r\n%1\r\n+k\r\n#t\r\n"), 50)
	benchmarkReader(b, Config{}, data, len(data))
}

// Benchmark decoding a map reply
func BenchmarkReader_Map(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("%32\r\n")
	for i := range 32 {
		sb.WriteString("+key-")
		sb.WriteString(string(rune('a' + i%26)))
		sb.WriteString(string(rune('0' + i/26)))
		sb.WriteString("\r\n:1\r\n")
	}
	benchmarkReader(b, Config{}, []byte(sb.String()), sb.Len())
}

// Benchmark decoding with small reads
func BenchmarkReader_SmallChunks(b *testing.B) {
	data := bytes.Repeat([]byte("*2\r\n$5\r\nhello\r\n$5\r\nworld\r\n"), 20)
	benchmarkReader(b, Config{}, data, 7)
}

// Benchmark Pack with a short command
func BenchmarkPack_Short(b *testing.B) {
	for b.Loop() {
		if _, err := Pack("GET", "mykey"); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark Pack with mixed argument types
func BenchmarkPack_Mixed(b *testing.B) {
	value := bytes.Repeat([]byte("x"), 256)
	b.ResetTimer()

	for b.Loop() {
		if _, err := Pack("SET", "mykey", value, "EX", 3600, 1.5); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark AppendCommand reusing its buffer
func BenchmarkAppendCommand(b *testing.B) {
	buf := make([]byte, 0, 256)
	b.ResetTimer()

	for b.Loop() {
		var err error
		buf, err = AppendCommand(buf[:0], "SET", "mykey", "value")
		if err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark WriteCommand through the buffer pool
func BenchmarkWriteCommand(b *testing.B) {
	for b.Loop() {
		if err := WriteCommand(io.Discard, "SET", "mykey", "value"); err != nil {
			b.Fatal(err)
		}
	}
}
