package resp_test

import (
	"fmt"

	"github.com/pior/resp"
)

// Example demonstrating how to read reader stats for CLI tools
func ExampleReader_Stats() {
	r, err := resp.NewReader(resp.Config{MaxBuf: 64})
	if err != nil {
		panic(err)
	}

	r.Feed([]byte("+OK\r\n:1\r\n$100\r\n"))
	for {
		_, ok, err := r.GetReply()
		if err != nil || !ok {
			break
		}
	}

	stats := r.Stats()

	fmt.Printf("Replies: %d\n", stats.Replies)
	fmt.Printf("Bytes fed: %d\n", stats.BytesFed)
	fmt.Printf("Protocol errors: %d\n", stats.ProtocolErrors)
	fmt.Printf("Maxbuf rejections: %d\n", stats.MaxBufRejections)
	// Output:
	// Replies: 2
	// Bytes fed: 15
	// Protocol errors: 1
	// Maxbuf rejections: 1
}
