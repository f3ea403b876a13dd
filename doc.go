// Package resp provides an incremental decoder for RESP2 and RESP3 replies
// and an encoder for commands.
//
// The package performs no I/O of its own. Callers read bytes from wherever
// they come from, hand them to a Reader, and get structured replies back.
// It is the wire layer for clients that want to own their connections,
// pipelining and retries.
//
// # Decoding
//
// Feed accepts bytes in arbitrary chunks; GetReply returns one complete
// top-level reply at a time:
//
//	r, _ := resp.NewReader(resp.Config{Encoding: "utf-8"})
//	r.Feed(chunk)
//	for {
//	    reply, ok, err := r.GetReply()
//	    if err != nil {
//	        if resp.ShouldCloseConnection(err) {
//	            conn.Close()
//	        }
//	        return err
//	    }
//	    if !ok {
//	        break // need more bytes
//	    }
//	    handle(reply)
//	}
//
// A reply split across Feed calls at any byte boundary decodes exactly like
// one fed in a single call.
//
// # Reply Values
//
//   - Simple, bulk and verbatim strings: string with an encoding configured,
//     []byte otherwise
//   - Integers: int64; doubles: float64; booleans: bool; big numbers: *big.Int
//   - Nulls: nil
//   - Arrays: []any; push messages: Push
//   - Maps: *Map, ordered, looked up by structural equality (see Equal)
//   - Sets: *Set, ordered and deduplicated
//   - Error replies: the Config.ReplyError hook result, *ReplyError by default
//
// Error replies are values: a failing command inside a pipeline or a
// transaction shows up at its position in the tree.
//
// # Error Handling
//
// Malformed input is reported as *ProtocolError and is sticky: the stream is
// desynchronized and the reader keeps failing until Reset. Text decoding
// failures are deferred to the end of the enclosing reply and returned in
// its place as *DecodeError, so the remaining bytes of that reply are still
// consumed and the next reply decodes normally.
//
// ShouldCloseConnection tells the two situations apart.
//
// # Limits
//
// MaxBuf bounds the bytes a single token may need buffered (DefaultMaxBuf,
// 512 MiB) and MaxElements bounds announced aggregate sizes. A peer
// announcing more is rejected before any of the payload is buffered.
//
// # Encoding Commands
//
//	b, err := resp.Pack("SET", "key", 42)
//	// *3\r\n$3\r\nSET\r\n$3\r\nkey\r\n$2\r\n42\r\n
//
// AppendCommand and WriteCommand avoid the intermediate allocation.
//
// # Metrics
//
// Reader.Stats returns counters for replies, bytes fed and failures. The
// metrics subpackage exports them to Prometheus.
package resp
