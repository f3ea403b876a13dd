package testutils

import (
	"math/rand"
)

// Chunks splits data into pieces of at most size bytes.
func Chunks(data []byte, size int) [][]byte {
	if size <= 0 {
		size = 1
	}
	chunks := make([][]byte, 0, len(data)/size+1)
	for len(data) > size {
		chunks = append(chunks, data[:size])
		data = data[size:]
	}
	if len(data) > 0 {
		chunks = append(chunks, data)
	}
	return chunks
}

// ByteByByte splits data into single bytes.
func ByteByByte(data []byte) [][]byte {
	return Chunks(data, 1)
}

// RandomChunks splits data at pseudo-random points chosen from seed, so a
// failing split can be reproduced.
func RandomChunks(data []byte, seed int64) [][]byte {
	rng := rand.New(rand.NewSource(seed))
	var chunks [][]byte
	for len(data) > 0 {
		n := 1 + rng.Intn(len(data))
		if n > 16 && rng.Intn(2) == 0 {
			n = 1 + rng.Intn(16)
		}
		chunks = append(chunks, data[:n])
		data = data[n:]
	}
	return chunks
}

// Splits returns every way of cutting data in two, as (head, tail) pairs.
func Splits(data []byte) [][2][]byte {
	splits := make([][2][]byte, 0, len(data)+1)
	for i := 0; i <= len(data); i++ {
		splits = append(splits, [2][]byte{data[:i], data[i:]})
	}
	return splits
}
