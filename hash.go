package resp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"reflect"

	"github.com/zeebo/xxh3"
)

// Kind prefixes keep values of different shapes from hashing alike.
// Text covers both string and []byte.
const (
	hashNil byte = iota
	hashText
	hashInt
	hashDouble
	hashBool
	hashBig
	hashError
	hashArray
	hashPush
	hashMap
	hashSet
	hashOther
)

// hashValue returns a structural hash of a reply value, consistent with Equal.
// Map entries and set members are combined by addition so that arrival order
// does not matter.
func hashValue(v any) uint64 {
	h := xxh3.New()
	var scratch [9]byte

	writeKind := func(kind byte) {
		scratch[0] = kind
		h.Write(scratch[:1])
	}
	writeUint := func(kind byte, n uint64) {
		scratch[0] = kind
		binary.LittleEndian.PutUint64(scratch[1:], n)
		h.Write(scratch[:])
	}

	switch x := v.(type) {
	case nil:
		writeKind(hashNil)
	case string:
		writeKind(hashText)
		h.WriteString(x)
	case []byte:
		writeKind(hashText)
		h.Write(x)
	case int64:
		writeUint(hashInt, uint64(x))
	case float64:
		if x == 0 {
			x = 0 // -0 == 0 under Equal
		}
		writeUint(hashDouble, math.Float64bits(x))
	case bool:
		var n uint64
		if x {
			n = 1
		}
		writeUint(hashBool, n)
	case *big.Int:
		writeKind(hashBig)
		h.WriteString(x.String())
	case error:
		writeKind(hashError)
		h.WriteString(x.Error())
	case []any:
		writeUint(hashArray, uint64(len(x)))
		for _, item := range x {
			writeUint(hashArray, hashValue(item))
		}
	case Push:
		writeUint(hashPush, uint64(len(x)))
		for _, item := range x {
			writeUint(hashPush, hashValue(item))
		}
	case *Map:
		var sum uint64
		for _, e := range x.Entries() {
			sum += hashPair(hashValue(e.Key), hashValue(e.Value))
		}
		writeUint(hashMap, sum)
	case *Set:
		var sum uint64
		for _, m := range x.Members() {
			sum += hashValue(m)
		}
		writeUint(hashSet, sum)
	default:
		writeKind(hashOther)
		fmt.Fprintf(h, "%T:%v", x, x)
	}

	return h.Sum64()
}

func hashPair(k, v uint64) uint64 {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[:8], k)
	binary.LittleEndian.PutUint64(b[8:], v)
	return xxh3.Hash(b[:])
}

// Equal reports whether two reply values are structurally equal.
//
// string and []byte values holding the same bytes are equal. Maps are equal
// when they hold the same keys with equal values, sets when they hold the same
// members, regardless of order. Error values are equal when their messages
// are. NaN is not equal to itself.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case string:
		switch y := b.(type) {
		case string:
			return x == y
		case []byte:
			return x == string(y)
		}
		return false
	case []byte:
		switch y := b.(type) {
		case string:
			return string(x) == y
		case []byte:
			return bytes.Equal(x, y)
		}
		return false
	case int64:
		y, ok := b.(int64)
		return ok && x == y
	case float64:
		y, ok := b.(float64)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case *big.Int:
		y, ok := b.(*big.Int)
		return ok && x.Cmp(y) == 0
	case []any:
		y, ok := b.([]any)
		return ok && equalSlices(x, y)
	case Push:
		y, ok := b.(Push)
		return ok && equalSlices(x, y)
	case *Map:
		y, ok := b.(*Map)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, e := range x.Entries() {
			v, found := y.Get(e.Key)
			if !found || !Equal(e.Value, v) {
				return false
			}
		}
		return true
	case *Set:
		y, ok := b.(*Set)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, m := range x.Members() {
			if !y.Contains(m) {
				return false
			}
		}
		return true
	case error:
		y, ok := b.(error)
		return ok && reflect.TypeOf(x) == reflect.TypeOf(y) && x.Error() == y.Error()
	}
	return reflect.DeepEqual(a, b)
}

func equalSlices(x, y []any) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if !Equal(x[i], y[i]) {
			return false
		}
	}
	return true
}
