package resp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilder_Scalar(t *testing.T) {
	var b builder
	root, done := b.deliver(int64(1))
	require.True(t, done)
	require.Equal(t, int64(1), root)
	require.True(t, b.idle())
}

func TestBuilder_Nested(t *testing.T) {
	var b builder

	_, done := b.open(TagArray, 2)
	require.False(t, done)
	_, done = b.open(TagMap, 1)
	require.False(t, done)
	require.Equal(t, 2, b.depth())

	_, done = b.deliver("k")
	require.False(t, done)
	_, done = b.deliver("v")
	require.False(t, done)
	require.Equal(t, 1, b.depth())

	root, done := b.deliver(int64(7))
	require.True(t, done)
	require.True(t, b.idle())
	requireEqualReply(t, []any{NewMap(MapEntry{Key: "k", Value: "v"}), int64(7)}, root)
}

func TestBuilder_EmptyAggregates(t *testing.T) {
	var b builder

	root, done := b.open(TagSet, 0)
	require.True(t, done)
	require.IsType(t, &Set{}, root)

	b.open(TagPush, 2)
	_, done = b.open(TagArray, 0)
	require.False(t, done)
	root, done = b.open(TagMap, 0)
	require.True(t, done)
	require.Equal(t, Push{[]any{}, newMap(0)}, root)
}

func TestBuilder_MapPendingKey(t *testing.T) {
	var b builder
	b.open(TagMap, 2)

	b.deliver("a")
	f := b.stack[0]
	require.Equal(t, "a", f.key)
	require.Equal(t, 0, f.m.Len())

	b.deliver(int64(1))
	require.Nil(t, b.stack[0].key)
	require.Equal(t, 1, b.stack[0].m.Len())
}

func TestBuilder_Reset(t *testing.T) {
	var b builder
	b.open(TagArray, 3)
	b.open(TagArray, 3)
	b.reset()
	require.True(t, b.idle())

	root, done := b.deliver("x")
	require.True(t, done)
	require.Equal(t, "x", root)
}

func TestFrame_PreallocIsCapped(t *testing.T) {
	f := newFrame(TagArray, 1<<30)
	require.Equal(t, maxPrealloc, cap(f.items))
	require.Equal(t, 1<<30, f.need)

	f = newFrame(TagMap, 10)
	require.Equal(t, 20, f.need)
}
