package resp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShouldCloseConnection(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "protocol error", err: protocolErrorf("Bad integer value"), want: true},
		{name: "wrapped protocol error", err: fmt.Errorf("read: %w", protocolErrorf("x")), want: true},
		{name: "invalid input", err: &InvalidInputError{Message: "negative input"}, want: false},
		{name: "decode error", err: &DecodeError{Encoding: "utf-8", Offset: -1}, want: false},
		{name: "reply hook error", err: &ReplyHookError{Message: "ERR", Err: errors.New("boom")}, want: false},
		{name: "reply error", err: &ReplyError{Message: "ERR"}, want: false},
		{name: "unknown error", err: errors.New("boom"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ShouldCloseConnection(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	require.EqualError(t, &InvalidInputError{Message: "negative input"}, "resp: invalid input: negative input")
	require.EqualError(t, &ReplyHookError{Message: "ERR x", Err: errors.New("boom")}, `resp: reply error hook failed for "ERR x": boom`)
	require.EqualError(t, &InvalidArgumentError{Position: 2, Type: "bool"}, "resp: argument 2 has unsupported type bool (want string, []byte, integer or float)")
	require.EqualError(t, &LookupError{Name: "x", Err: ErrUnknownErrorMode}, `resp: unknown error handler: "x"`)
	require.EqualError(t, &DecodeError{Encoding: "ascii", Data: []byte("a\xff"), Offset: 1, Reason: "ordinal not in range(128)"},
		"resp: ascii codec can't decode byte 0xff in position 1: ordinal not in range(128)")
}

func TestProtocolError_Limit(t *testing.T) {
	require.False(t, protocolErrorf("Bad nil value").limit)
	require.True(t, limitErrorf("exceeds maxbuf %d", 16).limit)
	require.EqualError(t, limitErrorf("exceeds maxbuf %d", 16), "exceeds maxbuf 16")
}

func TestNewReplyError(t *testing.T) {
	v, err := NewReplyError("WRONGTYPE")
	require.NoError(t, err)
	require.Equal(t, &ReplyError{Message: "WRONGTYPE"}, v)
	require.EqualError(t, v.(error), "WRONGTYPE")
}
