package resp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanner_Incomplete(t *testing.T) {
	s := scanner{maxBuf: DefaultMaxBuf, maxElements: DefaultMaxElements}

	inputs := []string{
		"",
		"+",
		"+ok",
		"+ok\r",
		":12",
		"$5\r\nhel",
		"$5\r\nhello",
		"$5\r\nhello\r",
		"*2",
		"=8\r\ntxt:",
	}
	for _, in := range inputs {
		tok, ok, err := s.scan([]byte(in))
		require.NoError(t, err, "input %q", in)
		require.False(t, ok, "input %q", in)
		require.Zero(t, tok.size, "input %q", in)
	}
}

func TestScanner_TokenSize(t *testing.T) {
	s := scanner{maxBuf: DefaultMaxBuf, maxElements: DefaultMaxElements}

	tests := []struct {
		input string
		size  int
	}{
		{input: "+ok\r\n+next\r\n", size: 5},
		{input: "$5\r\nhello\r\n:1\r\n", size: 11},
		{input: "$-1\r\n", size: 5},
		{input: "*3\r\n:1\r\n", size: 4},
		{input: "=8\r\ntxt:text\r\n", size: 14},
		{input: "_\r\n", size: 3},
	}
	for _, tt := range tests {
		tok, ok, err := s.scan([]byte(tt.input))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, tt.size, tok.size, "input %q", tt.input)
	}
}

func TestScanner_Tokens(t *testing.T) {
	s := scanner{maxBuf: DefaultMaxBuf, maxElements: DefaultMaxElements}

	tok, ok, err := s.scan([]byte("*3\r\n"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, TagArray, tok.tag)
	require.Equal(t, int64(3), tok.n)
	require.False(t, tok.null)

	tok, _, _ = s.scan([]byte("%-1\r\n"))
	require.True(t, tok.null)

	tok, _, _ = s.scan([]byte("=8\r\nmkd:text\r\n"))
	require.Equal(t, []byte("text"), tok.payload)

	tok, _, _ = s.scan([]byte("#f\r\n"))
	require.Equal(t, TagBoolean, tok.tag)
	require.False(t, tok.boolean)
}

func TestScanner_MaxBuf(t *testing.T) {
	s := scanner{maxBuf: 16}

	// header + payload + CRLF: 4 + 9 + 2
	_, ok, err := s.scan([]byte("$9\r\n"))
	require.NoError(t, err)
	require.False(t, ok)

	_, _, err = s.scan([]byte("$10\r\n"))
	require.Error(t, err)

	_, _, err = s.scan([]byte("+" + strings.Repeat("a", 16)))
	require.Error(t, err)

	s.maxBuf = 0
	_, ok, err = s.scan([]byte("+" + strings.Repeat("a", 4096)))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{in: "0", want: 0, ok: true},
		{in: "42", want: 42, ok: true},
		{in: "-42", want: -42, ok: true},
		{in: "9223372036854775807", want: 9223372036854775807, ok: true},
		{in: "-9223372036854775808", want: -9223372036854775808, ok: true},
		{in: "9223372036854775808"},
		{in: "-9223372036854775809"},
		{in: ""},
		{in: "-"},
		{in: "+1"},
		{in: "1 "},
		{in: "1.0"},
	}
	for _, tt := range tests {
		got, ok := parseInt([]byte(tt.in))
		require.Equal(t, tt.ok, ok, "input %q", tt.in)
		require.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestParseBigNumber(t *testing.T) {
	n, ok := parseBigNumber([]byte("-123456789012345678901234567890"))
	require.True(t, ok)
	require.Equal(t, "-123456789012345678901234567890", n.String())

	for _, in := range []string{"", "-", "1e3", "12a", "+1"} {
		_, ok := parseBigNumber([]byte(in))
		require.False(t, ok, "input %q", in)
	}
}
