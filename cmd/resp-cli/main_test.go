package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	app := newApp(strings.NewReader(stdin), &out)
	require.NoError(t, app.Run(append([]string{"resp-cli"}, args...)))
	return out.String()
}

// runErr runs the app and returns its error without exiting the process.
func runErr(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(strings.NewReader(stdin), &out)
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"resp-cli"}, args...))
	return out.String(), err
}

func TestPack(t *testing.T) {
	out := run(t, "", "pack", "SET", "key", "42")
	require.Equal(t, `*3\r\n$3\r\nSET\r\n$3\r\nkey\r\n$2\r\n42\r\n`+"\n", out)
}

func TestPack_Wire(t *testing.T) {
	out := run(t, "", "pack", "--wire", "PING")
	require.Equal(t, "*1\r\n$4\r\nPING\r\n", out)
}

func TestPack_Int(t *testing.T) {
	out := run(t, "", "pack", "--wire", "--int", "INCRBY", "k", "007")
	require.Equal(t, "*3\r\n$6\r\nINCRBY\r\n$1\r\nk\r\n$1\r\n7\r\n", out)
}

func TestDecode_Stdin(t *testing.T) {
	out := run(t, "+OK\r\n*2\r\n:1\r\n$1\r\na\r\n", "decode", "--chunk", "3")
	require.Equal(t, "\"OK\"\n1) (integer) 1\n2) \"a\"\n", out)
}

func TestDecode_TruncatedInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		out   string
	}{
		{name: "partial token", input: "+OK\r\n$5\r\nhel", out: "\"OK\"\n"},
		{name: "partial aggregate", input: "*2\r\n:1\r\n"},
		{name: "map missing value", input: "%1\r\n+k\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runErr(t, tt.input, "decode")
			require.EqualError(t, err, "truncated reply at end of input")

			var exitErr cli.ExitCoder
			require.ErrorAs(t, err, &exitErr)
			require.Equal(t, 1, exitErr.ExitCode())
			require.Equal(t, tt.out, out)
		})
	}
}

func TestDecode_ProtocolError(t *testing.T) {
	_, err := runErr(t, "?bad\r\n", "decode")

	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 1, exitErr.ExitCode())
}

func TestDecode_DeferredErrorKeepsGoing(t *testing.T) {
	out := run(t, "$1\r\n\xff\r\n+next\r\n", "decode", "--encoding", "utf-8")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "(decode error) "))
	require.Equal(t, `"next"`, lines[1])
}

func TestDecode_Files(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.resp")
	b := filepath.Join(dir, "b.resp")
	require.NoError(t, os.WriteFile(a, []byte("%1\r\n+k\r\n#t\r\n"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("_\r\n"), 0o600))

	out := run(t, "", "decode", a, b)
	require.Equal(t, "1# \"k\" => (true)\n(nil)\n", out)
}

func TestDecode_RawStrings(t *testing.T) {
	out := run(t, "$3\r\nabc\r\n", "decode", "--encoding", "")
	require.Equal(t, "\"abc\"\n", out)
}

func TestDecode_RawFlagSkipsDecoding(t *testing.T) {
	out := run(t, "$1\r\n\xff\r\n", "decode", "--raw")
	require.Equal(t, "\"\\xff\"\n", out)
}
