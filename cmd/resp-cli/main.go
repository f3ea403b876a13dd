package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/pior/resp"
)

func main() {
	if err := newApp(os.Stdin, os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

var (
	flagVerbose = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "log reader diagnostics to stderr.",
		EnvVars: []string{"RESP_VERBOSE"},
	}
	flagEncoding = &cli.StringFlag{
		Name:    "encoding",
		Aliases: []string{"e"},
		Value:   "utf-8",
		Usage:   "text encoding for string replies, empty for raw bytes.",
		EnvVars: []string{"RESP_ENCODING"},
	}
	flagErrors = &cli.StringFlag{
		Name:    "errors",
		Value:   string(resp.ErrorsStrict),
		Usage:   "handling of undecodable bytes: strict, ignore, replace or backslashreplace.",
		EnvVars: []string{"RESP_ERRORS"},
	}
	flagMaxBuf = &cli.IntFlag{
		Name:    "maxbuf",
		Value:   resp.DefaultMaxBuf,
		Usage:   "largest token size in bytes, 0 for no limit.",
		EnvVars: []string{"RESP_MAXBUF"},
		Action: func(c *cli.Context, n int) error {
			if n < 0 {
				return errors.New("maxbuf value out of range")
			}
			return nil
		},
	}
	flagChunk = &cli.IntFlag{
		Name:  "chunk",
		Value: 4096,
		Usage: "bytes fed to the reader per read.",
		Action: func(c *cli.Context, n int) error {
			if n <= 0 {
				return errors.New("chunk must be positive")
			}
			return nil
		},
	}
	flagRaw = &cli.BoolFlag{
		Name:  "raw",
		Usage: "print strings as raw bytes whatever the encoding.",
	}
	flagWire = &cli.BoolFlag{
		Name:  "wire",
		Usage: "write the packed command as is instead of quoted.",
	}
	flagInt = &cli.BoolFlag{
		Name:  "int",
		Usage: "pack arguments that parse as integers as integers.",
	}
)

func newApp(in io.Reader, out io.Writer) *cli.App {
	return &cli.App{
		Name:      "resp-cli",
		Usage:     "decode RESP replies and encode commands",
		Flags:     []cli.Flag{flagVerbose},
		Reader:    in,
		Writer:    out,
		ErrWriter: os.Stderr,
		Commands: []*cli.Command{
			{
				Name:      "decode",
				Usage:     "decode replies from files or stdin and print them like redis-cli",
				ArgsUsage: "[file...]",
				Flags:     []cli.Flag{flagEncoding, flagErrors, flagMaxBuf, flagChunk, flagRaw},
				Action:    decodeAction,
			},
			{
				Name:      "pack",
				Usage:     "encode a command",
				ArgsUsage: "<arg> [arg...]",
				Flags:     []cli.Flag{flagWire, flagInt},
				Action:    packAction,
			},
		},
	}
}

func newLogger(ctx *cli.Context) (*zap.Logger, error) {
	if ctx.Bool(flagVerbose.Name) {
		return zap.NewDevelopment()
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	return config.Build()
}

func decodeAction(ctx *cli.Context) error {
	logger, err := newLogger(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	maxBuf := ctx.Int(flagMaxBuf.Name)
	if maxBuf == 0 {
		maxBuf = -1
	}

	r, err := resp.NewReader(resp.Config{
		Encoding: ctx.String(flagEncoding.Name),
		Errors:   resp.ErrorMode(ctx.String(flagErrors.Name)),
		MaxBuf:   maxBuf,
		Logger:   logger,
	})
	if err != nil {
		return cli.Exit(err, 2)
	}

	out := bufio.NewWriter(ctx.App.Writer)
	defer out.Flush()

	d := &decoder{
		reader: r,
		out:    out,
		chunk:  ctx.Int(flagChunk.Name),
		raw:    ctx.Bool(flagRaw.Name),
	}

	if ctx.NArg() == 0 {
		return d.stream(ctx.App.Reader)
	}
	for _, name := range ctx.Args().Slice() {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		err = d.stream(f)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

type decoder struct {
	reader *resp.Reader
	out    io.Writer
	chunk  int
	raw    bool
}

func (d *decoder) next() (any, bool, error) {
	if d.raw {
		return d.reader.GetRawReply()
	}
	return d.reader.GetReply()
}

// stream feeds in to the reader and prints every reply. Deferred errors are
// printed in place of their reply; protocol errors stop the stream.
func (d *decoder) stream(in io.Reader) error {
	r, out := d.reader, d.out
	buf := make([]byte, d.chunk)
	for {
		n, readErr := in.Read(buf)
		r.Feed(buf[:n])

		for {
			reply, ok, err := d.next()
			if err != nil {
				if resp.ShouldCloseConnection(err) {
					return cli.Exit(err, 1)
				}
				fmt.Fprintf(out, "(decode error) %v\n", err)
				continue
			}
			if !ok {
				break
			}
			fmt.Fprintln(out, resp.FormatReply(reply))
		}

		if readErr == io.EOF {
			if r.Pending() {
				return cli.Exit("truncated reply at end of input", 1)
			}
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}

func packAction(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.Exit("pack needs at least one argument", 2)
	}

	args := make([]any, ctx.NArg())
	for i, arg := range ctx.Args().Slice() {
		args[i] = arg
		if ctx.Bool(flagInt.Name) {
			if n, err := strconv.ParseInt(arg, 10, 64); err == nil {
				args[i] = n
			}
		}
	}

	if ctx.Bool(flagWire.Name) {
		return resp.WriteCommand(ctx.App.Writer, args...)
	}

	b, err := resp.Pack(args...)
	if err != nil {
		return err
	}
	quoted := strconv.Quote(string(b))
	_, err = fmt.Fprintln(ctx.App.Writer, strings.Trim(quoted, `"`))
	return err
}
