package cmd

import (
	"context"
	"io"
	"os"
)

type streamsKey struct{}

// streams are the reader and writers a conversion command uses in place
// of the process stdio. Nil fields fall back to the os streams.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

func withIO(ctx context.Context, in io.Reader, out, err io.Writer) context.Context {
	return context.WithValue(ctx, streamsKey{}, streams{in: in, out: out, err: err})
}

func streamsFromContext(ctx context.Context) streams {
	s := streams{in: os.Stdin, out: os.Stdout, err: os.Stderr}
	if ctx == nil {
		return s
	}
	if v, ok := ctx.Value(streamsKey{}).(streams); ok {
		if v.in != nil {
			s.in = v.in
		}
		if v.out != nil {
			s.out = v.out
		}
		if v.err != nil {
			s.err = v.err
		}
	}
	return s
}

func stdinFromContext(ctx context.Context) io.Reader  { return streamsFromContext(ctx).in }
func stdoutFromContext(ctx context.Context) io.Writer { return streamsFromContext(ctx).out }
func stderrFromContext(ctx context.Context) io.Writer { return streamsFromContext(ctx).err }
