package convert

import (
	"fmt"
	"io"
	"log/slog"
)

// Notifier receives user-facing progress and error messages.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

// Nop discards every notification.
type Nop struct{}

func (Nop) Info(string)  {}
func (Nop) Error(string) {}

// WriterNotifier prints progress to w, one message per line, and mirrors
// everything to the structured logger. Errors only go to the logger;
// callers print the returned error themselves.
type WriterNotifier struct {
	w     io.Writer
	log   *slog.Logger
	quiet bool
}

func NewWriterNotifier(w io.Writer, log *slog.Logger, quiet bool) *WriterNotifier {
	return &WriterNotifier{w: w, log: log, quiet: quiet}
}

func (n *WriterNotifier) Info(msg string) {
	if n.log != nil {
		n.log.Debug(msg)
	}
	if n.quiet || n.w == nil {
		return
	}
	_, _ = fmt.Fprintln(n.w, msg)
}

func (n *WriterNotifier) Error(msg string) {
	if n.log != nil {
		n.log.Error(msg)
	}
}
