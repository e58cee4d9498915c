package printer

import (
	"context"
	"io"
)

type ctxkey struct{}

// WithWriter stores the writer that printers obtained through Ctx write to.
func WithWriter(ctx context.Context, writer io.Writer) context.Context {
	return context.WithValue(ctx, ctxkey{}, writer)
}

func GetWriter(ctx context.Context) (io.Writer, bool) {
	w, ok := ctx.Value(ctxkey{}).(io.Writer)
	return w, ok
}

// StreamOutput switches the writer stored in ctx to write-through when it
// buffers output until exit. Long running commands call it before their
// first line of output.
func StreamOutput(ctx context.Context) error {
	w, ok := GetWriter(ctx)
	if !ok {
		return nil
	}

	s, ok := w.(interface{ Stream() error })
	if !ok {
		return nil
	}

	return s.Stream()
}
