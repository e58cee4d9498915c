package printer

import (
	"bytes"
	"io"
	"sync"
)

// DeferredWriter buffers output until Flush so results print after the log
// stream of a one-shot command. Long running commands call Stream to write
// through instead.
type DeferredWriter struct {
	mu        sync.Mutex
	buff      bytes.Buffer
	writer    io.Writer
	streaming bool
}

func NewDeferedWriter(w io.Writer) *DeferredWriter {
	return &DeferredWriter{
		writer: w,
	}
}

func (dw *DeferredWriter) Write(p []byte) (int, error) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if dw.streaming {
		return dw.writer.Write(p)
	}
	return dw.buff.Write(p)
}

func (dw *DeferredWriter) Flush() error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	_, err := dw.buff.WriteTo(dw.writer)
	return err
}

// Stream flushes anything buffered and makes every later write go straight
// to the underlying writer.
func (dw *DeferredWriter) Stream() error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	dw.streaming = true
	_, err := dw.buff.WriteTo(dw.writer)
	return err
}
