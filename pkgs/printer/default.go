package printer

import (
	"context"
	"os"
)

// ConsolePrinter is used when no writer is bound to the context. main binds
// it to the deferred stdout writer at startup.
var ConsolePrinter = New(os.Stdout)

// Ctx returns ConsolePrinter writing to the writer stored in ctx, if any.
func Ctx(ctx context.Context) *Printer {
	return ConsolePrinter.Ctx(ctx)
}
