// Package printer writes styled, human facing output. Diagnostic output goes
// through zerolog; the printer is for results the user asked for.
package printer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hay-kot/adcraft/pkgs/styles"
)

type Printer struct {
	writer io.Writer
	base   styles.RenderFunc
	light  styles.RenderFunc
}

func New(w io.Writer) *Printer {
	return &Printer{
		writer: w,
		base:   styles.Bold,
		light:  styles.Subtle,
	}
}

// Ctx returns a copy of the printer writing to the writer stored in ctx, if
// one is set.
func (p *Printer) Ctx(ctx context.Context) *Printer {
	w, ok := GetWriter(ctx)
	if !ok {
		return p
	}

	cp := *p
	cp.writer = w
	return &cp
}

func (p *Printer) println(s string) {
	_, _ = fmt.Fprintln(p.writer, s)
}

func (p *Printer) LineBreak() {
	p.println("")
}

func (p *Printer) Title(title string) {
	p.println(p.base(title))
}

// Text writes plain lines under the current base style.
func (p *Printer) Text(lines ...string) {
	for _, line := range lines {
		p.println(line)
	}
}

func (p *Printer) List(title string, items []string) {
	p.println(p.base(title))
	for _, item := range items {
		p.println(p.light(styles.Dot + " " + item))
	}
}

type StatusListItem struct {
	Ok     bool
	Status string
}

func (p *Printer) StatusList(title string, items []StatusListItem) {
	p.println(p.base(title))
	for _, item := range items {
		if item.Ok {
			p.println(styles.Success(styles.Check + " " + item.Status))
		} else {
			p.println(styles.Padding(styles.Error(styles.Cross + " " + item.Status)))
		}
	}
}

func (p *Printer) FatalError(err error) {
	msg := strings.TrimSpace(err.Error())
	p.println(styles.ErrorBox("Error", msg))
}
