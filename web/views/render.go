// Package views renders the dashboard HTML pages as templ components.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// printer writes HTML fragments and keeps the first write error.
type printer struct {
	ctx context.Context
	w   io.Writer
	err error
}

// raw writes trusted markup.
func (p *printer) raw(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// text writes escaped text.
func (p *printer) text(s string) {
	p.raw("%s", templ.EscapeString(s))
}

// attr writes an escaped attribute value.
func (p *printer) attr(s string) {
	p.raw("%s", templ.EscapeString(s))
}

func (p *printer) component(c templ.Component) {
	if p.err != nil || c == nil {
		return
	}
	p.err = c.Render(p.ctx, p.w)
}

func component(fn func(p *printer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{ctx: ctx, w: w}
		fn(p)
		return p.err
	})
}
