package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alexivanou/meteo-widget/internal/view"
	"github.com/alexivanou/meteo-widget/internal/widget"
	"go.uber.org/zap"
)

const prompt = "Ville> "

// console drives one widget from line-based input
type console struct {
	out       io.Writer
	widget    *widget.Widget
	projector *view.Projector
	logger    *zap.Logger
}

func newConsole(out io.Writer, wd *widget.Widget, projector *view.Projector, logger *zap.Logger) *console {
	return &console{out: out, widget: wd, projector: projector, logger: logger}
}

// submit looks up the current query. The loader is printed only when a
// fetch will actually start; a blank query fails without one.
func (c *console) submit(ctx context.Context) {
	if strings.TrimSpace(c.widget.Query()) != "" {
		c.render(c.projector.Project(widget.Loading()))
	}
	c.render(c.projector.Project(c.widget.Submit(ctx)))
}

// run submits every input line until in is exhausted or ctx is done
func (c *console) run(ctx context.Context, in io.Reader) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			c.logger.Error("Error reading input", zap.Error(err))
		}
	}()

	for {
		fmt.Fprint(c.out, prompt)
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(c.out)
				return
			}
			c.widget.SetQuery(line)
			c.submit(ctx)
		}
	}
}

func (c *console) render(vm view.ViewModel) {
	if err := view.RenderText(c.out, vm); err != nil {
		c.logger.Error("Error rendering widget", zap.Error(err))
	}
}
