package termview

import (
	"strings"

	"nbview/internal/notebook"
	"nbview/internal/render"

	"github.com/mattn/go-runewidth"
)

// Cell is one rendered top-level block. Each notebook.Block maps to exactly one Cell.
type Cell interface {
	// Render returns styled lines for the given terminal width.
	Render(width int) []render.Line
}

const bodyIndent = 2

type placeholderCell struct {
	r    *Renderer
	text string
}

func (c placeholderCell) Render(int) []render.Line {
	return c.r.styledLines([]string{c.text}, c.r.theme.Dim)
}

// rawCell prints degraded input verbatim, line for line, without wrapping.
type rawCell struct {
	r    *Renderer
	text string
}

func (c rawCell) Render(int) []render.Line {
	return c.r.styledLines(strings.Split(c.text, "\n"), c.r.theme.Base)
}

type notebookCell struct {
	r     *Renderer
	block notebook.CellBlock
}

func (c notebookCell) Render(width int) []render.Line {
	th := c.r.theme
	col := render.NewColumn()
	col.Push(render.StaticLines{c.header(width)})

	var body []render.Line
	switch c.block.Type {
	case notebook.CellMarkdown:
		var wrapped []string
		for _, para := range c.block.Paragraphs {
			wrapped = append(wrapped, render.WrapText(para, width-bodyIndent)...)
		}
		body = c.r.styledLines(wrapped, th.Base)
	case notebook.CellCode:
		body = c.r.styledLines(splitSource(c.block.Source), th.Base)
	default:
		body = c.r.styledLines(splitSource(c.block.Source), th.Dim)
	}
	col.Push(render.NewInset(render.StaticLines(body), render.TLBR(0, bodyIndent, 0, 0)))

	for _, out := range c.block.Outputs {
		lines := c.r.renderOutput(out, width-bodyIndent)
		if len(lines) == 0 {
			continue
		}
		col.Push(render.NewInset(render.StaticLines(lines), render.TLBR(0, bodyIndent, 0, 0)))
	}
	return render.RenderLines(col, width)
}

func (c notebookCell) header(width int) render.Line {
	th := c.r.theme
	label := c.block.Label
	ruleWidth := width - runewidth.StringWidth(label) - 1
	if ruleWidth < 0 {
		ruleWidth = 0
	}
	return render.Line{Spans: []render.Span{
		{Text: label, Style: th.Label},
		{Text: " ", Style: th.Base},
		{Text: strings.Repeat("─", ruleWidth), Style: th.Dim},
	}, Style: th.Base}
}

func splitSource(source string) []string {
	if source == "" {
		return []string{""}
	}
	return strings.Split(source, "\n")
}
