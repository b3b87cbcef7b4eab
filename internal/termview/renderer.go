package termview

import (
	"fmt"
	"io"

	"nbview/internal/notebook"
	"nbview/internal/render"

	"github.com/charmbracelet/lipgloss"
)

const defaultWidth = 80

// Renderer turns notebook blocks into terminal lines. It holds no per-document
// state, so one Renderer can be reused for any number of documents.
type Renderer struct {
	width    int
	maxLines int
	theme    Theme
	outputs  map[notebook.OutputKind]OutputRenderer
}

type Options struct {
	Width int
	// MaxOutputLines caps each output; 0 means unlimited.
	MaxOutputLines int
	Theme          *Theme
}

func New(opts Options) *Renderer {
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}
	theme := DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	r := &Renderer{
		width:    width,
		maxLines: opts.MaxOutputLines,
		theme:    theme,
		outputs:  map[notebook.OutputKind]OutputRenderer{},
	}
	for _, or := range defaultOutputRenderers() {
		r.outputs[or.Kind()] = or
	}
	return r
}

// RegisterOutputRenderer replaces the renderer for or.Kind().
func (r *Renderer) RegisterOutputRenderer(or OutputRenderer) {
	if r == nil || or == nil {
		return
	}
	r.outputs[or.Kind()] = or
}

func (r *Renderer) Width() int { return r.width }

// WithWidth returns a copy rendering at a different width.
func (r *Renderer) WithWidth(width int) *Renderer {
	cp := *r
	if width > 0 {
		cp.width = width
	}
	return &cp
}

// Theme returns the active theme.
func (r *Renderer) Theme() Theme { return r.theme }

// Layout is the rendered document plus the first line of every block.
type Layout struct {
	Lines      []render.Line
	CellStarts []int
}

// CellAt returns the index of the block containing line, or -1.
func (l Layout) CellAt(line int) int {
	idx := -1
	for i, start := range l.CellStarts {
		if start > line {
			break
		}
		idx = i
	}
	return idx
}

// CellFor wraps a block in its terminal cell.
func (r *Renderer) CellFor(b notebook.Block) Cell {
	switch b.Kind {
	case notebook.BlockCell:
		if b.Cell == nil {
			return placeholderCell{r: r, text: notebook.PlaceholderText}
		}
		return notebookCell{r: r, block: *b.Cell}
	case notebook.BlockRaw:
		return rawCell{r: r, text: b.Text}
	default:
		text := b.Text
		if text == "" {
			text = notebook.PlaceholderText
		}
		return placeholderCell{r: r, text: text}
	}
}

// Layout renders all blocks separated by one blank line.
func (r *Renderer) Layout(blocks []notebook.Block) Layout {
	var out Layout
	for i, b := range blocks {
		if i > 0 {
			out.Lines = append(out.Lines, render.Line{})
		}
		out.CellStarts = append(out.CellStarts, len(out.Lines))
		out.Lines = append(out.Lines, r.CellFor(b).Render(r.width)...)
	}
	return out
}

// Strings renders blocks to terminal strings, styled unless the theme is plain.
func (r *Renderer) Strings(blocks []notebook.Block) []string {
	lines := r.Layout(blocks).Lines
	if r.theme.Plain {
		return render.LinesToPlainStrings(lines)
	}
	return render.LinesToStrings(lines)
}

// Write renders blocks to w, one line per row.
func (r *Renderer) Write(w io.Writer, blocks []notebook.Block) error {
	for _, line := range r.Strings(blocks) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderOutput(out notebook.OutputBlock, width int) []render.Line {
	or := r.outputs[out.Kind]
	if or == nil {
		return nil
	}
	return or.Render(r, out, width)
}

func (r *Renderer) styledLines(texts []string, style lipgloss.Style) []render.Line {
	lines := make([]render.Line, 0, len(texts))
	for _, t := range texts {
		lines = append(lines, render.Line{Spans: []render.Span{{Text: t, Style: style}}, Style: r.theme.Base})
	}
	return lines
}

// clip enforces MaxOutputLines, appending a marker with the hidden line count.
func (r *Renderer) clip(lines []string) []string {
	if r.maxLines <= 0 || len(lines) <= r.maxLines {
		return lines
	}
	hidden := len(lines) - r.maxLines
	out := append([]string{}, lines[:r.maxLines]...)
	return append(out, fmt.Sprintf("… (%d more lines)", hidden))
}
