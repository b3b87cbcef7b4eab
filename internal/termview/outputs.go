package termview

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"regexp"
	"strings"

	"nbview/internal/notebook"
	"nbview/internal/render"
)

// OutputRenderer renders one output kind. Register replacements with
// Renderer.RegisterOutputRenderer.
type OutputRenderer interface {
	Kind() notebook.OutputKind
	Render(r *Renderer, out notebook.OutputBlock, width int) []render.Line
}

func defaultOutputRenderers() []OutputRenderer {
	return []OutputRenderer{
		streamRenderer{},
		textRenderer{},
		errorRenderer{},
		imageRenderer{},
		htmlRenderer{},
	}
}

type streamRenderer struct{}

func (streamRenderer) Kind() notebook.OutputKind { return notebook.OutputKindStream }

func (streamRenderer) Render(r *Renderer, out notebook.OutputBlock, _ int) []render.Line {
	style := r.theme.Base
	if out.IsStderr() {
		style = r.theme.Stderr
	}
	return r.styledLines(r.clip(outputLines(out.Text)), style)
}

type textRenderer struct{}

func (textRenderer) Kind() notebook.OutputKind { return notebook.OutputKindText }

func (textRenderer) Render(r *Renderer, out notebook.OutputBlock, _ int) []render.Line {
	return r.styledLines(r.clip(outputLines(out.Text)), r.theme.Base)
}

type errorRenderer struct{}

func (errorRenderer) Kind() notebook.OutputKind { return notebook.OutputKindError }

func (errorRenderer) Render(r *Renderer, out notebook.OutputBlock, _ int) []render.Line {
	return r.styledLines(r.clip(outputLines(render.StripANSI(out.Text))), r.theme.Error)
}

type imageRenderer struct{}

func (imageRenderer) Kind() notebook.OutputKind { return notebook.OutputKindImage }

func (imageRenderer) Render(r *Renderer, out notebook.OutputBlock, width int) []render.Line {
	return []render.Line{render.TextLine(render.Truncate(ImageSummary(out), width), r.theme.Accent)}
}

// ImageSummary describes an image output: MIME type, pixel size and payload size.
func ImageSummary(out notebook.OutputBlock) string {
	raw, err := base64.StdEncoding.DecodeString(out.Data)
	if err != nil {
		return fmt.Sprintf("[%s] (invalid image data)", out.MIME)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return fmt.Sprintf("[%s] %s", out.MIME, humanSize(len(raw)))
	}
	return fmt.Sprintf("[%s] %dx%d, %s", out.MIME, cfg.Width, cfg.Height, humanSize(len(raw)))
}

type htmlRenderer struct{}

func (htmlRenderer) Kind() notebook.OutputKind { return notebook.OutputKindHTML }

func (htmlRenderer) Render(r *Renderer, out notebook.OutputBlock, width int) []render.Line {
	lines := []render.Line{render.TextLine(fmt.Sprintf("[%s] %s", out.MIME, humanSize(len(out.Text))), r.theme.Accent)}
	preview := HTMLText(out.Text)
	if preview == "" {
		return lines
	}
	var wrapped []string
	for _, l := range strings.Split(preview, "\n") {
		wrapped = append(wrapped, render.WrapText(l, width)...)
	}
	return append(lines, r.styledLines(r.clip(wrapped), r.theme.Dim)...)
}

var (
	scriptRE = regexp.MustCompile(`(?is)<script\b.*?</script\s*>`)
	styleRE  = regexp.MustCompile(`(?is)<style\b.*?</style\s*>`)
	blockRE  = regexp.MustCompile(`(?i)<(br|/p|/div|/tr|/li|/h[1-6])\b[^>]*>`)
	tagRE    = regexp.MustCompile(`(?s)<[^>]*>`)
	spaceRE  = regexp.MustCompile(`[ \t]+`)
)

// HTMLText reduces HTML markup to readable text for terminal preview.
func HTMLText(markup string) string {
	s := scriptRE.ReplaceAllString(markup, "")
	s = styleRE.ReplaceAllString(s, "")
	s = blockRE.ReplaceAllString(s, "\n")
	s = tagRE.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		l = strings.TrimSpace(spaceRE.ReplaceAllString(l, " "))
		if l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}

// outputLines splits output text, dropping the single trailing newline most
// kernels emit.
func outputLines(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

func humanSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
