package termview

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"regexp"
	"strings"
	"testing"

	"nbview/internal/notebook"
	"nbview/internal/render"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

const sampleNotebook = `{"cells":[
	{"cell_type":"markdown","source":["# Lab 1\n","Compute the answer."]},
	{"cell_type":"code","execution_count":2,"source":"for i in range(2):\n\tprint(i)","outputs":[
		{"output_type":"stream","name":"stdout","text":["0\n","1\n"]},
		{"output_type":"stream","name":"stderr","text":"careful\n"},
		{"output_type":"execute_result","data":{"text/plain":"42"}}
	]},
	{"cell_type":"code","source":"1/0","outputs":[
		{"output_type":"error","traceback":["\u001b[0;31mZeroDivisionError\u001b[0m","division by zero"]}
	]}
]}`

func plainText(t *testing.T, r *Renderer, input any) string {
	t.Helper()
	var buf bytes.Buffer
	if err := r.Write(&buf, notebook.Render(input)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return stripANSI(buf.String())
}

func TestRenderer_RendersCellsInOrder(t *testing.T) {
	theme := PlainTheme()
	r := New(Options{Width: 40, Theme: &theme})
	out := plainText(t, r, sampleNotebook)

	order := []string{"markdown", "# Lab 1", "Compute the answer.", "[2]:", "\tprint(i)", "0", "1", "careful", "42", "[ ]:", "1/0", "ZeroDivisionError", "division by zero"}
	pos := 0
	for _, want := range order {
		idx := strings.Index(out[pos:], want)
		if idx < 0 {
			t.Fatalf("expected %q after offset %d in:\n%s", want, pos, out)
		}
		pos += idx + len(want)
	}
	if strings.Contains(out, "\x1b") {
		t.Fatalf("plain theme must not emit escape codes:\n%q", out)
	}
}

func TestRenderer_StyledOutputStripsToSameText(t *testing.T) {
	theme := PlainTheme()
	plain := plainText(t, New(Options{Width: 40, Theme: &theme}), sampleNotebook)
	styled := plainText(t, New(Options{Width: 40}), sampleNotebook)
	if plain != styled {
		t.Fatalf("styled output differs from plain output:\nplain:\n%s\nstyled:\n%s", plain, styled)
	}
}

func TestRenderer_LayoutCellStarts(t *testing.T) {
	r := New(Options{Width: 40})
	layout := r.Layout(notebook.Render(sampleNotebook))
	if len(layout.CellStarts) != 3 {
		t.Fatalf("expected 3 cell starts, got %v", layout.CellStarts)
	}
	for i, start := range layout.CellStarts {
		line := layout.Lines[start].Plain()
		if i == 0 && !strings.HasPrefix(line, "markdown") {
			t.Fatalf("cell 0 starts with %q", line)
		}
		if i == 1 && !strings.HasPrefix(line, "[2]:") {
			t.Fatalf("cell 1 starts with %q", line)
		}
		if got := layout.CellAt(start); got != i {
			t.Fatalf("CellAt(%d) = %d, want %d", start, got, i)
		}
	}
	if layout.CellAt(-1) != -1 {
		t.Fatalf("CellAt before first cell must be -1")
	}
}

func TestRenderer_RawAndPlaceholder(t *testing.T) {
	theme := PlainTheme()
	r := New(Options{Width: 20, Theme: &theme})
	if out := plainText(t, r, "not json\n  indented"); out != "not json\n  indented\n" {
		t.Fatalf("raw output = %q", out)
	}
	if out := plainText(t, r, ""); out != notebook.PlaceholderText+"\n" {
		t.Fatalf("placeholder output = %q", out)
	}
}

func TestRenderer_ClipsLongOutputs(t *testing.T) {
	theme := PlainTheme()
	r := New(Options{Width: 40, MaxOutputLines: 2, Theme: &theme})
	doc := &notebook.Document{Cells: []notebook.Cell{{
		Type:    notebook.CellCode,
		Outputs: []notebook.Output{{Type: notebook.OutputStream, Text: "a\nb\nc\nd\n"}},
	}}}
	out := plainText(t, r, doc)
	if !strings.Contains(out, "… (2 more lines)") || strings.Contains(out, "  c") {
		t.Fatalf("expected clipped output, got:\n%s", out)
	}
}

func TestImageSummary(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	data := base64.StdEncoding.EncodeToString(buf.Bytes())
	got := ImageSummary(notebook.OutputBlock{Kind: notebook.OutputKindImage, MIME: "image/png", Data: data})
	if !strings.HasPrefix(got, "[image/png] 3x2, ") {
		t.Fatalf("ImageSummary = %q", got)
	}
	bad := ImageSummary(notebook.OutputBlock{Kind: notebook.OutputKindImage, MIME: "image/png", Data: "!!!"})
	if bad != "[image/png] (invalid image data)" {
		t.Fatalf("ImageSummary(bad) = %q", bad)
	}
}

func TestHTMLText(t *testing.T) {
	in := `<style>p{color:red}</style><table><tr><td>a</td><td>b &amp; c</td></tr><tr><td>d</td></tr></table><script>alert(1)</script>`
	if got := HTMLText(in); got != "a b & c\nd" {
		t.Fatalf("HTMLText = %q", got)
	}
}

type upperText struct{}

func (upperText) Kind() notebook.OutputKind { return notebook.OutputKindText }

func (upperText) Render(r *Renderer, out notebook.OutputBlock, _ int) []render.Line {
	return r.styledLines([]string{strings.ToUpper(out.Text)}, r.Theme().Base)
}

func TestRenderer_RegisterOutputRenderer(t *testing.T) {
	theme := PlainTheme()
	r := New(Options{Width: 40, Theme: &theme})
	r.RegisterOutputRenderer(upperText{})
	doc := `{"cells":[{"cell_type":"code","source":"","outputs":[{"output_type":"execute_result","data":{"text/plain":"shout"}}]}]}`
	if out := plainText(t, r, doc); !strings.Contains(out, "SHOUT") {
		t.Fatalf("custom renderer not used:\n%s", out)
	}
}
