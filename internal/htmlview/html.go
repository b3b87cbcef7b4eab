package htmlview

import (
	"bytes"
	"embed"
	"encoding/base64"
	"html/template"
	"io"
	"strings"

	"nbview/internal/notebook"
	"nbview/internal/render"

	"github.com/pkg/errors"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.tmpl"))

const pageCSS = `body{margin:0;font-family:system-ui,sans-serif;background:#fafafa;color:#1f2328}
.notebook{max-width:960px;margin:0 auto;padding:24px}
.cell{margin:0 0 20px;padding:12px;background:#fff;border:1px solid #d0d7de;border-radius:6px}
.cell-label{font:12px ui-monospace,monospace;color:#7d56f4;margin-bottom:6px}
pre{margin:0;white-space:pre;overflow-x:auto;font:13px/1.45 ui-monospace,monospace}
.cell-source.code{background:#f6f8fa;padding:8px;border-radius:4px}
.cell-source.markdown p{margin:0 0 4px;min-height:1em}
.output{margin-top:8px}
.output-error{color:#cc0000}
.output-stream.stderr{color:#d78700}
.output-html{width:100%;min-height:120px;border:1px solid #eee}
.output-image img{max-width:100%}
.placeholder{color:#808080;font-style:italic}`

// iframeCSS is injected into every sandboxed HTML output so its default
// styles never depend on the host page.
const iframeCSS = `body{margin:8px;font-family:system-ui,sans-serif;font-size:14px}table{border-collapse:collapse}td,th{border:1px solid #ddd;padding:2px 6px}`

type Options struct {
	Title string
}

type pageView struct {
	Title  string
	CSS    template.CSS
	Blocks []blockView
}

type blockView struct {
	Kind string
	Text string
	Cell *cellView
}

type cellView struct {
	Index      int
	Type       string
	Label      string
	IsCode     bool
	IsMarkdown bool
	Source     string
	Paragraphs []string
	Outputs    []outputView
}

type outputView struct {
	Kind    string
	Class   string
	MIME    string
	Text    string
	Image   template.URL
	HTMLDoc string
}

// Page renders blocks as a standalone HTML document.
func Page(blocks []notebook.Block, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := WritePage(&buf, blocks, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WritePage writes a standalone HTML document to w.
func WritePage(w io.Writer, blocks []notebook.Block, opts Options) error {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "Notebook"
	}
	view := pageView{Title: title, CSS: template.CSS(pageCSS), Blocks: buildViews(blocks)}
	return errors.Wrap(templates.ExecuteTemplate(w, "page", view), "render html page")
}

// Fragment renders only the block markup, for embedding into another page.
func Fragment(blocks []notebook.Block) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "blocks", pageView{Blocks: buildViews(blocks)}); err != nil {
		return "", errors.Wrap(err, "render html fragment")
	}
	return buf.String(), nil
}

func buildViews(blocks []notebook.Block) []blockView {
	views := make([]blockView, 0, len(blocks))
	for _, b := range blocks {
		v := blockView{Kind: string(b.Kind), Text: b.Text}
		if b.Kind == notebook.BlockCell && b.Cell != nil {
			v.Cell = buildCell(*b.Cell)
		}
		if b.Kind == notebook.BlockCell && b.Cell == nil {
			v.Kind = string(notebook.BlockEmpty)
			v.Text = notebook.PlaceholderText
		}
		views = append(views, v)
	}
	return views
}

func buildCell(c notebook.CellBlock) *cellView {
	cv := &cellView{
		Index:      c.Index,
		Type:       cssToken(string(c.Type)),
		Label:      c.Label,
		IsCode:     c.Type == notebook.CellCode,
		IsMarkdown: c.Type == notebook.CellMarkdown,
		Source:     c.Source,
		Paragraphs: c.Paragraphs,
	}
	for _, out := range c.Outputs {
		cv.Outputs = append(cv.Outputs, buildOutput(out))
	}
	return cv
}

func buildOutput(out notebook.OutputBlock) outputView {
	ov := outputView{Kind: string(out.Kind), MIME: out.MIME}
	switch out.Kind {
	case notebook.OutputKindImage:
		if _, err := base64.StdEncoding.DecodeString(out.Data); err != nil {
			ov.Kind = string(notebook.OutputKindText)
			ov.Class = "invalid"
			ov.Text = "(invalid image data)"
			return ov
		}
		ov.Image = template.URL("data:" + out.MIME + ";base64," + out.Data)
	case notebook.OutputKindHTML:
		ov.HTMLDoc = SandboxDocument(out.Text)
	case notebook.OutputKindError:
		ov.Text = render.StripANSI(out.Text)
	case notebook.OutputKindStream:
		ov.Text = render.StripANSI(out.Text)
		if out.IsStderr() {
			ov.Class = "stderr"
		}
	default:
		ov.Text = out.Text
	}
	return ov
}

// SandboxDocument wraps HTML output in its own document for an iframe srcdoc.
func SandboxDocument(markup string) string {
	return `<!doctype html><html><head><meta charset="UTF-8"><style>` + iframeCSS + `</style></head><body>` + markup + `</body></html>`
}

func cssToken(s string) string {
	if s == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, s)
}
