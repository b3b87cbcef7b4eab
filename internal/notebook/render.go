package notebook

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Recovery names the degradation path Render took, if any.
type Recovery string

const (
	RecoveryNone           Recovery = ""
	RecoveryEmpty          Recovery = "empty_input"
	RecoveryParseFailure   Recovery = "parse_failure"
	RecoverySchemaMismatch Recovery = "schema_mismatch"
	RecoveryMarshalFailure Recovery = "marshal_failure"
)

// Diagnostics summarizes what Inspect saw. It is informational only.
type Diagnostics struct {
	Recovery       Recovery `json:"recovery,omitempty"`
	Cells          int      `json:"cells"`
	CodeCells      int      `json:"code_cells"`
	MarkdownCells  int      `json:"markdown_cells"`
	UnknownCells   int      `json:"unknown_cells"`
	Outputs        int      `json:"outputs"`
	SkippedOutputs int      `json:"skipped_outputs"`
	EmptyBundles   int      `json:"empty_bundles"`
}

// Degraded reports whether the input was not rendered as a notebook.
func (d Diagnostics) Degraded() bool {
	return d.Recovery != RecoveryNone
}

// Render turns a notebook into display blocks. input may be JSON text
// (string, []byte, json.RawMessage), a Document, or any JSON-marshalable value.
// It never fails: malformed input degrades to a raw text block.
func Render(input any) []Block {
	blocks, _ := Inspect(input)
	return blocks
}

// Inspect is Render plus a summary of the recoveries taken.
func Inspect(input any) ([]Block, Diagnostics) {
	switch v := input.(type) {
	case nil:
		return placeholder()
	case string:
		return fromText(v)
	case []byte:
		return fromText(string(v))
	case json.RawMessage:
		return fromText(string(v))
	case Document:
		return renderDocument(v)
	case *Document:
		if v == nil {
			return placeholder()
		}
		return renderDocument(*v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return rawBlock(fmt.Sprintf("%v", v), RecoveryMarshalFailure)
		}
		return fromJSON(data)
	}
}

func placeholder() ([]Block, Diagnostics) {
	return []Block{{Kind: BlockEmpty, Text: PlaceholderText}}, Diagnostics{Recovery: RecoveryEmpty}
}

func rawBlock(text string, recovery Recovery) ([]Block, Diagnostics) {
	return []Block{{Kind: BlockRaw, Text: text}}, Diagnostics{Recovery: recovery}
}

func fromText(text string) ([]Block, Diagnostics) {
	if strings.TrimSpace(text) == "" {
		return placeholder()
	}
	if !gjson.Valid(text) {
		return rawBlock(text, RecoveryParseFailure)
	}
	return fromJSON([]byte(text))
}

func fromJSON(data []byte) ([]Block, Diagnostics) {
	doc, err := Parse(data)
	switch {
	case errors.Is(err, ErrParseFailure):
		return rawBlock(string(data), RecoveryParseFailure)
	case errors.Is(err, ErrSchemaMismatch):
		return rawBlock(PrettyJSON(data), RecoverySchemaMismatch)
	case err != nil:
		return rawBlock(string(data), RecoveryParseFailure)
	}
	return renderDocument(doc)
}

// PrettyJSON indents JSON with two spaces, keeping the original key order.
func PrettyJSON(data []byte) string {
	return strings.TrimRight(string(pretty.Pretty(data)), "\n")
}

func renderDocument(doc Document) ([]Block, Diagnostics) {
	diag := Diagnostics{Cells: len(doc.Cells)}
	blocks := make([]Block, 0, len(doc.Cells))
	for i, cell := range doc.Cells {
		cb := renderCell(i, cell, &diag)
		blocks = append(blocks, Block{Kind: BlockCell, Cell: &cb})
	}
	return blocks, diag
}

func renderCell(index int, cell Cell, diag *Diagnostics) CellBlock {
	cb := CellBlock{
		Index:  index,
		Type:   cell.Type,
		Label:  CellLabel(cell.Type, cell.ExecutionCount),
		Source: cell.Source,
	}
	switch cell.Type {
	case CellMarkdown:
		diag.MarkdownCells++
		cb.Paragraphs = strings.Split(cell.Source, "\n")
	case CellCode:
		diag.CodeCells++
		if cell.ExecutionCount != nil {
			n := *cell.ExecutionCount
			cb.ExecutionCount = &n
		}
		for _, out := range cell.Outputs {
			diag.Outputs++
			block, ok := renderOutput(out, diag)
			if ok {
				cb.Outputs = append(cb.Outputs, block)
			}
		}
	default:
		diag.UnknownCells++
	}
	return cb
}

// CellLabel is the cell header: "[n]:" or "[ ]:" for code cells, the cell
// type otherwise.
func CellLabel(t CellType, executionCount *int) string {
	switch t {
	case CellCode:
		if executionCount == nil {
			return "[ ]:"
		}
		return "[" + strconv.Itoa(*executionCount) + "]:"
	case "":
		return "unknown"
	default:
		return string(t)
	}
}

func renderOutput(out Output, diag *Diagnostics) (OutputBlock, bool) {
	switch out.Type {
	case OutputStream:
		return OutputBlock{Kind: OutputKindStream, Name: out.Name, Text: out.Text}, true
	case OutputExecuteResult, OutputDisplayData:
		block, ok := selectMIME(out.Data)
		if !ok {
			diag.EmptyBundles++
		}
		return block, ok
	case OutputError:
		return OutputBlock{Kind: OutputKindError, Text: out.Traceback}, true
	default:
		diag.SkippedOutputs++
		return OutputBlock{}, false
	}
}

type mimeRenderer struct {
	mime  string
	build func(mime, content string) (OutputBlock, bool)
}

// mimePriority is tried in order; the first non-empty entry wins.
var mimePriority = []mimeRenderer{
	{mime: "image/png", build: imageOutput},
	{mime: "image/jpeg", build: imageOutput},
	{mime: "text/html", build: htmlOutput},
	{mime: "text/plain", build: textOutput},
}

// MIMEPriority returns the MIME types considered for rich outputs, in order.
func MIMEPriority() []string {
	out := make([]string, 0, len(mimePriority))
	for _, mr := range mimePriority {
		out = append(out, mr.mime)
	}
	return out
}

func selectMIME(bundle map[string]string) (OutputBlock, bool) {
	for _, mr := range mimePriority {
		content, ok := bundle[mr.mime]
		if !ok {
			continue
		}
		if block, ok := mr.build(mr.mime, content); ok {
			return block, true
		}
	}
	return OutputBlock{}, false
}

func imageOutput(mime, content string) (OutputBlock, bool) {
	data := stripSpace(content)
	if data == "" {
		return OutputBlock{}, false
	}
	return OutputBlock{Kind: OutputKindImage, MIME: mime, Data: data}, true
}

func htmlOutput(mime, content string) (OutputBlock, bool) {
	if content == "" {
		return OutputBlock{}, false
	}
	return OutputBlock{Kind: OutputKindHTML, MIME: mime, Text: content}, true
}

func textOutput(mime, content string) (OutputBlock, bool) {
	if content == "" {
		return OutputBlock{}, false
	}
	return OutputBlock{Kind: OutputKindText, MIME: mime, Text: content}, true
}

// stripSpace drops the line breaks notebook writers insert into base64 payloads.
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}
