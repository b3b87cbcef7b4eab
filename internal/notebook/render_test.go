package notebook

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func cellsOf(t *testing.T, blocks []Block) []*CellBlock {
	t.Helper()
	out := make([]*CellBlock, 0, len(blocks))
	for i, b := range blocks {
		if b.Kind != BlockCell || b.Cell == nil {
			t.Fatalf("block %d: expected cell block, got %#v", i, b)
		}
		out = append(out, b.Cell)
	}
	return out
}

func TestRender_NonJSONReturnsRawInput(t *testing.T) {
	inputs := []string{
		"not json at all",
		"{\"cells\": [",
		"print('hi')\n",
	}
	for _, in := range inputs {
		blocks, diag := Inspect(in)
		if len(blocks) != 1 {
			t.Fatalf("%q: expected 1 block, got %d", in, len(blocks))
		}
		if blocks[0].Kind != BlockRaw || blocks[0].Text != in {
			t.Fatalf("%q: expected raw block with input verbatim, got %#v", in, blocks[0])
		}
		if diag.Recovery != RecoveryParseFailure {
			t.Fatalf("%q: recovery = %q, want parse_failure", in, diag.Recovery)
		}
	}
}

func TestRender_EmptyInputIsPlaceholder(t *testing.T) {
	for _, in := range []any{nil, "", "   \n", []byte{}, (*Document)(nil)} {
		blocks := Render(in)
		if len(blocks) != 1 || blocks[0].Kind != BlockEmpty || blocks[0].Text != PlaceholderText {
			t.Fatalf("%#v: expected placeholder, got %#v", in, blocks)
		}
	}
}

func TestRender_MissingCellsIsPrettyPrinted(t *testing.T) {
	in := `{"b":1,"a":{"x":[1,2]}}`
	blocks, diag := Inspect(in)
	if len(blocks) != 1 || blocks[0].Kind != BlockRaw {
		t.Fatalf("expected single raw block, got %#v", blocks)
	}
	want := "{\n  \"b\": 1,\n  \"a\": {\n    \"x\": [1, 2]\n  }\n}"
	if blocks[0].Text != want {
		t.Fatalf("pretty output mismatch:\nwant: %q\ngot:  %q", want, blocks[0].Text)
	}
	if diag.Recovery != RecoverySchemaMismatch {
		t.Fatalf("recovery = %q, want schema_mismatch", diag.Recovery)
	}
}

func TestRender_CellsNotArrayIsSchemaMismatch(t *testing.T) {
	for _, in := range []string{`{"cells":"nope"}`, `[1,2,3]`, `"text"`, `42`} {
		blocks, diag := Inspect(in)
		if len(blocks) != 1 || blocks[0].Kind != BlockRaw {
			t.Fatalf("%s: expected raw block, got %#v", in, blocks)
		}
		if diag.Recovery != RecoverySchemaMismatch {
			t.Fatalf("%s: recovery = %q", in, diag.Recovery)
		}
	}
}

func TestRender_DecodedValueWithoutCells(t *testing.T) {
	blocks := Render(map[string]any{"hello": "world"})
	if len(blocks) != 1 || blocks[0].Text != "{\n  \"hello\": \"world\"\n}" {
		t.Fatalf("unexpected blocks: %#v", blocks)
	}
}

func TestRender_UnmarshalableValueFallsBackToString(t *testing.T) {
	blocks, diag := Inspect(make(chan int))
	if len(blocks) != 1 || blocks[0].Kind != BlockRaw {
		t.Fatalf("unexpected blocks: %#v", blocks)
	}
	if diag.Recovery != RecoveryMarshalFailure {
		t.Fatalf("recovery = %q", diag.Recovery)
	}
}

func TestRender_CellCountAndOrder(t *testing.T) {
	in := `{"cells":[
		{"cell_type":"markdown","source":"# Title"},
		{"cell_type":"code","source":["x = 1\n","x"],"execution_count":3,"outputs":[]},
		{"cell_type":"raw","source":"raw text"},
		{"cell_type":"code","source":"y","execution_count":null}
	]}`
	cells := cellsOf(t, Render(in))
	if len(cells) != 4 {
		t.Fatalf("expected 4 cells, got %d", len(cells))
	}
	wantTypes := []CellType{CellMarkdown, CellCode, CellRaw, CellCode}
	wantLabels := []string{"markdown", "[3]:", "raw", "[ ]:"}
	for i, c := range cells {
		if c.Index != i || c.Type != wantTypes[i] || c.Label != wantLabels[i] {
			t.Fatalf("cell %d = %#v", i, c)
		}
	}
	if cells[1].Source != "x = 1\nx" {
		t.Fatalf("source fragments not joined: %q", cells[1].Source)
	}
	if cells[2].Source != "raw text" || len(cells[2].Outputs) != 0 {
		t.Fatalf("unknown cell should keep source only: %#v", cells[2])
	}
}

func TestRender_MarkdownSplitsOnNewline(t *testing.T) {
	in := `{"cells":[{"cell_type":"markdown","source":["line one\n","line two"]}]}`
	cells := cellsOf(t, Render(in))
	want := []string{"line one", "line two"}
	if !reflect.DeepEqual(cells[0].Paragraphs, want) {
		t.Fatalf("paragraphs = %#v, want %#v", cells[0].Paragraphs, want)
	}
}

func TestRender_MarkdownIsNotParsed(t *testing.T) {
	in := `{"cells":[{"cell_type":"markdown","source":"**bold**\n\n- item"}]}`
	cells := cellsOf(t, Render(in))
	want := []string{"**bold**", "", "- item"}
	if !reflect.DeepEqual(cells[0].Paragraphs, want) {
		t.Fatalf("paragraphs = %#v, want %#v", cells[0].Paragraphs, want)
	}
}

func TestRender_PlainTextResult(t *testing.T) {
	in := `{"cells":[{"cell_type":"code","source":"6*7","outputs":[{"output_type":"execute_result","data":{"text/plain":"42"}}]}]}`
	cells := cellsOf(t, Render(in))
	outs := cells[0].Outputs
	if len(outs) != 1 {
		t.Fatalf("expected 1 output, got %#v", outs)
	}
	if outs[0].Kind != OutputKindText || outs[0].Text != "42" {
		t.Fatalf("unexpected output: %#v", outs[0])
	}
}

func TestRender_PNGBeatsPlainText(t *testing.T) {
	in := `{"cells":[{"cell_type":"code","source":"plot()","outputs":[{"output_type":"display_data","data":{"text/plain":"fallback","image/png":"iVBORw0KGgo=\n"}}]}]}`
	outs := cellsOf(t, Render(in))[0].Outputs
	if len(outs) != 1 {
		t.Fatalf("expected exactly one rendered output, got %#v", outs)
	}
	if outs[0].Kind != OutputKindImage || outs[0].MIME != "image/png" || outs[0].Data != "iVBORw0KGgo=" {
		t.Fatalf("unexpected output: %#v", outs[0])
	}
	if strings.Contains(outs[0].Text, "fallback") {
		t.Fatalf("plain text must not be shown when an image is present")
	}
}

func TestRender_MIMEPriority(t *testing.T) {
	cases := []struct {
		name string
		data string
		kind OutputKind
		mime string
	}{
		{"jpeg over html", `{"text/html":"<b>x</b>","image/jpeg":"/9j/"}`, OutputKindImage, "image/jpeg"},
		{"png over jpeg", `{"image/jpeg":"/9j/","image/png":"iVBO"}`, OutputKindImage, "image/png"},
		{"html over text", `{"text/plain":"x","text/html":"<b>x</b>"}`, OutputKindHTML, "text/html"},
		{"empty png skipped", `{"image/png":"","text/plain":"x"}`, OutputKindText, "text/plain"},
		{"fragments joined", `{"text/plain":["a","b"]}`, OutputKindText, "text/plain"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := `{"cells":[{"cell_type":"code","source":"","outputs":[{"output_type":"execute_result","data":` + tc.data + `}]}]}`
			outs := cellsOf(t, Render(in))[0].Outputs
			if len(outs) != 1 || outs[0].Kind != tc.kind || outs[0].MIME != tc.mime {
				t.Fatalf("unexpected outputs: %#v", outs)
			}
		})
	}
	if got := MIMEPriority(); !reflect.DeepEqual(got, []string{"image/png", "image/jpeg", "text/html", "text/plain"}) {
		t.Fatalf("MIMEPriority() = %v", got)
	}
}

func TestRender_ErrorTraceback(t *testing.T) {
	in := `{"cells":[{"cell_type":"code","source":"1/0","outputs":[{"output_type":"error","ename":"ZeroDivisionError","evalue":"division by zero","traceback":["line1","line2"]}]}]}`
	outs := cellsOf(t, Render(in))[0].Outputs
	if len(outs) != 1 || outs[0].Kind != OutputKindError || outs[0].Text != "line1\nline2" {
		t.Fatalf("unexpected outputs: %#v", outs)
	}
}

func TestRender_EmptyBundleAndUnknownOutputSkipped(t *testing.T) {
	in := `{"cells":[{"cell_type":"code","source":"x","outputs":[
		{"output_type":"stream","name":"stdout","text":["a\n","b\n"]},
		{"output_type":"display_data","data":{}},
		{"output_type":"display_data","data":{"application/json":{"k":1}}},
		{"output_type":"update_display_data","data":{"text/plain":"ignored"}},
		{"output_type":"stream","name":"stderr","text":"warn"}
	]}]}`
	blocks, diag := Inspect(in)
	outs := cellsOf(t, blocks)[0].Outputs
	if len(outs) != 2 {
		t.Fatalf("expected 2 rendered outputs, got %#v", outs)
	}
	if outs[0].Text != "a\nb\n" || outs[0].IsStderr() {
		t.Fatalf("unexpected first output: %#v", outs[0])
	}
	if !outs[1].IsStderr() || outs[1].Text != "warn" {
		t.Fatalf("unexpected second output: %#v", outs[1])
	}
	if diag.Outputs != 5 || diag.EmptyBundles != 2 || diag.SkippedOutputs != 1 {
		t.Fatalf("unexpected diagnostics: %#v", diag)
	}
}

func TestRender_OutputsIgnoredOutsideCodeCells(t *testing.T) {
	in := `{"cells":[{"cell_type":"markdown","source":"m","outputs":[{"output_type":"stream","text":"x"}]}]}`
	if outs := cellsOf(t, Render(in))[0].Outputs; len(outs) != 0 {
		t.Fatalf("markdown cell must not render outputs: %#v", outs)
	}
}

func TestRender_WrongFieldTypesAreTolerated(t *testing.T) {
	in := `{"cells":[
		42,
		{"cell_type":7,"source":{"a":1}},
		{"cell_type":"code","source":"s","execution_count":"3","outputs":{"not":"array"}},
		{"cell_type":"code","source":"s","outputs":[null,"x",{"output_type":"error","traceback":"single"}]}
	]}`
	cells := cellsOf(t, Render(in))
	if len(cells) != 4 {
		t.Fatalf("expected 4 cells, got %d", len(cells))
	}
	if cells[0].Label != "unknown" || cells[0].Source != "" {
		t.Fatalf("non-object cell: %#v", cells[0])
	}
	if cells[2].Label != "[ ]:" || len(cells[2].Outputs) != 0 {
		t.Fatalf("string execution_count must be ignored: %#v", cells[2])
	}
	if outs := cells[3].Outputs; len(outs) != 1 || outs[0].Text != "single" {
		t.Fatalf("unexpected outputs: %#v", outs)
	}
}

func TestRender_IsIdempotentAndDoesNotMutateInput(t *testing.T) {
	count := 5
	doc := &Document{Cells: []Cell{
		{Type: CellMarkdown, Source: "a\nb"},
		{Type: CellCode, Source: "x", ExecutionCount: &count, Outputs: []Output{
			{Type: OutputExecuteResult, Data: map[string]string{"text/plain": "1"}},
		}},
	}}
	first := Render(doc)
	second := Render(doc)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("render is not idempotent:\n%#v\n%#v", first, second)
	}
	first[1].Cell.Outputs[0].Text = "changed"
	*first[1].Cell.ExecutionCount = 99
	if count != 5 || doc.Cells[1].Outputs[0].Data["text/plain"] != "1" {
		t.Fatalf("render output aliases input")
	}

	text := `{"cells":[{"cell_type":"code","source":"x","outputs":[{"output_type":"stream","text":"o"}]}]}`
	if !reflect.DeepEqual(Render(text), Render(text)) {
		t.Fatalf("render of text is not idempotent")
	}
}

func TestRender_AcceptsRawMessageAndBytes(t *testing.T) {
	raw := json.RawMessage(`{"cells":[{"cell_type":"code","source":"x"}]}`)
	if got := cellsOf(t, Render(raw)); len(got) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(got))
	}
	if got := cellsOf(t, Render([]byte(raw))); len(got) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(got))
	}
}

func TestParse_Metadata(t *testing.T) {
	doc, err := Parse([]byte(`{"nbformat":4,"nbformat_minor":5,"metadata":{"language_info":{"name":"python"}},"cells":[]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Language != "python" || doc.NBFormat != 4 || doc.NBFormatMinor != 5 {
		t.Fatalf("unexpected document: %#v", doc)
	}
	if _, err := Parse([]byte("nope")); err != ErrParseFailure {
		t.Fatalf("Parse(nope) err = %v", err)
	}
	if _, err := Parse([]byte(`{}`)); err != ErrSchemaMismatch {
		t.Fatalf("Parse({}) err = %v", err)
	}
}

func TestRender_BlocksMarshalAsSnakeCase(t *testing.T) {
	n := 1
	data, err := json.Marshal(Render(&Document{Cells: []Cell{{Type: CellCode, Source: "x", ExecutionCount: &n}}}))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"execution_count":1`) || !strings.Contains(string(data), `"kind":"cell"`) {
		t.Fatalf("unexpected JSON: %s", data)
	}
}
