package notebook

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

var (
	// ErrParseFailure means the input is not valid JSON.
	ErrParseFailure = errors.New("notebook: input is not valid JSON")
	// ErrSchemaMismatch means the JSON has no cells array.
	ErrSchemaMismatch = errors.New("notebook: document has no cells array")
)

// Join separators for string-or-fragments fields.
const (
	sourceSep    = ""
	tracebackSep = "\n"
)

// Parse decodes notebook JSON. Field type mismatches are treated as absent
// values; only invalid JSON and a missing cells array are errors.
func Parse(data []byte) (Document, error) {
	if !gjson.ValidBytes(data) {
		return Document{}, ErrParseFailure
	}
	return decodeDocument(gjson.ParseBytes(data))
}

func decodeDocument(root gjson.Result) (Document, error) {
	cells := root.Get("cells")
	if !root.IsObject() || !cells.IsArray() {
		return Document{}, ErrSchemaMismatch
	}
	doc := Document{
		NBFormat:      intField(root, "nbformat"),
		NBFormatMinor: intField(root, "nbformat_minor"),
		Language:      stringField(root, "metadata.kernelspec.language"),
	}
	if doc.Language == "" {
		doc.Language = stringField(root, "metadata.language_info.name")
	}
	cells.ForEach(func(_, cell gjson.Result) bool {
		doc.Cells = append(doc.Cells, decodeCell(cell))
		return true
	})
	return doc, nil
}

func decodeCell(r gjson.Result) Cell {
	cell := Cell{
		Type:   CellType(stringField(r, "cell_type")),
		Source: joinText(r.Get("source"), sourceSep),
	}
	if cell.Type != CellCode {
		return cell
	}
	cell.ExecutionCount = optionalInt(r.Get("execution_count"))
	outputs := r.Get("outputs")
	if !outputs.IsArray() {
		return cell
	}
	outputs.ForEach(func(_, out gjson.Result) bool {
		cell.Outputs = append(cell.Outputs, decodeOutput(out))
		return true
	})
	return cell
}

func decodeOutput(r gjson.Result) Output {
	out := Output{Type: OutputType(stringField(r, "output_type"))}
	switch out.Type {
	case OutputStream:
		out.Name = stringField(r, "name")
		out.Text = joinText(r.Get("text"), sourceSep)
	case OutputExecuteResult, OutputDisplayData:
		out.ExecutionCount = optionalInt(r.Get("execution_count"))
		data := r.Get("data")
		if data.IsObject() {
			out.Data = map[string]string{}
			data.ForEach(func(key, val gjson.Result) bool {
				out.Data[key.String()] = joinText(val, sourceSep)
				return true
			})
		}
	case OutputError:
		out.EName = stringField(r, "ename")
		out.EValue = stringField(r, "evalue")
		out.Traceback = joinText(r.Get("traceback"), tracebackSep)
	}
	return out
}

// joinText normalizes the string-or-fragments representation used by source,
// text, traceback and MIME bundle values.
func joinText(r gjson.Result, sep string) string {
	switch {
	case r.IsArray():
		parts := make([]string, 0, 8)
		r.ForEach(func(_, part gjson.Result) bool {
			parts = append(parts, part.String())
			return true
		})
		return strings.Join(parts, sep)
	case r.Type == gjson.String:
		return r.Str
	default:
		return ""
	}
}

func stringField(r gjson.Result, path string) string {
	v := r.Get(path)
	if v.Type != gjson.String {
		return ""
	}
	return v.Str
}

func intField(r gjson.Result, path string) int {
	v := r.Get(path)
	if v.Type != gjson.Number {
		return 0
	}
	return int(v.Int())
}

func optionalInt(v gjson.Result) *int {
	if v.Type != gjson.Number {
		return nil
	}
	n := int(v.Int())
	return &n
}
