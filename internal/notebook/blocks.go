package notebook

// BlockKind distinguishes the top-level blocks produced by Render.
type BlockKind string

const (
	BlockEmpty BlockKind = "empty"
	BlockRaw   BlockKind = "raw"
	BlockCell  BlockKind = "cell"
)

// OutputKind is the rendered form chosen for a cell output.
type OutputKind string

const (
	OutputKindStream OutputKind = "stream"
	OutputKindImage  OutputKind = "image"
	OutputKindHTML   OutputKind = "html"
	OutputKindText   OutputKind = "text"
	OutputKindError  OutputKind = "error"
)

// PlaceholderText is shown when there is nothing to render.
const PlaceholderText = "No content"

// Block is one top-level unit of rendered output. Empty and raw blocks carry
// Text; cell blocks carry Cell.
type Block struct {
	Kind BlockKind  `json:"kind"`
	Text string     `json:"text,omitempty"`
	Cell *CellBlock `json:"cell,omitempty"`
}

// CellBlock is the display model of one notebook cell.
type CellBlock struct {
	Index          int           `json:"index"`
	Type           CellType      `json:"type"`
	Label          string        `json:"label"`
	ExecutionCount *int          `json:"execution_count,omitempty"`
	Source         string        `json:"source"`
	Paragraphs     []string      `json:"paragraphs,omitempty"`
	Outputs        []OutputBlock `json:"outputs,omitempty"`
}

// OutputBlock is one rendered output. Data holds base64 image payloads; Text
// holds everything else (stream text, HTML markup, plain text, traceback).
type OutputBlock struct {
	Kind OutputKind `json:"kind"`
	MIME string     `json:"mime,omitempty"`
	Name string     `json:"name,omitempty"`
	Text string     `json:"text,omitempty"`
	Data string     `json:"data,omitempty"`
}

// IsStderr reports whether a stream output was written to stderr.
func (o OutputBlock) IsStderr() bool {
	return o.Kind == OutputKindStream && o.Name == "stderr"
}
