package notebook

// CellType is the notebook cell_type. Anything other than code or markdown
// is carried through verbatim and rendered as plain source.
type CellType string

const (
	CellCode     CellType = "code"
	CellMarkdown CellType = "markdown"
	CellRaw      CellType = "raw"
)

// OutputType is the output_type tag of a code cell output.
type OutputType string

const (
	OutputStream        OutputType = "stream"
	OutputExecuteResult OutputType = "execute_result"
	OutputDisplayData   OutputType = "display_data"
	OutputError         OutputType = "error"
)

// Document is the decoded subset of a notebook used for rendering.
type Document struct {
	Cells         []Cell
	Language      string
	NBFormat      int
	NBFormatMinor int
}

// Cell is one notebook cell. Source is already joined from its fragments.
type Cell struct {
	Type           CellType
	Source         string
	ExecutionCount *int
	Outputs        []Output
}

// Output is a tagged union on Type. Only the fields of the matching variant are set:
// stream uses Name/Text, execute_result and display_data use Data, error uses
// Traceback/EName/EValue. Unknown types keep only Type.
type Output struct {
	Type           OutputType
	Name           string
	Text           string
	Data           map[string]string
	Traceback      string
	EName          string
	EValue         string
	ExecutionCount *int
}

// IsKnown reports whether the output has a renderable variant.
func (o Output) IsKnown() bool {
	switch o.Type {
	case OutputStream, OutputExecuteResult, OutputDisplayData, OutputError:
		return true
	default:
		return false
	}
}

// IsKnown reports whether the cell type gets type-specific treatment.
func (c Cell) IsKnown() bool {
	return c.Type == CellCode || c.Type == CellMarkdown
}
