package render

import "strings"

// Renderable 统一的可渲染抽象。
type Renderable interface {
	Render(area Rect, buf *Buffer)
	DesiredHeight(width int) int
}

// StaticLines 用于包装已准备好的行。
type StaticLines []Line

func (s StaticLines) Render(area Rect, buf *Buffer) {
	lines := []Line(s)
	if area.Height > 0 && len(lines) > area.Height {
		lines = lines[:area.Height]
	}
	buf.WriteLines(lines...)
}

func (s StaticLines) DesiredHeight(int) int {
	return len(s)
}

// ColumnRenderable 垂直堆叠子元素。
type ColumnRenderable struct {
	children []Renderable
}

// NewColumn 创建空列。
func NewColumn() *ColumnRenderable {
	return &ColumnRenderable{children: []Renderable{}}
}

// Push 添加子元素。
func (c *ColumnRenderable) Push(child Renderable) {
	if c == nil || child == nil {
		return
	}
	c.children = append(c.children, child)
}

// Len 返回子元素数量。
func (c *ColumnRenderable) Len() int {
	if c == nil {
		return 0
	}
	return len(c.children)
}

// Render 依次渲染子元素。
func (c *ColumnRenderable) Render(area Rect, buf *Buffer) {
	if c == nil {
		return
	}
	y := area.Y
	for _, child := range c.children {
		height := child.DesiredHeight(area.Width)
		childArea := Rect{X: area.X, Y: y, Width: area.Width, Height: height}
		child.Render(childArea, buf)
		y += height
		if area.Height > 0 && y-area.Y >= area.Height {
			break
		}
	}
}

// DesiredHeight 返回所有子元素高度之和。
func (c *ColumnRenderable) DesiredHeight(width int) int {
	if c == nil {
		return 0
	}
	total := 0
	for _, child := range c.children {
		total += child.DesiredHeight(width)
	}
	return total
}

// InsetRenderable 为子元素应用左侧缩进；上下内边距输出空行。
type InsetRenderable struct {
	child  Renderable
	insets Insets
}

// NewInset 创建带内边距的 Renderable。
func NewInset(child Renderable, insets Insets) *InsetRenderable {
	return &InsetRenderable{child: child, insets: insets}
}

func (i *InsetRenderable) Render(area Rect, buf *Buffer) {
	if i == nil || i.child == nil {
		return
	}
	inner := area.Inset(i.insets)
	var childBuf Buffer
	i.child.Render(inner, &childBuf)
	for n := 0; n < i.insets.Top; n++ {
		buf.WriteLine(Line{})
	}
	pad := strings.Repeat(" ", i.insets.Left)
	for _, line := range childBuf.Lines {
		if pad == "" {
			buf.WriteLine(line)
			continue
		}
		spans := append([]Span{{Text: pad}}, line.Spans...)
		buf.WriteLine(Line{Spans: spans, Style: line.Style})
	}
	for n := 0; n < i.insets.Bottom; n++ {
		buf.WriteLine(Line{})
	}
}

func (i *InsetRenderable) DesiredHeight(width int) int {
	if i == nil || i.child == nil {
		return 0
	}
	childHeight := i.child.DesiredHeight(width - i.insets.Left - i.insets.Right)
	return childHeight + i.insets.Top + i.insets.Bottom
}

// RenderLines 将 Renderable 渲染为行。
func RenderLines(r Renderable, width int) []Line {
	if r == nil {
		return nil
	}
	buf := Buffer{}
	r.Render(Rect{Width: width, Height: r.DesiredHeight(width)}, &buf)
	return buf.Lines
}
