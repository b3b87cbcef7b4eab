package render

// Insets 是四边留白，单位为列/行。
type Insets struct {
	Top, Left, Bottom, Right int
}

// TLBR 按 top/left/bottom/right 顺序构造 Insets。
func TLBR(top, left, bottom, right int) Insets {
	return Insets{Top: top, Left: left, Bottom: bottom, Right: right}
}

// Rect 是 Buffer 中的一块区域。
type Rect struct {
	X, Y          int
	Width, Height int
}

// Inset 收紧区域；宽高不会小于 0。
func (r Rect) Inset(in Insets) Rect {
	return Rect{
		X:      r.X + in.Left,
		Y:      r.Y + in.Top,
		Width:  max(r.Width-in.Left-in.Right, 0),
		Height: max(r.Height-in.Top-in.Bottom, 0),
	}
}
