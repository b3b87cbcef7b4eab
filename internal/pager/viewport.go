package pager

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// docViewport 包装 bubbles viewport，内容未变化时跳过 SetContent。
type docViewport struct {
	viewport.Model
	lastLines []string
}

func newDocViewport(width, height int) docViewport {
	return docViewport{Model: viewport.New(width, height)}
}

// Resize 更新宽高；宽度变化时清空缓存，强制下次全量设置内容。
func (v *docViewport) Resize(width, height int) {
	if v.Width != width {
		v.lastLines = nil
	}
	v.Width = width
	v.Height = height
}

// SetLines 更新内容并保持当前偏移。
func (v *docViewport) SetLines(lines []string) {
	if slices.Equal(lines, v.lastLines) {
		return
	}
	v.lastLines = append([]string(nil), lines...)
	offset := v.YOffset
	v.SetContent(strings.Join(lines, "\n"))
	v.SetYOffset(offset)
}

// HandleUpdate 代理 bubbles 的 Update。
func (v *docViewport) HandleUpdate(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.Model, cmd = v.Model.Update(msg)
	return cmd
}
