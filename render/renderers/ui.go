package renderers

import (
	"fmt"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/tilt-maze/constants"
	"github.com/lixenwraith/tilt-maze/render"
)

// StatusBarRenderer draws the bottom line: tilt, ball position, feed devices
type StatusBarRenderer struct {
	visible bool
}

func NewStatusBarRenderer(visible bool) *StatusBarRenderer {
	return &StatusBarRenderer{visible: visible}
}

func (r *StatusBarRenderer) IsVisible() bool { return r.visible }

func (r *StatusBarRenderer) Render(ctx render.Context, s *render.Surface) {
	cols, rows := s.Cells()
	if rows == 0 {
		return
	}
	y := rows - constants.StatusBarHeight
	style := render.Label(render.RgbStatusText, render.RgbStatusBg)
	s.Box(0, y, cols, constants.StatusBarHeight, style)

	text := fmt.Sprintf(" tilt %+.2f,%+.2f  ball %.0f,%.0f",
		ctx.Status.TiltX, ctx.Status.TiltY, ctx.Game.Position.X, ctx.Game.Position.Y)
	if ctx.Status.FeedAddr != "" {
		text += fmt.Sprintf("  feed %s (%d)", ctx.Status.FeedAddr, ctx.Status.Devices)
	}
	if ctx.Status.Message != "" {
		text += "  " + ctx.Status.Message
	}
	s.Text(0, y, text, style)

	help := "arrows/hjkl tilt  space level  q quit "
	if x := cols - utf8.RuneCountInString(help); x > utf8.RuneCountInString(text)+1 {
		s.Text(x, y, help, style)
	}
}

// WinRenderer shows the win box once the goal is reached
type WinRenderer struct{}

func NewWinRenderer() *WinRenderer { return &WinRenderer{} }

func (r *WinRenderer) Render(ctx render.Context, s *render.Surface) {
	if !ctx.Game.Won {
		return
	}
	drawBox(s, render.RgbWinBox, "", []string{constants.WinText}, "")
}

// OverlayRenderer draws the modal dialog or alert, if any
type OverlayRenderer struct{}

func NewOverlayRenderer() *OverlayRenderer { return &OverlayRenderer{} }

func (r *OverlayRenderer) Render(ctx render.Context, s *render.Surface) {
	if ctx.Overlay == nil {
		return
	}
	bg := render.RgbDialogBg
	if ctx.Overlay.Alert {
		bg = render.RgbAlertBg
	}
	drawBox(s, bg, ctx.Overlay.Title, ctx.Overlay.Lines, ctx.Overlay.Hint)
}

// drawBox centers a padded box holding title, lines and hint
func drawBox(s *render.Surface, bg tcell.Color, title string, lines []string, hint string) {
	cols, _ := s.Cells()
	worldRows := s.WorldRows()

	var content []string
	if title != "" {
		content = append(content, title, "")
	}
	content = append(content, lines...)
	if hint != "" {
		content = append(content, "", hint)
	}

	width := 0
	for _, l := range content {
		width = max(width, utf8.RuneCountInString(l))
	}
	boxW := width + 4
	boxH := len(content) + 2
	x := (cols - boxW) / 2
	y := (worldRows - boxH) / 2

	style := render.Label(render.RgbText, bg)
	s.Box(x, y, boxW, boxH, style)
	for i, l := range content {
		lx := x + (boxW-utf8.RuneCountInString(l))/2
		lineStyle := style
		if i == 0 {
			lineStyle = style.Bold(true)
		}
		s.Text(lx, y+1+i, l, lineStyle)
	}
}
