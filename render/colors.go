package render

import "github.com/gdamore/tcell/v2"

// Palette
var (
	RgbBackground = tcell.NewRGBColor(255, 255, 255)
	RgbWall       = tcell.NewRGBColor(0, 0, 0)
	RgbGoal       = tcell.NewRGBColor(0, 128, 0)
	RgbBall       = tcell.NewRGBColor(0, 0, 255)
	RgbBallHit    = tcell.NewRGBColor(255, 0, 0)

	RgbStatusBg   = tcell.NewRGBColor(30, 30, 30)
	RgbStatusText = tcell.NewRGBColor(200, 200, 200)
	RgbWinBox     = tcell.NewRGBColor(60, 60, 60)
	RgbText       = tcell.NewRGBColor(255, 255, 255)
	RgbDialogBg   = tcell.NewRGBColor(20, 20, 80)
	RgbAlertBg    = tcell.NewRGBColor(120, 20, 20)
)

// Fill returns a style that paints a solid cell of color c
func Fill(c tcell.Color) tcell.Style {
	return tcell.StyleDefault.Background(c).Foreground(c)
}

// Label returns a text style of fg on bg
func Label(fg, bg tcell.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(fg).Background(bg)
}
