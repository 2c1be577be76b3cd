package engine

import (
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/tilt-maze/sensor"
)

var keyDirections = map[tcell.Key]sensor.Direction{
	tcell.KeyLeft:  sensor.DirLeft,
	tcell.KeyRight: sensor.DirRight,
	tcell.KeyUp:    sensor.DirUp,
	tcell.KeyDown:  sensor.DirDown,
}

var runeDirections = map[rune]sensor.Direction{
	'h': sensor.DirLeft,
	'l': sensor.DirRight,
	'k': sensor.DirUp,
	'j': sensor.DirDown,
}

// handleEvent processes one terminal event; false means quit
func (e *Engine) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		e.handleResize()
		return true
	case *tcell.EventKey:
		return e.handleKey(ev)
	}
	return true
}

func (e *Engine) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return false
	}

	// Modal layers capture keys until settled
	if len(e.pending) > 0 {
		switch {
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'y' || ev.Rune() == 'Y'):
			e.answer(true)
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'n' || ev.Rune() == 'N'), ev.Key() == tcell.KeyEscape:
			e.answer(false)
		}
		return true
	}
	if e.alert != nil {
		switch {
		case ev.Key() == tcell.KeyEnter, ev.Key() == tcell.KeyEscape:
			e.alert = nil
			e.updateOverlay()
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		}
		return true
	}

	if dir, ok := keyDirections[ev.Key()]; ok {
		e.keyboard.Nudge(dir)
		return true
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		return false
	case tcell.KeyRune:
		if dir, ok := runeDirections[ev.Rune()]; ok {
			e.keyboard.Nudge(dir)
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			e.keyboard.Level()
		}
	}
	return true
}

// handleResize re-reads the terminal size and re-clamps the ball into the new world
func (e *Engine) handleResize() {
	e.orchestrator.Resize()
	w, h := e.surface.WorldSize()
	e.logger.Debug("resize", zap.Float64("width", w), zap.Float64("height", h))
	e.applyChange(e.state.Resize(w, h))
	e.renderFrame()
}
