package app

import (
	"github.com/gdamore/tcell/v2"
)

// HandleEvent applies one terminal event, returns false when the app should exit
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)

	case *tcell.EventMouse:
		a.handleMouse(ev)

	case *tcell.EventResize:
		if a.screen != nil {
			a.screen.Sync()
		}
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		a.Quit()
		return false
	case tcell.KeyHome:
		a.BackToTop()
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	switch ev.Rune() {
	case 'q', 'Q':
		a.Quit()
		return false
	case 'l', 'L':
		a.ToggleLanguage()
	case 'm', 'M':
		a.ToggleMusic()
	case 't', 'T':
		a.BackToTop()
	}
	return true
}

// handleMouse feeds the pointer at the cell centre and fires a click on the left-button press edge
func (a *App) handleMouse(ev *tcell.EventMouse) {
	if a.surface == nil {
		return
	}

	col, row := ev.Position()
	x, y := a.surface.CellToPixel(col, row)
	a.anim.PointerMove(x, y)

	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && a.buttons&tcell.Button1 == 0
	a.buttons = buttons
	if pressed {
		a.anim.Click(x, y)
	}
}
