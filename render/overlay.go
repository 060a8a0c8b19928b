package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Overlay is the text layer drawn above the field
type Overlay struct {
	Heading    string
	Subheading string
	Status     string
	Toast      string
}

var (
	headingColor = tcell.NewRGBColor(246, 217, 139)
	subColor     = tcell.NewRGBColor(205, 184, 242)
	statusColor  = tcell.NewRGBColor(150, 150, 170)
	toastColor   = tcell.NewRGBColor(184, 242, 216)
)

func (o *Overlay) draw(screen tcell.Screen, bg tcell.Style, cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}

	top := rows / 3
	drawCentered(screen, top, cols, o.Heading, bg.Foreground(headingColor).Bold(true))
	drawCentered(screen, top+2, cols, o.Subheading, bg.Foreground(subColor))

	if rows > 1 {
		drawCentered(screen, rows-2, cols, o.Toast, bg.Foreground(toastColor))
	}
	drawText(screen, 0, rows-1, cols, o.Status, bg.Foreground(statusColor))
}

// drawCentered writes text centred on row y, truncated to the screen width
func drawCentered(screen tcell.Screen, y, cols int, text string, style tcell.Style) {
	if text == "" {
		return
	}
	text = runewidth.Truncate(text, cols, "…")
	x := (cols - runewidth.StringWidth(text)) / 2
	drawText(screen, x, y, cols-x, text, style)
}

// drawText writes text from (x, y) without exceeding maxWidth cells
func drawText(screen tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	used := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if used+w > maxWidth {
			return
		}
		screen.SetContent(x+used, y, r, nil, style)
		used += w
	}
}
