package app

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/vimkeys/internal/input"
)

var (
	styleDefault = tcell.StyleDefault
	styleTitle   = tcell.StyleDefault.Bold(true)
	styleStatus  = tcell.StyleDefault.Reverse(true)
	styleError   = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

const title = "vimkeys - type Vim commands, <C-x><C-c> or :q quits"

// draw renders the session:
//
//	title
//	(executed commands, newest last)
//	text: typed insert text
//	last message
//	status                          showcmd
func (app *Application) draw(screen tcell.Screen) {
	screen.Clear()
	w, h := screen.Size()
	if w <= 0 || h < 4 {
		screen.Show()
		return
	}
	s := app.session
	d := s.Dispatcher()

	drawString(screen, 0, 0, w, title, styleTitle)

	records := s.Records()
	rows := h - 5
	if rows > len(records) {
		rows = len(records)
	}
	for i := 0; i < rows; i++ {
		r := records[len(records)-rows+i]
		drawString(screen, 0, 2+i, w, r.String(), styleDefault)
	}

	drawString(screen, 0, h-3, w, "text: "+lastLine(s.Text()), styleDefault)

	msgStyle := styleDefault
	if strings.HasPrefix(s.LastMessage(), "E") {
		msgStyle = styleError
	}
	drawString(screen, 0, h-2, w, lastLine(s.LastMessage()), msgStyle)

	for x := 0; x < w; x++ {
		screen.SetContent(x, h-1, ' ', nil, styleStatus)
	}
	drawString(screen, 0, h-1, w, d.Status(), styleStatus)
	if sc := d.ShowCmd(); sc != "" {
		x := w - input.ShowCmdWidth - 1
		if x < 0 {
			x = 0
		}
		drawString(screen, x, h-1, w-x, sc, styleStatus)
	}
	screen.Show()
}

// drawString writes s at x, y one grapheme cluster per cell run, cut at
// width columns. It returns the columns used.
func drawString(screen tcell.Screen, x, y, width int, s string, style tcell.Style) int {
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cw := g.Width()
		if used+cw > width {
			break
		}
		runes := g.Runes()
		if runes[0] == '\t' || runes[0] == '\n' {
			runes = []rune{' '}
			cw = 1
		}
		screen.SetContent(x+used, y, runes[0], runes[1:], style)
		used += cw
	}
	return used
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
