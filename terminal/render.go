/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package terminal

import (
	"fmt"

	"github.com/Seednode/maboulbox/games/maboul"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Rows above and below the playfield.
const (
	headerRows = 1
	footerRows = 1
	menuTop    = 2
)

var (
	colorWall    = tcell.NewRGBColor(38, 30, 58)
	colorFlash   = tcell.NewRGBColor(200, 30, 30)
	colorChannel = tcell.NewRGBColor(232, 228, 214)
	colorStart   = tcell.NewRGBColor(150, 214, 150)
	colorTarget  = tcell.NewRGBColor(240, 120, 120)
	colorPiece   = tcell.NewRGBColor(255, 196, 0)
	colorOff     = tcell.ColorBlack

	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHeader = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	styleDone   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleFailed = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// layout fits the logical canvas into the playfield. Each cell holds two
// vertical pixels drawn with a half block.
func (h *Host) layout() {
	cols, rows := h.screen.Size()
	field := max(1, rows-headerRows-footerRows)
	cfg := h.session.Config()
	h.view = maboul.Fit(cfg.Width, cfg.Height, float64(cols), float64(field*2), 0)
}

func (h *Host) toLogical(x, y int) maboul.Point {
	h.layout()
	return h.view.ToLogical(float64(x)+0.5, float64((y-headerRows)*2)+1)
}

func puts(s tcell.Screen, x, y int, text string, style tcell.Style) int {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x += max(1, runewidth.RuneWidth(r))
	}
	return x
}

func (h *Host) Draw() {
	h.screen.Clear()
	h.layout()

	if h.session.Active() == nil {
		h.drawMenu()
	} else {
		h.drawField(h.session.Active())
	}
	h.drawFooter()
	h.screen.Show()
}

func (h *Host) drawFooter() {
	_, rows := h.screen.Size()
	help := "q quit"
	if h.session.Active() != nil {
		help = "drag with the mouse · r reset · esc back · q quit"
	} else if h.session.Finished() {
		help = "r play again · q quit"
	}
	x := puts(h.screen, 0, rows-1, h.status, styleText)
	puts(h.screen, x+2, rows-1, help, styleDim)
}

func (h *Host) drawMenu() {
	score := h.session.Score()
	puts(h.screen, 0, 0, fmt.Sprintf(" %s · %d points ", h.session.Player().Name, score.Points), styleHeader)

	outcomes := make(map[string]maboul.Outcome, len(score.Outcomes))
	for _, o := range score.Outcomes {
		outcomes[o.ChallengeID] = o
	}

	for i, c := range h.session.Challenges() {
		y := menuTop + i
		x := puts(h.screen, 1, y, fmt.Sprintf("%d. %s %s", i+1, c.Emoji, c.Name), styleText)
		x = puts(h.screen, max(x+1, 20), y, stars(c.Difficulty), styleDim)
		x = puts(h.screen, x+2, y, fmt.Sprintf("%d pts", c.Reward), styleDim)

		o, ok := outcomes[c.ID]
		switch {
		case ok && o.Solved:
			puts(h.screen, x+2, y, fmt.Sprintf("extracted +%d", o.Reward), styleDone)
		case ok:
			puts(h.screen, x+2, y, "failed", styleFailed)
		}
	}
}

func stars(d int) string {
	out := ""
	for i := range 3 {
		if i < d {
			out += "★"
		} else {
			out += "☆"
		}
	}
	return out
}

func (h *Host) drawField(e *maboul.Extraction) {
	c := e.Challenge()
	header := fmt.Sprintf(" %s %s · attempt %d/%d · %s ", c.Emoji, c.Name, min(e.Used()+1, e.Ceiling()), e.Ceiling(), maboul.FormatElapsed(e.Elapsed()))
	puts(h.screen, 0, 0, header, styleHeader)

	cols, rows := h.screen.Size()
	flash := h.clock.Now().Before(h.flashUntil)

	for y := headerRows; y < rows-footerRows; y++ {
		for x := range cols {
			top := h.pixel(e, float64(x)+0.5, float64((y-headerRows)*2)+0.5, flash)
			bottom := h.pixel(e, float64(x)+0.5, float64((y-headerRows)*2)+1.5, flash)
			h.screen.SetContent(x, y, '▀', nil, tcell.StyleDefault.Foreground(top).Background(bottom))
		}
	}
}

func (h *Host) pixel(e *maboul.Extraction, dx, dy float64, flash bool) tcell.Color {
	p := h.view.ToLogical(dx, dy)
	cfg := h.session.Config()
	if p.X < 0 || p.Y < 0 || p.X >= float64(cfg.Width) || p.Y >= float64(cfg.Height) {
		return colorOff
	}

	c := e.Challenge()
	switch {
	case p.Dist(e.Position()) <= max(c.Size, 1/h.view.ScaleX):
		return colorPiece
	case !e.Mask().At(int(p.X), int(p.Y)):
		if flash {
			return colorFlash
		}
		return colorWall
	case p.Dist(c.Target) <= cfg.TargetRadius:
		return colorTarget
	case p.Dist(c.Start) <= cfg.StartRadius:
		return colorStart
	}
	return colorChannel
}
