package tetris

import (
	"fmt"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/engine"
)

// Panel sizes in screen columns. Board cells are two columns wide.
const (
	cellWidth  = 2
	panelWidth = 10
	panelGap   = 1
	holdHeight = 6
)

// Render draws the playfield, side panels and overlays.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.setupErr != nil || g.ctrl == nil {
		dst.DrawTextCenteredColor(dst.Height()/2, "Cannot start game", core.ColorRed)
		if g.setupErr != nil {
			dst.DrawTextCentered(dst.Height()/2+1, g.setupErr.Error())
		}
		return
	}

	visible := g.board.Visible()
	boardW := g.board.Width()*cellWidth + 2
	boardH := visible + 2
	totalW := panelWidth + panelGap + boardW + panelGap + panelWidth

	if dst.Width() < totalW || dst.Height() < boardH {
		g.renderTooSmall(dst, totalW, boardH)
		return
	}

	area := core.CenteredRect(dst.Width(), dst.Height(), totalW, boardH)
	if area.Y > 0 {
		dst.DrawTextCenteredColor(area.Y-1, g.Title(), core.ColorBrightWhite)
	}

	boardRect := core.NewRect(area.X+panelWidth+panelGap, area.Y, boardW, boardH)
	g.renderBoard(dst, boardRect)
	g.renderHold(dst, core.NewRect(area.X, area.Y, panelWidth, holdHeight))
	g.renderHUD(dst, area.X, area.Y+holdHeight+1, area.Bottom())
	g.renderNext(dst, core.NewRect(boardRect.Right()+panelGap, area.Y, panelWidth, 2+3*g.cfg.Preview))
	g.renderOverlays(dst, boardRect)
}

func (g *Game) renderTooSmall(dst *core.Screen, w, h int) {
	y := dst.Height() / 2
	dst.DrawTextCentered(y-1, "Window too small")
	dst.DrawTextCentered(y, fmt.Sprintf("Need %dx%d", w, h))
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

// screenRow converts a board row (y up) to a screen row inside r.
func (g *Game) screenRow(r core.Rect, y int) int {
	return r.Y + 1 + (g.board.Visible() - 1 - y)
}

func (g *Game) renderBoard(dst *core.Screen, r core.Rect) {
	dst.DrawBoxColor(r, core.ColorWhite)

	for y := 0; y < g.board.Visible(); y++ {
		sy := g.screenRow(r, y)
		for x := 0; x < g.board.Width(); x++ {
			sx := r.X + 1 + x*cellWidth
			cell := g.board.At(x, y)
			switch {
			case cell.Fixed:
				drawCell(dst, sx, sy, '▓', core.ColorGray)
			case cell.Filled && cell.Shape == engine.Garbage:
				drawCell(dst, sx, sy, '▒', core.ColorGray)
			case cell.Filled:
				drawCell(dst, sx, sy, '█', g.palette[cell.Shape])
			default:
				dst.SetColor(sx+1, sy, '.', core.ColorGray)
			}
		}
	}

	if ghost, ok := g.ctrl.Ghost(); ok {
		g.drawPiece(dst, r, ghost, '░', g.palette[ghost.Shape])
	}
	if p, ok := g.ctrl.Active(); ok {
		g.drawPiece(dst, r, p, '█', g.palette[p.Shape])
	}
}

// drawPiece draws the visible cells of p onto the board box r.
func (g *Game) drawPiece(dst *core.Screen, r core.Rect, p engine.Piece, glyph rune, c core.Color) {
	for _, cell := range p.Cells() {
		if cell.Y < 0 || cell.Y >= g.board.Visible() {
			continue
		}
		drawCell(dst, r.X+1+cell.X*cellWidth, g.screenRow(r, cell.Y), glyph, c)
	}
}

func drawCell(dst *core.Screen, x, y int, glyph rune, c core.Color) {
	dst.SetColor(x, y, glyph, c)
	dst.SetColor(x+1, y, glyph, c)
}

// drawMini draws shape s in spawn orientation with its top-left at (x, y).
// The piece fits in four cells by two rows.
func drawMini(dst *core.Screen, x, y int, s engine.Shape, c core.Color) {
	for _, v := range engine.Layout(s, engine.North) {
		drawCell(dst, x+(v.X+1)*cellWidth, y+1-v.Y, '█', c)
	}
}

func (g *Game) renderHold(dst *core.Screen, r core.Rect) {
	dst.DrawBoxColor(r, core.ColorWhite)
	dst.DrawText(r.X+1, r.Y+1, "HOLD")
	s, ok := g.ctrl.Held()
	if !ok {
		return
	}
	c := g.palette[s]
	if !g.ctrl.CanHold() {
		c = core.ColorGray
	}
	drawMini(dst, r.X+1, r.Y+2, s, c)
}

func (g *Game) renderNext(dst *core.Screen, r core.Rect) {
	if g.cfg.Preview <= 0 {
		return
	}
	dst.DrawBoxColor(r, core.ColorWhite)
	dst.DrawText(r.X+1, r.Y, "NEXT")
	for i, s := range g.ctrl.Upcoming(g.cfg.Preview) {
		drawMini(dst, r.X+1, r.Y+1+i*3, s, g.palette[s])
	}
}

func (g *Game) renderHUD(dst *core.Screen, x, y, bottom int) {
	lines := []string{
		"SCORE", fmt.Sprintf("%d", g.scorer.Score()),
		"LINES", fmt.Sprintf("%d", g.scorer.Lines()),
		"TIME", formatClock(g.elapsed),
	}
	switch {
	case g.judge != nil:
		lines = append(lines, g.judge.HUD(g.elapsed)...)
	case g.mode == ModeCPU:
		lines = append(lines, "CPU", g.cfg.CPU.Difficulty)
	default:
		lines = append(lines, "LEVEL", fmt.Sprintf("%d", g.scorer.Level()))
	}
	for i, line := range lines {
		if y+i >= bottom {
			break
		}
		c := core.ColorWhite
		if i%2 == 0 {
			c = core.ColorGray
		}
		dst.DrawTextColor(x, y+i, truncate(line, panelWidth), c)
	}
}

func (g *Game) renderOverlays(dst *core.Screen, r core.Rect) {
	cy := r.Y + r.H/2
	drawLine := func(y int, text string, c core.Color) {
		text = truncate(text, r.W-2)
		dst.DrawTextColor(r.X+(r.W-len([]rune(text)))/2, y, text, c)
	}

	switch {
	case g.paused:
		drawLine(cy, "PAUSED", core.ColorBrightYellow)
		drawLine(cy+1, "P to resume", core.ColorWhite)
	case g.won:
		v := g.judge.Verdict(g.elapsed)
		drawLine(cy-1, "CLEAR!", core.ColorBrightGreen)
		drawLine(cy, v.Headline, core.ColorWhite)
		drawLine(cy+1, stars(v.Tier), core.ColorBrightYellow)
		drawLine(cy+3, "R restart  Q quit", core.ColorGray)
	case g.over:
		drawLine(cy-1, "GAME OVER", core.ColorBrightRed)
		drawLine(cy, fmt.Sprintf("Score %d", g.scorer.Score()), core.ColorWhite)
		drawLine(cy+2, "R restart  Q quit", core.ColorGray)
	case g.notice != "" && g.noticeFor > 0:
		drawLine(r.Y+2, g.notice, core.ColorBrightCyan)
	}
}

func stars(tier int) string {
	out := make([]rune, 0, 5)
	for i := range 5 {
		if i < tier+1 {
			out = append(out, '*')
		} else {
			out = append(out, '-')
		}
	}
	return string(out)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
