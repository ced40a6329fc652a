package t2048

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vovakirdan/tile2048/internal/core"
)

const (
	cellWidth  = 7 // Width of each cell (including left border)
	cellHeight = 2 // Height of each cell (including top border)
	hudHeight  = 3

	boardWidth  = BoardSize*cellWidth + 1
	boardHeight = BoardSize*cellHeight + 1
)

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.ctrl == nil {
		return
	}

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	boardX := (g.screenW-boardWidth)/2 + g.shakeOffset()
	boardY := hudHeight + 1

	g.renderHUD(dst, boardX-g.shakeOffset())
	g.renderBoard(dst, boardX, boardY)
	g.renderTiles(dst, boardX, boardY)
	g.renderOverlays(dst, boardX, boardY)

	dst.DrawTextColored(max(0, (g.screenW-len(g.Controls()))/2), boardY+boardHeight+1, g.Controls(), core.ColorGray)
}

// shakeOffset returns the horizontal board offset of the illegal-move cue.
func (g *Game) shakeOffset() int {
	if g.shakeTicks == 0 {
		return 0
	}
	if g.shakeTicks%2 == 0 {
		return 1
	}
	return -1
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

// renderHUD draws the title and scores.
func (g *Game) renderHUD(dst *core.Screen, boardX int) {
	title := g.Title()
	dst.DrawTextColored(boardX+(boardWidth-len(title))/2, 0, title, core.ColorYellow)

	dst.DrawText(boardX, 1, fmt.Sprintf("Score: %d", g.ctrl.Score()))

	best := fmt.Sprintf("Best: %d", g.ctrl.BestScore())
	dst.DrawText(max(boardX, boardX+boardWidth-len(best)), 1, best)

	info := fmt.Sprintf("Max: %d", g.ctrl.Grid().MaxTile())
	dst.DrawTextColored(boardX+(boardWidth-len(info))/2, 2, info, core.ColorGray)
}

// renderBoard draws the 4x4 grid lines.
func (g *Game) renderBoard(dst *core.Screen, boardX, boardY int) {
	for y := range BoardSize + 1 {
		for x := range BoardSize + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			var corner rune
			switch {
			case y == 0 && x == 0:
				corner = '┌'
			case y == 0 && x == BoardSize:
				corner = '┐'
			case y == BoardSize && x == 0:
				corner = '└'
			case y == BoardSize && x == BoardSize:
				corner = '┘'
			case y == 0:
				corner = '┬'
			case y == BoardSize:
				corner = '┴'
			case x == 0:
				corner = '├'
			case x == BoardSize:
				corner = '┤'
			default:
				corner = '┼'
			}
			dst.SetColored(px, py, corner, core.ColorGray)

			if x < BoardSize {
				for i := 1; i < cellWidth; i++ {
					dst.SetColored(px+i, py, '─', core.ColorGray)
				}
			}
			if y < BoardSize {
				for i := 1; i < cellHeight; i++ {
					dst.SetColored(px, py+i, '│', core.ColorGray)
				}
			}
		}
	}
}

// renderTiles draws resident tiles, then animated ones on top.
func (g *Game) renderTiles(dst *core.Screen, boardX, boardY int) {
	popping := make(map[[2]int]bool)
	if g.animPhase == AnimPop {
		for _, a := range g.animations {
			popping[[2]int{a.ToX, a.ToY}] = true
		}
	}

	for _, c := range g.ctrl.Grid().Cells() {
		t := c.Tile()
		if t == nil || g.animating(t.ID()) || popping[[2]int{c.X(), c.Y()}] {
			continue
		}
		g.drawTile(dst, boardX, boardY, float64(c.X()), float64(c.Y()), t.Value(), true)
	}

	for _, a := range g.animations {
		x, y := a.interpolatePosition()
		// A spawned tile shows its number first and fills in halfway through.
		g.drawTile(dst, boardX, boardY, x, y, a.Value, !a.IsNew || a.Progress >= 0.5)
	}
}

// drawTile draws one tile whose top-left cell coordinate is (x, y).
func (g *Game) drawTile(dst *core.Screen, boardX, boardY int, x, y float64, value int, filled bool) {
	px := boardX + int(math.Round(x*cellWidth)) + 1
	py := boardY + int(math.Round(y*cellHeight)) + 1
	color := core.TileColor(Power(value))

	if filled {
		dst.FillRect(core.NewRect(px, py, cellWidth-1, cellHeight-1), ' ', color)
	}

	label := strconv.Itoa(value)
	pad := max(0, (cellWidth-1-len(label))/2)
	dst.DrawTextColored(px+pad, py, label, color)
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, boardX, boardY int) {
	centerX := boardX + boardWidth/2
	centerY := boardY + boardHeight/2

	switch {
	case g.paused:
		g.drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
	case g.ctrl.Phase() == PhaseGameOver:
		maxStr := fmt.Sprintf("Max tile: %d", g.ctrl.Grid().MaxTile())
		g.drawOverlay(dst, centerX, centerY, "GAME OVER", maxStr, "Press R to restart")
	case g.winTicks > 0:
		g.drawOverlay(dst, centerX, centerY, fmt.Sprintf("%d!", g.ctrl.WinTile()), "Keep going")
	}
}

// drawOverlay draws a centered text overlay.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	box := core.NewRect(0, 0, maxLen+4, len(lines)+2)
	box.X = centerX - box.W/2
	box.Y = centerY - box.H/2

	dst.FillRect(box, ' ', core.ColorDefault)
	dst.DrawBoxColored(box, core.ColorWhite)

	for i, line := range lines {
		dst.DrawText(centerX-len(line)/2, box.Y+1+i, line)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD/hjkl: Move | N: New | P: Pause | Q: Quit"
}
