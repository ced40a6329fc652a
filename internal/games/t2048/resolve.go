package t2048

import (
	"slices"

	"github.com/vovakirdan/tile2048/internal/core"
)

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists every direction, in the order the terminal check uses.
var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// DirectionFromAction maps a platform action to a direction.
func DirectionFromAction(a core.Action) (Direction, bool) {
	switch a {
	case core.ActionUp:
		return DirUp, true
	case core.ActionDown:
		return DirDown, true
	case core.ActionLeft:
		return DirLeft, true
	case core.ActionRight:
		return DirRight, true
	default:
		return 0, false
	}
}

// TileMove records one tile that moved during a turn.
type TileMove struct {
	TileID TileID
	Value  int // Value before any merge
	FromX  int
	FromY  int
	ToX    int
	ToY    int
	Merged bool // The tile was scheduled to merge into its destination
}

// Distance returns how many cells the tile travelled.
func (m TileMove) Distance() int {
	return abs(m.ToX-m.FromX) + abs(m.ToY-m.FromY)
}

// groups returns the traversal for dir: each group is ordered so that index 0
// is the edge tiles slide toward.
func groups(g *Grid, dir Direction) [][]*Cell {
	switch dir {
	case DirUp:
		return g.CellsByColumn()
	case DirDown:
		cols := g.CellsByColumn()
		for _, c := range cols {
			slices.Reverse(c)
		}
		return cols
	case DirLeft:
		return g.CellsByRow()
	case DirRight:
		rows := g.CellsByRow()
		for _, r := range rows {
			slices.Reverse(r)
		}
		return rows
	default:
		return nil
	}
}

// Resolve slides every tile toward dir. Tiles landing on an equal tile are
// parked as that cell's merge tile; CommitMerges folds them in afterwards.
// The returned moves list one entry per tile that moved.
func Resolve(g *Grid, dir Direction) []TileMove {
	var moves []TileMove

	for _, group := range groups(g, dir) {
		for i := 1; i < len(group); i++ {
			cell := group[i]
			if cell.tile == nil {
				continue
			}

			var target *Cell
			for j := i - 1; j >= 0; j-- {
				if !group[j].CanAccept(cell.tile) {
					break
				}
				target = group[j]
			}
			if target == nil {
				continue
			}

			t := cell.tile
			move := TileMove{
				TileID: t.id,
				Value:  t.value,
				FromX:  cell.x,
				FromY:  cell.y,
				ToX:    target.x,
				ToY:    target.y,
			}

			if target.tile != nil {
				target.setMergeTile(t)
				move.Merged = true
			} else {
				target.setTile(t)
			}
			cell.tile = nil

			moves = append(moves, move)
		}
	}

	return moves
}

// CommitMerges folds every pending merge tile into its cell.
// Returns the score gained (sum of the merged values) and the merge count.
func CommitMerges(g *Grid) (score, merges int) {
	for _, c := range g.cells {
		if v := c.commitMerge(); v > 0 {
			score += v
			merges++
		}
	}
	return score, merges
}

// CanMove reports whether a move toward dir would change the grid.
// A one-step lookahead suffices: if any tile's immediate neighbour toward
// the edge accepts it, that tile moves at least one cell.
func CanMove(g *Grid, dir Direction) bool {
	for _, group := range groups(g, dir) {
		for i := 1; i < len(group); i++ {
			if t := group[i].tile; t != nil && group[i-1].CanAccept(t) {
				return true
			}
		}
	}
	return false
}

// CanMoveAny reports whether at least one direction is legal.
func CanMoveAny(g *Grid) bool {
	for _, d := range Directions {
		if CanMove(g, d) {
			return true
		}
	}
	return false
}

// Simulate plays a full move on a copy of b and returns the resulting board,
// the score gained and whether anything moved. b is not modified.
func Simulate(b Board, dir Direction) (Board, int, bool) {
	g, err := GridFromBoard(b)
	if err != nil {
		return b, 0, false
	}
	moves := Resolve(g, dir)
	score, _ := CommitMerges(g)
	return g.Board(), score, len(moves) > 0
}

// IsGameOver reports whether b is full with no legal move.
func IsGameOver(b Board) bool {
	g, err := GridFromBoard(b)
	if err != nil {
		return false
	}
	return !CanMoveAny(g)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
