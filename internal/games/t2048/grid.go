package t2048

import (
	"fmt"
	"math/rand"
)

// BoardSize is the grid dimension.
const BoardSize = 4

// Board is a value view of the grid, indexed [y][x]. Zero means empty.
type Board [BoardSize][BoardSize]int

// TileID identifies a tile for the whole of its life, independent of position.
type TileID uint64

// Tile is a numbered tile. Its value is always a power of two >= 2.
type Tile struct {
	id    TileID
	value int
	x, y  int
}

// ID returns the tile identity.
func (t *Tile) ID() TileID { return t.id }

// Value returns the tile value.
func (t *Tile) Value() int { return t.value }

// Position returns the coordinates of the cell that currently owns the tile.
func (t *Tile) Position() (x, y int) { return t.x, t.y }

// Cell is a fixed grid coordinate holding at most one tile and, during a
// move, at most one tile waiting to merge into it.
type Cell struct {
	x, y      int
	tile      *Tile
	mergeTile *Tile
}

// X returns the column.
func (c *Cell) X() int { return c.x }

// Y returns the row.
func (c *Cell) Y() int { return c.y }

// Tile returns the resident tile, or nil.
func (c *Cell) Tile() *Tile { return c.tile }

// MergeTile returns the tile scheduled to merge into this cell, or nil.
func (c *Cell) MergeTile() *Tile { return c.mergeTile }

// Empty reports whether the cell has no resident tile.
func (c *Cell) Empty() bool { return c.tile == nil }

// CanAccept reports whether t may move into this cell: the cell is empty, or
// it holds a tile of equal value and has no merge already pending.
func (c *Cell) CanAccept(t *Tile) bool {
	if c.tile == nil {
		return true
	}
	return c.mergeTile == nil && c.tile.value == t.value
}

func (c *Cell) setTile(t *Tile) {
	c.tile = t
	if t != nil {
		t.x, t.y = c.x, c.y
	}
}

func (c *Cell) setMergeTile(t *Tile) {
	c.mergeTile = t
	if t != nil {
		t.x, t.y = c.x, c.y
	}
}

// commitMerge folds the pending merge tile into the resident tile and returns
// the combined value, or 0 when nothing was pending.
func (c *Cell) commitMerge() int {
	if c.tile == nil || c.mergeTile == nil {
		return 0
	}
	c.tile.value += c.mergeTile.value
	c.mergeTile = nil
	return c.tile.value
}

// Grid is the fixed set of BoardSize² cells. Cells are created once and never
// replaced; only their contents change.
type Grid struct {
	cells  []*Cell // row-major
	nextID TileID
}

// NewGrid creates an empty grid.
func NewGrid() *Grid {
	g := &Grid{cells: make([]*Cell, BoardSize*BoardSize)}
	for i := range g.cells {
		g.cells[i] = &Cell{x: i % BoardSize, y: i / BoardSize}
	}
	return g
}

// GridFromBoard builds a grid holding the non-zero values of b.
func GridFromBoard(b Board) (*Grid, error) {
	g := NewGrid()
	for y := range BoardSize {
		for x := range BoardSize {
			if b[y][x] == 0 {
				continue
			}
			if _, err := g.Place(x, y, b[y][x]); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// Cell returns the cell at (x, y), or nil when out of range.
func (g *Grid) Cell(x, y int) *Cell {
	if !InBounds(x, y) {
		return nil
	}
	return g.cells[y*BoardSize+x]
}

// Cells returns every cell in row-major order. The slice is freshly allocated.
func (g *Grid) Cells() []*Cell {
	out := make([]*Cell, len(g.cells))
	copy(out, g.cells)
	return out
}

// CellsByRow returns one sequence per row, each ordered by increasing x.
func (g *Grid) CellsByRow() [][]*Cell {
	rows := make([][]*Cell, BoardSize)
	for y := range BoardSize {
		rows[y] = make([]*Cell, BoardSize)
		for x := range BoardSize {
			rows[y][x] = g.cells[y*BoardSize+x]
		}
	}
	return rows
}

// CellsByColumn returns one sequence per column, each ordered by increasing y.
func (g *Grid) CellsByColumn() [][]*Cell {
	cols := make([][]*Cell, BoardSize)
	for x := range BoardSize {
		cols[x] = make([]*Cell, BoardSize)
		for y := range BoardSize {
			cols[x][y] = g.cells[y*BoardSize+x]
		}
	}
	return cols
}

// EmptyCells returns the cells without a resident tile, row-major.
func (g *Grid) EmptyCells() []*Cell {
	var empty []*Cell
	for _, c := range g.cells {
		if c.tile == nil {
			empty = append(empty, c)
		}
	}
	return empty
}

// Full reports whether every cell holds a tile.
func (g *Grid) Full() bool {
	for _, c := range g.cells {
		if c.tile == nil {
			return false
		}
	}
	return true
}

// RandomEmptyCell picks uniformly among the empty cells.
// ok is false when the grid is full.
func (g *Grid) RandomEmptyCell(rng *rand.Rand) (cell *Cell, ok bool) {
	empty := g.EmptyCells()
	if len(empty) == 0 {
		return nil, false
	}
	return empty[rng.Intn(len(empty))], true
}

// Clear removes every tile, including pending merge tiles.
func (g *Grid) Clear() {
	for _, c := range g.cells {
		c.tile = nil
		c.mergeTile = nil
	}
}

// newTile allocates a tile with a fresh identity.
func (g *Grid) newTile(value int) *Tile {
	g.nextID++
	return &Tile{id: g.nextID, value: value}
}

// Place puts a new tile of the given value into the empty cell at (x, y).
func (g *Grid) Place(x, y, value int) (*Tile, error) {
	if !ValidValue(value) {
		return nil, fmt.Errorf("t2048: invalid tile value %d", value)
	}
	c := g.Cell(x, y)
	if c == nil {
		return nil, fmt.Errorf("t2048: cell (%d, %d) out of range", x, y)
	}
	if c.tile != nil {
		return nil, fmt.Errorf("t2048: cell (%d, %d) already occupied", x, y)
	}
	t := g.newTile(value)
	c.setTile(t)
	return t, nil
}

// Board returns the resident tile values.
func (g *Grid) Board() Board {
	var b Board
	for _, c := range g.cells {
		if c.tile != nil {
			b[c.y][c.x] = c.tile.value
		}
	}
	return b
}

// MaxTile returns the largest tile value, or 0 on an empty grid.
func (g *Grid) MaxTile() int {
	maxVal := 0
	for _, c := range g.cells {
		if c.tile != nil && c.tile.value > maxVal {
			maxVal = c.tile.value
		}
	}
	return maxVal
}

// Sum returns the total of all tile values, counting pending merge tiles.
func (g *Grid) Sum() int {
	total := 0
	for _, c := range g.cells {
		if c.tile != nil {
			total += c.tile.value
		}
		if c.mergeTile != nil {
			total += c.mergeTile.value
		}
	}
	return total
}

// InBounds reports whether (x, y) is a grid coordinate.
func InBounds(x, y int) bool {
	return x >= 0 && x < BoardSize && y >= 0 && y < BoardSize
}

// ValidValue reports whether v is a legal tile value (a power of two >= 2).
func ValidValue(v int) bool {
	return v >= 2 && v&(v-1) == 0
}

// Power returns log2(v) for a tile value.
func Power(v int) int {
	p := 0
	for v > 1 {
		v >>= 1
		p++
	}
	return p
}
