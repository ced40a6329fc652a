package core

// Color represents a foreground color for a screen cell.
// The platform layer maps each value to a terminal style.
type Color uint8

// Interface colors.
const (
	ColorDefault Color = iota
	ColorGray
	ColorWhite
	ColorYellow
	ColorRed
	ColorGreen
)

// Tile colors, one per power of two. ColorTile1 is the "2" tile,
// ColorTile11 the "2048" tile, ColorTileHigh everything above.
const (
	ColorTile1 Color = iota + 32
	ColorTile2
	ColorTile3
	ColorTile4
	ColorTile5
	ColorTile6
	ColorTile7
	ColorTile8
	ColorTile9
	ColorTile10
	ColorTile11
	ColorTileHigh
)

// TileColor returns the palette entry for a tile of the given power (value = 2^power).
func TileColor(power int) Color {
	switch {
	case power < 1:
		return ColorDefault
	case power > 11:
		return ColorTileHigh
	default:
		return ColorTile1 + Color(power-1)
	}
}

// IsTile reports whether c belongs to the tile palette.
func (c Color) IsTile() bool {
	return c >= ColorTile1 && c <= ColorTileHigh
}
