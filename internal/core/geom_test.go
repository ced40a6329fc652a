package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestRectCentered(t *testing.T) {
	outer := NewRect(0, 0, 20, 10)
	inner := outer.Centered(6, 4)

	if inner.X != 7 || inner.Y != 3 {
		t.Errorf("Centered() origin = (%d, %d), expected (7, 3)", inner.X, inner.Y)
	}
	if inner.Right() != 13 || inner.Bottom() != 7 {
		t.Errorf("Centered() far edge = (%d, %d), expected (13, 7)", inner.Right(), inner.Bottom())
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected float64
	}{
		{0.5, 0.0, 1.0, 0.5},
		{-0.5, 0.0, 1.0, 0.0},
		{1.5, 0.0, 1.0, 1.0},
	}

	for _, tc := range tests {
		if got := ClampF(tc.val, tc.lo, tc.hi); got != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.lo, tc.hi, got, tc.expected)
		}
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(2, 6, 0.5); got != 4 {
		t.Errorf("Lerp(2, 6, 0.5) = %f, expected 4", got)
	}
	if got := Lerp(3, 0, 1); got != 0 {
		t.Errorf("Lerp(3, 0, 1) = %f, expected 0", got)
	}
}

func TestTileColor(t *testing.T) {
	if TileColor(1) != ColorTile1 {
		t.Errorf("TileColor(1) = %d, expected ColorTile1", TileColor(1))
	}
	if TileColor(11) != ColorTile11 {
		t.Errorf("TileColor(11) = %d, expected ColorTile11", TileColor(11))
	}
	if TileColor(15) != ColorTileHigh {
		t.Errorf("TileColor(15) = %d, expected ColorTileHigh", TileColor(15))
	}
	if TileColor(0).IsTile() {
		t.Error("TileColor(0) should not be a tile color")
	}
}
