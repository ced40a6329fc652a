package t2048

import (
	"math/rand"
	"testing"
)

// slideRow plays a single row to the left and returns it with the score.
func slideRow(row [BoardSize]int) ([BoardSize]int, int) {
	b, score, _ := Simulate(Board{row}, DirLeft)
	return b[0], score
}

func TestSlideRowMerge(t *testing.T) {
	tests := []struct {
		name     string
		input    [4]int
		expected [4]int
		score    int
	}{
		{"simple merge", [4]int{2, 2, 0, 0}, [4]int{4, 0, 0, 0}, 4},
		{"merge with trailing tile", [4]int{2, 2, 2, 0}, [4]int{4, 2, 0, 0}, 4},
		{"double merge", [4]int{2, 2, 2, 2}, [4]int{4, 4, 0, 0}, 8},
		{"double merge of fours", [4]int{4, 4, 4, 4}, [4]int{8, 8, 0, 0}, 16},
		{"merge across gap then slide", [4]int{2, 0, 2, 4}, [4]int{4, 4, 0, 0}, 4},
		{"merged tile does not merge again", [4]int{2, 2, 4, 0}, [4]int{4, 4, 0, 0}, 4},
		{"no merge possible", [4]int{2, 4, 8, 16}, [4]int{2, 4, 8, 16}, 0},
		{"slide with gap", [4]int{0, 0, 2, 2}, [4]int{4, 0, 0, 0}, 4},
		{"slide with multiple gaps", [4]int{2, 0, 0, 2}, [4]int{4, 0, 0, 0}, 4},
		{"no change needed", [4]int{4, 2, 0, 0}, [4]int{4, 2, 0, 0}, 0},
		{"empty row", [4]int{0, 0, 0, 0}, [4]int{0, 0, 0, 0}, 0},
		{"single tile", [4]int{0, 4, 0, 0}, [4]int{4, 0, 0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, score := slideRow(tt.input)
			if result != tt.expected {
				t.Errorf("slideRow(%v) = %v, want %v", tt.input, result, tt.expected)
			}
			if score != tt.score {
				t.Errorf("slideRow(%v) score = %d, want %d", tt.input, score, tt.score)
			}
		})
	}
}

func TestSimulateDirections(t *testing.T) {
	board := Board{
		{2, 2, 0, 0},
		{4, 0, 4, 0},
		{2, 2, 2, 2},
		{0, 0, 0, 2},
	}

	tests := []struct {
		dir      Direction
		in       Board
		expected Board
		score    int
	}{
		{
			dir: DirLeft,
			in:  board,
			expected: Board{
				{4, 0, 0, 0},
				{8, 0, 0, 0},
				{4, 4, 0, 0},
				{2, 0, 0, 0},
			},
			score: 20,
		},
		{
			dir: DirRight,
			in:  board,
			expected: Board{
				{0, 0, 0, 4},
				{0, 0, 0, 8},
				{0, 0, 4, 4},
				{0, 0, 0, 2},
			},
			score: 20,
		},
		{
			dir: DirUp,
			in: Board{
				{2, 4, 2, 0},
				{2, 0, 2, 0},
				{0, 4, 2, 0},
				{0, 0, 2, 2},
			},
			expected: Board{
				{4, 8, 4, 2},
				{0, 0, 4, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			score: 20,
		},
		{
			dir: DirDown,
			in: Board{
				{2, 4, 2, 2},
				{2, 0, 2, 0},
				{0, 4, 2, 0},
				{0, 0, 2, 0},
			},
			expected: Board{
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 4, 0},
				{4, 8, 4, 2},
			},
			score: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			result, score, changed := Simulate(tt.in, tt.dir)
			if result != tt.expected {
				t.Errorf("Simulate(%s): got\n%v\nwant\n%v", tt.dir, result, tt.expected)
			}
			if score != tt.score {
				t.Errorf("Simulate(%s) score = %d, want %d", tt.dir, score, tt.score)
			}
			if !changed {
				t.Errorf("Simulate(%s) should report a change", tt.dir)
			}
		})
	}
}

func TestScoreAddedAtCommit(t *testing.T) {
	g, _ := GridFromBoard(Board{{2, 2, 4, 4}})
	before := g.Sum()

	moves := Resolve(g, DirLeft)
	if len(moves) != 3 {
		t.Fatalf("Resolve moved %d tiles, want 3", len(moves))
	}
	// Pending merges keep their values until committed.
	if got := g.Board()[0]; got != [4]int{2, 4, 0, 0} {
		t.Errorf("board before commit = %v, want [2 4 0 0]", got)
	}
	if g.Sum() != before {
		t.Errorf("Sum() before commit = %d, want %d", g.Sum(), before)
	}

	score, merges := CommitMerges(g)
	if score != 12 || merges != 2 {
		t.Errorf("CommitMerges() = (%d, %d), want (12, 2)", score, merges)
	}
	if got := g.Board()[0]; got != [4]int{4, 8, 0, 0} {
		t.Errorf("board after commit = %v, want [4 8 0 0]", got)
	}
	for _, c := range g.Cells() {
		if c.MergeTile() != nil {
			t.Errorf("cell (%d, %d) still has a merge tile", c.X(), c.Y())
		}
	}
}

func TestResolveReportsMoves(t *testing.T) {
	g, _ := GridFromBoard(Board{{0, 2, 0, 2}})
	moves := Resolve(g, DirLeft)

	if len(moves) != 2 {
		t.Fatalf("got %d moves, want 2", len(moves))
	}
	first, second := moves[0], moves[1]
	if first.FromX != 1 || first.ToX != 0 || first.Merged || first.Distance() != 1 {
		t.Errorf("first move = %+v", first)
	}
	if second.FromX != 3 || second.ToX != 0 || !second.Merged || second.Distance() != 3 {
		t.Errorf("second move = %+v", second)
	}
}

func TestNoChangeNoMoves(t *testing.T) {
	board := Board{
		{4, 2, 0, 0},
		{8, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	g, _ := GridFromBoard(board)

	if CanMove(g, DirLeft) {
		t.Error("CanMove(left) should be false for left-aligned tiles")
	}
	if moves := Resolve(g, DirLeft); len(moves) != 0 {
		t.Errorf("Resolve(left) moved %d tiles, want 0", len(moves))
	}
	if g.Board() != board {
		t.Errorf("no-op move changed the board:\n%v", g.Board())
	}
}

// randomBoard fills roughly half the cells with small powers of two so that
// both slides and merges are common.
func randomBoard(rng *rand.Rand) Board {
	values := []int{0, 0, 0, 2, 2, 4, 8}
	var b Board
	for y := range BoardSize {
		for x := range BoardSize {
			b[y][x] = values[rng.Intn(len(values))]
		}
	}
	return b
}

func countTiles(b Board) int {
	n := 0
	for y := range BoardSize {
		for x := range BoardSize {
			if b[y][x] != 0 {
				n++
			}
		}
	}
	return n
}

func sumBoard(b Board) int {
	total := 0
	for y := range BoardSize {
		for x := range BoardSize {
			total += b[y][x]
		}
	}
	return total
}

func TestCanMoveMatchesSimulation(t *testing.T) {
	rng := rand.New(rand.NewSource(2048))

	for i := range 500 {
		b := randomBoard(rng)
		g, _ := GridFromBoard(b)
		for _, dir := range Directions {
			_, _, changed := Simulate(b, dir)
			if got := CanMove(g, dir); got != changed {
				t.Fatalf("board %d %v: CanMove(%s) = %v, simulation changed = %v", i, b, dir, got, changed)
			}
		}
	}
}

func TestMoveConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(4096))

	for i := range 500 {
		b := randomBoard(rng)
		for _, dir := range Directions {
			g, _ := GridFromBoard(b)
			Resolve(g, dir)
			pending := 0
			for _, cell := range g.Cells() {
				if m := cell.MergeTile(); m != nil {
					pending += 2 * m.Value()
				}
			}
			score, merges := CommitMerges(g)
			after := g.Board()

			if score != pending {
				t.Fatalf("board %d %s: score %d, merged values sum to %d", i, dir, score, pending)
			}

			if sumBoard(after) != sumBoard(b) {
				t.Fatalf("board %d %s: sum %d -> %d", i, dir, sumBoard(b), sumBoard(after))
			}
			if countTiles(after) != countTiles(b)-merges {
				t.Fatalf("board %d %s: %d tiles -> %d with %d merges", i, dir, countTiles(b), countTiles(after), merges)
			}
			if score%2 != 0 || (merges == 0) != (score == 0) {
				t.Fatalf("board %d %s: score %d with %d merges", i, dir, score, merges)
			}
		}
	}
}

func TestOneMergePerCellPerMove(t *testing.T) {
	rng := rand.New(rand.NewSource(8))

	for range 300 {
		b := randomBoard(rng)
		for _, dir := range Directions {
			g, _ := GridFromBoard(b)
			moves := Resolve(g, dir)

			targets := make(map[[2]int]int)
			for _, m := range moves {
				if m.Merged {
					targets[[2]int{m.ToX, m.ToY}]++
				}
			}
			for pos, n := range targets {
				if n > 1 {
					t.Fatalf("%v %s: cell %v received %d merges", b, dir, pos, n)
				}
			}
		}
	}
}

func TestGameOver(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		want  bool
	}{
		{
			name: "no moves",
			board: Board{
				{2, 4, 8, 16},
				{32, 64, 128, 256},
				{512, 1024, 2048, 4096},
				{8192, 16384, 32768, 65536},
			},
			want: true,
		},
		{
			name: "checkerboard",
			board: Board{
				{2, 4, 2, 4},
				{4, 2, 4, 2},
				{2, 4, 2, 4},
				{4, 2, 4, 2},
			},
			want: true,
		},
		{
			name: "horizontal merge",
			board: Board{
				{2, 2, 8, 16},
				{32, 64, 128, 256},
				{512, 1024, 2048, 4096},
				{8192, 16384, 32768, 65536},
			},
			want: false,
		},
		{
			name: "vertical merge",
			board: Board{
				{2, 4, 8, 16},
				{32, 64, 128, 256},
				{512, 1024, 2048, 4096},
				{8192, 16384, 32768, 4096},
			},
			want: false,
		},
		{
			name: "empty cell",
			board: Board{
				{2, 4, 8, 16},
				{32, 64, 128, 256},
				{512, 1024, 0, 4096},
				{8192, 16384, 32768, 65536},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsGameOver(tt.board); got != tt.want {
				t.Errorf("IsGameOver() = %v, want %v", got, tt.want)
			}
		})
	}
}
