package t2048

import (
	"context"
	"errors"
	"math/rand"
	"testing"
)

// memStore is an in-memory Persistence that goes through the JSON codec.
type memStore struct {
	data     []byte
	best     int
	saves    int
	bestErr  error
	loadErr  error
	saveErr  error
	bestSets []int
}

func (m *memStore) LoadState(context.Context) (*GameState, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.data == nil {
		return nil, nil
	}
	return DecodeGameState(m.data)
}

func (m *memStore) SaveState(_ context.Context, s GameState) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	data, err := EncodeGameState(s)
	if err != nil {
		return err
	}
	m.data = data
	m.saves++
	return nil
}

func (m *memStore) BestScore(context.Context) (int, error) {
	return m.best, m.bestErr
}

func (m *memStore) SaveBestScore(_ context.Context, score int) error {
	m.best = score
	m.bestSets = append(m.bestSets, score)
	return nil
}

// newTestController returns a controller holding board b.
func newTestController(t *testing.T, b Board, opts Options) *Controller {
	t.Helper()
	c := NewController(opts)
	g, err := GridFromBoard(b)
	if err != nil {
		t.Fatalf("GridFromBoard: %v", err)
	}
	c.grid = g
	if !CanMoveAny(g) {
		c.phase = PhaseGameOver
	}
	return c
}

// legalDirection returns the first legal direction, failing when none exists.
func legalDirection(t *testing.T, c *Controller) Direction {
	t.Helper()
	for _, d := range Directions {
		if CanMove(c.Grid(), d) {
			return d
		}
	}
	t.Fatal("no legal direction")
	return 0
}

func TestNewGameSpawnsInitialTiles(t *testing.T) {
	c := NewController(Options{Seed: 1, Spawn4Prob: 0.5})
	tiles := c.NewGame(context.Background())

	if len(tiles) != DefaultInitialTiles {
		t.Fatalf("NewGame spawned %d tiles, want %d", len(tiles), DefaultInitialTiles)
	}
	if got := countTiles(c.Board()); got != DefaultInitialTiles {
		t.Errorf("board holds %d tiles, want %d", got, DefaultInitialTiles)
	}
	for _, ts := range tiles {
		if ts.Value != 2 && ts.Value != 4 {
			t.Errorf("spawned value %d, want 2 or 4", ts.Value)
		}
	}
	if c.Phase() != PhaseIdle || c.Score() != 0 {
		t.Errorf("after NewGame phase=%s score=%d", c.Phase(), c.Score())
	}
}

func TestSameSeedSameGame(t *testing.T) {
	play := func() (Board, int) {
		c := NewController(Options{Seed: 12345, Spawn4Prob: 0.5})
		c.NewGame(context.Background())
		for range 20 {
			d := Direction(-1)
			for _, cand := range Directions {
				if CanMove(c.Grid(), cand) {
					d = cand
					break
				}
			}
			if d < 0 {
				break
			}
			if _, err := c.Move(context.Background(), d); err != nil {
				t.Fatalf("Move: %v", err)
			}
		}
		return c.Board(), c.Score()
	}

	b1, s1 := play()
	b2, s2 := play()
	if b1 != b2 || s1 != s2 {
		t.Errorf("same seed diverged:\n%v (%d)\nvs\n%v (%d)", b1, s1, b2, s2)
	}
}

func TestMoveSpawnsExactlyOneTile(t *testing.T) {
	tests := []struct {
		name string
		prob float64
		want int
	}{
		{"always two", 0, 2},
		{"always four", 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(t, Board{
				{2, 2, 0, 8},
				{0, 4, 0, 0},
				{0, 0, 0, 0},
				{16, 0, 0, 0},
			}, Options{Seed: 3, Spawn4Prob: tt.prob})

			before := countTiles(c.Board())
			res, err := c.Move(context.Background(), DirLeft)
			if err != nil {
				t.Fatalf("Move: %v", err)
			}

			if got := countTiles(c.Board()); got != before-res.Merges+1 {
				t.Errorf("tile count %d -> %d with %d merges", before, got, res.Merges)
			}
			if res.Spawned.Value != tt.want {
				t.Errorf("spawned %d, want %d", res.Spawned.Value, tt.want)
			}

			// The spawn cell was empty once the move was committed.
			after, _, _ := Simulate(Board{
				{2, 2, 0, 8},
				{0, 4, 0, 0},
				{0, 0, 0, 0},
				{16, 0, 0, 0},
			}, DirLeft)
			if after[res.Spawned.Y][res.Spawned.X] != 0 {
				t.Errorf("spawned onto occupied cell (%d, %d)", res.Spawned.X, res.Spawned.Y)
			}
			after[res.Spawned.Y][res.Spawned.X] = res.Spawned.Value
			if after != c.Board() {
				t.Errorf("board = %v, want %v", c.Board(), after)
			}
		})
	}
}

func TestScoreAndBestScore(t *testing.T) {
	store := &memStore{best: 10}
	c := NewController(Options{Seed: 5, Persistence: store})
	c.NewGame(context.Background())
	c.grid, _ = GridFromBoard(Board{{4, 4, 8, 8}})

	res, err := c.Move(context.Background(), DirLeft)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if res.ScoreDelta != 24 || res.Merges != 2 {
		t.Errorf("result delta=%d merges=%d, want 24 and 2", res.ScoreDelta, res.Merges)
	}
	if c.Score() != 24 || c.BestScore() != 24 {
		t.Errorf("score=%d best=%d, want 24 and 24", c.Score(), c.BestScore())
	}
	if store.best != 24 {
		t.Errorf("stored best = %d, want 24", store.best)
	}

	// A new game resets the score but never the best score.
	c.NewGame(context.Background())
	if c.Score() != 0 || c.BestScore() != 24 || store.best != 24 {
		t.Errorf("after NewGame score=%d best=%d stored=%d", c.Score(), c.BestScore(), store.best)
	}
}

func TestBestScoreOnlyRises(t *testing.T) {
	store := &memStore{best: 1000}
	c := NewController(Options{Seed: 5, Persistence: store})
	if _, err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	c.grid, _ = GridFromBoard(Board{{4, 4}})

	if _, err := c.Move(context.Background(), DirLeft); err != nil {
		t.Fatal(err)
	}
	if c.BestScore() != 1000 {
		t.Errorf("BestScore() = %d, want 1000", c.BestScore())
	}
	if len(store.bestSets) != 0 {
		t.Errorf("best score written %v, want no writes", store.bestSets)
	}
}

func TestHandleDirectionRejections(t *testing.T) {
	c := newTestController(t, Board{{2, 0, 0, 0}}, Options{Seed: 1})

	if _, err := c.HandleDirection(DirLeft); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("illegal direction: err = %v, want ErrIllegalMove", err)
	}
	if c.Phase() != PhaseIdle {
		t.Errorf("phase after illegal move = %s, want idle", c.Phase())
	}

	turn, err := c.HandleDirection(DirRight)
	if err != nil {
		t.Fatalf("HandleDirection(right): %v", err)
	}
	if _, err := c.HandleDirection(DirDown); !errors.Is(err, ErrMoveInFlight) {
		t.Errorf("second direction: err = %v, want ErrMoveInFlight", err)
	}
	if _, err := c.Finish(context.Background()); !errors.Is(err, ErrNotSettled) {
		t.Errorf("early Finish: err = %v, want ErrNotSettled", err)
	}

	for _, m := range turn.Moves {
		turn.Signal(m.TileID)
	}
	if _, err := c.Finish(context.Background()); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if _, err := c.Finish(context.Background()); !errors.Is(err, ErrNoTurn) {
		t.Errorf("Finish without a turn: err = %v, want ErrNoTurn", err)
	}
}

func TestFinishAfterConcurrentSettle(t *testing.T) {
	c := newTestController(t, Board{
		{2, 0, 2, 4},
		{0, 8, 0, 8},
		{4, 0, 0, 0},
		{0, 0, 0, 16},
	}, Options{Seed: 9})

	turn, err := c.HandleDirection(DirLeft)
	if err != nil {
		t.Fatal(err)
	}
	if c.Score() != 0 {
		t.Errorf("score changed before settle: %d", c.Score())
	}

	for i := len(turn.Moves) - 1; i >= 0; i-- {
		go turn.Signal(turn.Moves[i].TileID)
	}
	if err := turn.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}

	res, err := c.Finish(context.Background())
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if res.ScoreDelta != 20 || c.Score() != 20 {
		t.Errorf("delta=%d score=%d, want 20", res.ScoreDelta, c.Score())
	}
}

func TestGameOverAfterLastMove(t *testing.T) {
	store := &memStore{}
	c := newTestController(t, Board{
		{8, 16, 32, 64},
		{128, 256, 512, 1024},
		{2048, 4096, 8192, 16384},
		{32768, 65536, 131072, 0},
	}, Options{Seed: 1, Persistence: store})

	res, err := c.Move(context.Background(), DirRight)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if !res.GameOver || c.Phase() != PhaseGameOver {
		t.Fatalf("GameOver=%v phase=%s, want game over", res.GameOver, c.Phase())
	}
	if res.Spawned.X != 0 || res.Spawned.Y != 3 {
		t.Errorf("spawned at (%d, %d), want (0, 3)", res.Spawned.X, res.Spawned.Y)
	}

	for _, d := range Directions {
		if _, err := c.HandleDirection(d); !errors.Is(err, ErrGameOver) {
			t.Errorf("%s after game over: err = %v, want ErrGameOver", d, err)
		}
	}

	saved, _ := DecodeGameState(store.data)
	if !saved.GameOver {
		t.Error("final state should be persisted with gameOver")
	}

	c.NewGame(context.Background())
	if c.Phase() != PhaseIdle {
		t.Errorf("phase after NewGame = %s, want idle", c.Phase())
	}
}

func TestWinTileReachedOnce(t *testing.T) {
	c := newTestController(t, Board{
		{1024, 1024, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 2},
	}, Options{Seed: 4})

	res, err := c.Move(context.Background(), DirLeft)
	if err != nil {
		t.Fatal(err)
	}
	if !res.ReachedWin || !c.Won() {
		t.Fatal("merging into 2048 should report the win")
	}
	if res.GameOver {
		t.Error("play continues after the win tile")
	}

	res, err = c.Move(context.Background(), legalDirection(t, c))
	if err != nil {
		t.Fatal(err)
	}
	if res.ReachedWin {
		t.Error("win reported twice in one game")
	}
}

func TestSpawnOnFullGridPanics(t *testing.T) {
	c := newTestController(t, Board{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	}, Options{Seed: 1})

	defer func() {
		if recover() == nil {
			t.Error("spawnTile on a full grid should panic")
		}
	}()
	c.spawnTile()
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}

	a := NewController(Options{Seed: 77, Spawn4Prob: 0.5, Persistence: store})
	if resumed, err := a.Load(ctx); err != nil || resumed {
		t.Fatalf("Load on empty store = (%v, %v), want (false, nil)", resumed, err)
	}
	for range 10 {
		if a.Phase() == PhaseGameOver {
			break
		}
		if _, err := a.Move(ctx, legalDirection(t, a)); err != nil {
			t.Fatal(err)
		}
	}

	b := NewController(Options{Seed: 1, Persistence: store})
	resumed, err := b.Load(ctx)
	if err != nil || !resumed {
		t.Fatalf("Load = (%v, %v), want (true, nil)", resumed, err)
	}
	if b.Board() != a.Board() {
		t.Errorf("board = %v, want %v", b.Board(), a.Board())
	}
	if b.Score() != a.Score() || b.BestScore() != a.BestScore() {
		t.Errorf("score=%d best=%d, want %d and %d", b.Score(), b.BestScore(), a.Score(), a.BestScore())
	}
	if b.Phase() != a.Phase() {
		t.Errorf("phase = %s, want %s", b.Phase(), a.Phase())
	}
}

func TestLoadFallsBackToFreshGame(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{tiles: nope"},
		{"finished game", `{"tiles":[{"x":0,"y":0,"value":2}],"score":8,"bestScore":8,"gameOver":true}`},
		{"no valid tiles", `{"tiles":[{"x":7,"y":7,"value":2},{"x":0,"y":0,"value":5}],"score":8,"bestScore":8,"gameOver":false}`},
		{"no tiles", `{"score":8,"bestScore":8,"gameOver":false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{data: []byte(tt.data)}
			c := NewController(Options{Seed: 1, Persistence: store})

			resumed, err := c.Load(context.Background())
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if resumed {
				t.Error("Load resumed an unusable game")
			}
			if c.Score() != 0 || countTiles(c.Board()) != DefaultInitialTiles || c.Phase() != PhaseIdle {
				t.Errorf("not a fresh game: score=%d tiles=%d phase=%s", c.Score(), countTiles(c.Board()), c.Phase())
			}
		})
	}
}

func TestLoadSkipsBadTiles(t *testing.T) {
	data := `{"tiles":[
		{"x":0,"y":0,"value":2},
		{"x":9,"y":0,"value":4},
		{"x":1,"y":0,"value":3},
		{"x":0,"y":0,"value":8},
		"junk",
		{"x":2,"y":1,"value":16}
	],"score":12,"bestScore":40,"gameOver":false}`
	store := &memStore{data: []byte(data), best: 30}
	c := NewController(Options{Seed: 1, Persistence: store})

	resumed, err := c.Load(context.Background())
	if err != nil || !resumed {
		t.Fatalf("Load = (%v, %v), want (true, nil)", resumed, err)
	}

	want := Board{
		{2, 0, 0, 0},
		{0, 0, 16, 0},
	}
	if c.Board() != want {
		t.Errorf("board = %v, want %v", c.Board(), want)
	}
	if c.Score() != 12 || c.BestScore() != 40 {
		t.Errorf("score=%d best=%d, want 12 and 40", c.Score(), c.BestScore())
	}
}

func TestLoadStorageError(t *testing.T) {
	boom := errors.New("disk gone")
	store := &memStore{loadErr: boom}
	c := NewController(Options{Seed: 1, Persistence: store})

	resumed, err := c.Load(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Load error = %v, want %v", err, boom)
	}
	if resumed || countTiles(c.Board()) != DefaultInitialTiles {
		t.Error("a storage failure should still leave a fresh playable game")
	}
}

func TestLoadStorageErrorKeepsSave(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	a := newTestController(t, Board{{2, 4, 8, 0}, {0, 16, 0, 0}, {0, 0, 2, 0}}, Options{Seed: 3, Persistence: store})
	a.score = 1234
	a.persist(ctx, false)
	saved := string(store.data)

	store.loadErr = errors.New("transient read failure")
	b := NewController(Options{Seed: 4, Persistence: store})
	if _, err := b.Load(ctx); err == nil {
		t.Fatal("Load should report the read failure")
	}
	if string(store.data) != saved {
		t.Errorf("stored game overwritten after a read error:\n got %s\nwant %s", store.data, saved)
	}

	// Once storage recovers the original game is still there.
	store.loadErr = nil
	c := NewController(Options{Seed: 5, Persistence: store})
	resumed, err := c.Load(ctx)
	if err != nil || !resumed {
		t.Fatalf("Load = (%v, %v), want (true, nil)", resumed, err)
	}
	if c.Score() != 1234 || c.Board() != a.Board() {
		t.Errorf("resumed score=%d board=%v, want 1234 and %v", c.Score(), c.Board(), a.Board())
	}
}

func TestLoadRaisesStoredBest(t *testing.T) {
	data := `{"tiles":[{"x":0,"y":0,"value":2}],"score":500,"bestScore":0,"gameOver":false}`
	store := &memStore{data: []byte(data), best: 120}
	c := NewController(Options{Seed: 1, Persistence: store})

	if _, err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.BestScore() != 500 || store.best != 500 {
		t.Errorf("best=%d stored=%d, want 500 and 500", c.BestScore(), store.best)
	}

	// Nothing to raise: no write.
	store.bestSets = nil
	d := NewController(Options{Seed: 1, Persistence: store})
	if _, err := d.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(store.bestSets) != 0 {
		t.Errorf("best score written %v on a plain resume", store.bestSets)
	}
}

func TestSaveFailureDoesNotStopPlay(t *testing.T) {
	store := &memStore{saveErr: errors.New("read-only")}
	c := NewController(Options{Seed: 2, Persistence: store})
	c.NewGame(context.Background())

	if _, err := c.Move(context.Background(), legalDirection(t, c)); err != nil {
		t.Errorf("Move with failing storage: %v", err)
	}
}

func TestRandOption(t *testing.T) {
	c1 := NewController(Options{Rand: rand.New(rand.NewSource(11))})
	c2 := NewController(Options{Seed: 11})
	c1.NewGame(context.Background())
	c2.NewGame(context.Background())

	if c1.Board() != c2.Board() {
		t.Errorf("Rand option and equal Seed diverged:\n%v\n%v", c1.Board(), c2.Board())
	}
}
