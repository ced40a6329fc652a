package t2048

import "github.com/vovakirdan/tile2048/internal/core"

// AnimationPhase represents the current phase of animation.
type AnimationPhase int

const (
	AnimNone AnimationPhase = iota
	AnimSlide
	AnimPop
)

// TileAnimation represents an animated tile.
type TileAnimation struct {
	ID       TileID
	Value    int     // Tile value before any merge
	FromX    int     // Start position X (in cells)
	FromY    int     // Start position Y (in cells)
	ToX      int     // End position X (in cells)
	ToY      int     // End position Y (in cells)
	Progress float64 // 0.0 → 1.0
	Merged   bool    // Slides into an equal tile
	IsNew    bool    // Spawned tile (pop effect)

	ticks    int
	duration int
	settled  bool
}

// startSlideAnimation animates the moves of the turn in flight. Each tile
// slides for slideTicksPerCell ticks per cell travelled and signals the turn
// when it arrives, so longer slides settle later.
func (g *Game) startSlideAnimation(turn *Turn) {
	g.turn = turn
	g.animations = g.animations[:0]

	if g.settings.SlideTicksPerCell == 0 {
		for _, m := range turn.Moves {
			turn.Signal(m.TileID)
		}
		g.animPhase = AnimNone
		g.finishTurn()
		return
	}

	for _, m := range turn.Moves {
		g.animations = append(g.animations, TileAnimation{
			ID:       m.TileID,
			Value:    m.Value,
			FromX:    m.FromX,
			FromY:    m.FromY,
			ToX:      m.ToX,
			ToY:      m.ToY,
			Merged:   m.Merged,
			duration: max(1, m.Distance()*g.settings.SlideTicksPerCell),
		})
	}
	g.animPhase = AnimSlide
}

// startPopAnimation animates freshly spawned tiles.
func (g *Game) startPopAnimation(tiles ...TileState) {
	g.animations = g.animations[:0]
	if g.settings.PopTicks == 0 || len(tiles) == 0 {
		g.animPhase = AnimNone
		return
	}
	for _, t := range tiles {
		g.animations = append(g.animations, TileAnimation{
			Value:    t.Value,
			FromX:    t.X,
			FromY:    t.Y,
			ToX:      t.X,
			ToY:      t.Y,
			IsNew:    true,
			duration: g.settings.PopTicks,
		})
	}
	g.animPhase = AnimPop
}

// updateAnimation advances the animation state by one tick.
// Returns true if animation is still in progress.
func (g *Game) updateAnimation() bool {
	switch g.animPhase {
	case AnimSlide:
		for i := range g.animations {
			a := &g.animations[i]
			if a.settled {
				continue
			}
			a.advance()
			if a.ticks >= a.duration {
				a.settled = true
				g.turn.Signal(a.ID)
			}
		}
		if g.turn.Settled() {
			g.finishTurn()
		}
		return g.animPhase != AnimNone

	case AnimPop:
		done := true
		for i := range g.animations {
			a := &g.animations[i]
			a.advance()
			if a.ticks < a.duration {
				done = false
			}
		}
		if done {
			g.stopAnimation()
		}
		return !done

	default:
		return false
	}
}

// stopAnimation drops every running animation.
func (g *Game) stopAnimation() {
	g.animPhase = AnimNone
	g.animations = g.animations[:0]
}

// animating reports whether tile id is currently drawn by an animation.
func (g *Game) animating(id TileID) bool {
	if g.animPhase != AnimSlide {
		return false
	}
	for _, a := range g.animations {
		if a.ID == id {
			return true
		}
	}
	return false
}

func (a *TileAnimation) advance() {
	a.ticks++
	a.Progress = core.ClampF(float64(a.ticks)/float64(a.duration), 0, 1)
}

// easeOutQuad provides smooth deceleration for animation.
func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}

// interpolatePosition calculates the current position during animation.
func (a *TileAnimation) interpolatePosition() (x, y float64) {
	t := easeOutQuad(a.Progress)
	return core.Lerp(float64(a.FromX), float64(a.ToX), t), core.Lerp(float64(a.FromY), float64(a.ToY), t)
}
