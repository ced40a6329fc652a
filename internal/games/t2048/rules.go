package t2048

import (
	"sync"

	"github.com/vovakirdan/tile2048/internal/config"
)

// Rules describes a registered variant.
type Rules struct {
	ID         string
	Title      string
	Spawn4Prob float64
}

// Variant identifiers.
const (
	ClassicID  = "2048"
	WeightedID = "2048_weighted"
)

// ClassicRules spawns 2 and 4 with equal probability.
var ClassicRules = Rules{ID: ClassicID, Title: "2048", Spawn4Prob: 0.5}

// WeightedRules spawns a 4 one time in ten.
var WeightedRules = Rules{ID: WeightedID, Title: "2048 (Weighted)", Spawn4Prob: 0.1}

// Settings are the tunables shared by every game created after Configure.
type Settings struct {
	Spawn4Prob        float64 // Classic variant only
	InitialTiles      int
	WinTile           int
	SlideTicksPerCell int
	PopTicks          int
	ShakeTicks        int
}

// DefaultSettings mirrors the embedded configuration.
func DefaultSettings() Settings {
	return Settings{
		Spawn4Prob:        ClassicRules.Spawn4Prob,
		InitialTiles:      DefaultInitialTiles,
		WinTile:           DefaultWinTile,
		SlideTicksPerCell: 3,
		PopTicks:          6,
		ShakeTicks:        8,
	}
}

var (
	settingsMu sync.RWMutex
	settings   = DefaultSettings()
)

// Configure applies the game section of the configuration to games created
// afterwards. Running games are not affected.
func Configure(cfg config.GameConfig) {
	s := Settings{
		Spawn4Prob:        cfg.Spawn4Probability,
		InitialTiles:      cfg.InitialTiles,
		WinTile:           cfg.WinTile,
		SlideTicksPerCell: max(0, cfg.SlideTicksPerCell),
		PopTicks:          max(0, cfg.PopTicks),
		ShakeTicks:        max(0, cfg.ShakeTicks),
	}

	settingsMu.Lock()
	settings = s
	settingsMu.Unlock()
}

// CurrentSettings returns the active settings.
func CurrentSettings() Settings {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settings
}

// spawn4For returns the spawn probability for a variant under s.
func (s Settings) spawn4For(r Rules) float64 {
	if r.ID == ClassicID {
		return s.Spawn4Prob
	}
	return r.Spawn4Prob
}
