package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tile2048/internal/core"
	"github.com/vovakirdan/tile2048/internal/registry"
	"github.com/vovakirdan/tile2048/internal/storage"
)

// MenuItem represents a selectable variant in the menu.
type MenuItem struct {
	GameID string
	Title  string
	Best   int // Best score for the current slot
}

// MenuModel is the Bubble Tea model for the variant picker.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	width          int
	height         int
	store          storage.Backend
	slot           string
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	quitting       bool
	selected       *MenuItem // Set when user selects a variant
	newGame        bool      // Selected with N: skip the saved game
	openScoreboard bool      // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a new menu model. store may be nil.
func NewMenuModel(store storage.Backend, slot string, cfg core.RuntimeConfig) MenuModel {
	if slot == "" {
		slot = storage.DefaultSlot
	}

	games := registry.List()
	items := make([]MenuItem, 0, len(games))
	for _, g := range games {
		items = append(items, MenuItem{GameID: g.ID, Title: g.Title})
	}

	m := MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		store:     store,
		slot:      slot,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
	m.loadBest()
	return m
}

// loadBest fills in the best score of every item. Failures leave zero.
func (m *MenuModel) loadBest() {
	if m.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	for i := range m.items {
		best, err := m.store.BestScore(ctx, m.items[i].GameID, m.slot)
		if err != nil {
			continue
		}
		m.items[i].Best = best
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect, MenuActionNewGame:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			m.newGame = msg.String() == "n"
			return m, tea.Quit
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(tileLightText).Background(tileBackgrounds[10]).Padding(0, 2)
	menuItemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	menuActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(tileBackgrounds[3])
	menuHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View draws the title, one line per variant and the key hints.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	lines := []string{
		"",
		menuTitleStyle.Render("2 0 4 8"),
		"",
		menuHintStyle.Render("slot: " + m.slot),
		"",
	}

	for i, item := range m.items {
		label := fmt.Sprintf("%-18s", item.Title)
		if item.Best > 0 {
			label += fmt.Sprintf(" best %d", item.Best)
		}
		if i == m.cursor {
			lines = append(lines, menuActiveStyle.Render("> "+label))
		} else {
			lines = append(lines, menuItemStyle.Render("  "+label))
		}
	}

	lines = append(lines, "",
		menuHintStyle.Render("enter continue · n new game · tab scores · q quit"),
	)

	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// WantsNewGame reports whether the selection asked for a fresh game.
func (m MenuModel) WantsNewGame() bool {
	return m.newGame
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	NewGame         bool
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store storage.Backend, slot string, cfg core.RuntimeConfig) (MenuResult, error) {
	model := NewMenuModel(store, slot, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}

	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.IsQuitting() || m.Selected() == nil:
		result.Quit = true
	default:
		result.GameID = m.Selected().GameID
		result.NewGame = m.WantsNewGame()
	}

	return result, nil
}
