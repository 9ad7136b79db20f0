package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/battle-arcade/internal/games/tanks"
)

// tanksRows are the settings of the battle setup screen, top to bottom.
const (
	tanksRowPlayers = iota
	tanksRowP1Level
	tanksRowP2Level
	tanksRowStart
	tanksRowCount
)

// TanksSetupModel picks the player count and both tank levels.
type TanksSetupModel struct {
	cursor    int
	setup     tanks.Setup
	width     int
	height    int
	keyMapper *KeyMapper
	chosen    bool
	quitting  bool
	back      bool
}

// NewTanksSetupModel starts from the default setup.
func NewTanksSetupModel(width, height int) TanksSetupModel {
	return TanksSetupModel{
		setup:     tanks.DefaultSetup(),
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the model.
func (m TanksSetupModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m TanksSetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m TanksSetupModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < tanksRowCount-1 {
			m.cursor++
		}
	case MenuActionLeft:
		m.adjust(-1)
	case MenuActionRight:
		m.adjust(1)
	case MenuActionSelect:
		if m.cursor == tanksRowStart {
			m.chosen = true
			return m, tea.Quit
		}
		m.adjust(1)
	}
	return m, nil
}

// adjust steps the value under the cursor, wrapping at both ends.
func (m *TanksSetupModel) adjust(delta int) {
	n := tanks.MaxLevel - tanks.MinLevel + 1
	wrap := func(v int) int {
		return (v-tanks.MinLevel+delta+n)%n + tanks.MinLevel
	}
	switch m.cursor {
	case tanksRowPlayers:
		m.setup.Players = 3 - m.setup.Players
	case tanksRowP1Level:
		m.setup.P1Level = wrap(m.setup.P1Level)
	case tanksRowP2Level:
		m.setup.P2Level = wrap(m.setup.P2Level)
	}
}

// View renders the setup screen.
func (m TanksSetupModel) View() string {
	if m.quitting {
		return ""
	}

	opponent := "NPC level"
	players := "1 player vs NPC"
	if m.setup.Players == 2 {
		opponent = "P2 level"
		players = "2 players"
	}
	rows := []string{
		fmt.Sprintf("Mode:      < %s >", players),
		fmt.Sprintf("P1 level:  < %d >", m.setup.P1Level),
		fmt.Sprintf("%-10s < %d >", opponent+":", m.setup.P2Level),
		"Start battle",
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText("B A T T L E   T A N K S", m.width))
	b.WriteString("\n\n")
	for i, row := range rows {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+row, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.setup.Players == 2 {
		b.WriteString(centerText("P1: W/X/A/D move, S fire   P2: arrows move, Space fire", m.width))
	} else {
		b.WriteString(centerText("Arrows move, Space fires", m.width))
	}
	b.WriteString("\n\n")
	b.WriteString(centerText("Left/Right: Change  |  Enter: Select  |  Esc: Back  |  Q: Quit", m.width))
	return b.String()
}

// Setup returns the chosen setup.
func (m TanksSetupModel) Setup() tanks.Setup {
	return m.setup
}

// Chosen reports whether the player started the battle.
func (m TanksSetupModel) Chosen() bool {
	return m.chosen
}

// IsQuitting returns true if user requested to quit.
func (m TanksSetupModel) IsQuitting() bool {
	return m.quitting
}

// IsBack returns true if user wants to go back to the main menu.
func (m TanksSetupModel) IsBack() bool {
	return m.back
}

// RunTanksSetup shows the battle setup and returns the choice.
// It returns false when the player backed out or quit.
func RunTanksSetup(width, height int) (tanks.Setup, bool, error) {
	p := tea.NewProgram(NewTanksSetupModel(width, height), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return tanks.Setup{}, false, err
	}
	m, ok := final.(TanksSetupModel)
	if !ok || !m.Chosen() {
		return tanks.Setup{}, false, nil
	}
	return m.Setup(), true, nil
}
