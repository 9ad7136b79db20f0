package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/battle-arcade/internal/config"
)

var difficultyLabels = map[config.DifficultyPreset]string{
	config.DifficultyEasy:   "Easy     - the computer blunders often",
	config.DifficultyMedium: "Medium   - an occasional slip",
	config.DifficultyHard:   "Hard     - never misses a win or a block",
}

// TicTacToeMenuModel picks the computer's difficulty.
type TicTacToeMenuModel struct {
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	chosen    config.DifficultyPreset
	quitting  bool
	back      bool
}

// NewTicTacToeMenuModel starts on medium.
func NewTicTacToeMenuModel(width, height int) TicTacToeMenuModel {
	return TicTacToeMenuModel{
		cursor:    1,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the model.
func (m TicTacToeMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m TicTacToeMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
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
			if m.cursor < len(config.Presets)-1 {
				m.cursor++
			}
		case MenuActionSelect:
			m.chosen = config.Presets[m.cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// View renders the difficulty picker.
func (m TicTacToeMenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText("T I C - T A C - T O E", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select difficulty:", m.width))
	b.WriteString("\n\n")
	for i, p := range config.Presets {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+difficultyLabels[p], m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))
	return b.String()
}

// Difficulty returns the chosen preset, or "" if none was chosen.
func (m TicTacToeMenuModel) Difficulty() config.DifficultyPreset {
	return m.chosen
}

// IsQuitting returns true if user requested to quit.
func (m TicTacToeMenuModel) IsQuitting() bool {
	return m.quitting
}

// IsBack returns true if user wants to go back to the main menu.
func (m TicTacToeMenuModel) IsBack() bool {
	return m.back
}

// RunTicTacToeMenu shows the difficulty picker and returns the choice.
// An empty preset means the player backed out or quit.
func RunTicTacToeMenu(width, height int) (config.DifficultyPreset, error) {
	p := tea.NewProgram(NewTicTacToeMenuModel(width, height), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(TicTacToeMenuModel)
	if !ok {
		return "", nil
	}
	return m.Difficulty(), nil
}
