package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// pacboyVariants maps the menu entries to registered game IDs.
var pacboyVariants = []struct {
	ID    string
	Label string
}{
	{"pacboy", "Classic board"},
	{"pacboy_maze", "Random maze"},
}

// PacboyModeModel picks the board Pac-boy is played on.
type PacboyModeModel struct {
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	gameID    string
	quitting  bool
	back      bool
}

// NewPacboyModeModel creates the board picker.
func NewPacboyModeModel(width, height int) PacboyModeModel {
	return PacboyModeModel{
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the model.
func (m PacboyModeModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m PacboyModeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.cursor < len(pacboyVariants)-1 {
				m.cursor++
			}
		case MenuActionSelect:
			m.gameID = pacboyVariants[m.cursor].ID
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// View renders the board picker.
func (m PacboyModeModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText("P A C - B O Y", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select board:", m.width))
	b.WriteString("\n\n")
	for i, v := range pacboyVariants {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+v.Label, m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))
	return b.String()
}

// GameID returns the chosen variant, or "" if none was chosen.
func (m PacboyModeModel) GameID() string {
	return m.gameID
}

// IsQuitting returns true if user requested to quit.
func (m PacboyModeModel) IsQuitting() bool {
	return m.quitting
}

// IsBack returns true if user wants to go back to the main menu.
func (m PacboyModeModel) IsBack() bool {
	return m.back
}

// RunPacboyMenu shows the board picker and returns the chosen game ID.
func RunPacboyMenu(width, height int) (string, error) {
	p := tea.NewProgram(NewPacboyModeModel(width, height), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(PacboyModeModel)
	if !ok {
		return "", nil
	}
	return m.GameID(), nil
}
