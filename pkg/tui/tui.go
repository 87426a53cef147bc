// Package tui provides a terminal user interface for lyrictune
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/james-see/lyrictune/pkg/playback"
	"github.com/james-see/lyrictune/pkg/song"
	"github.com/james-see/lyrictune/pkg/theory"
)

// Sheet-music palette: ink on manuscript paper with a brass accent
var (
	brass     = lipgloss.Color("#D4A537")
	parchment = lipgloss.Color("#F3E9D2")
	inkGray   = lipgloss.Color("#9A9A9A")
	staffBg   = lipgloss.Color("#2B2B3A")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(brass).
			Background(staffBg).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(inkGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(brass).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(parchment).
			PaddingTop(1)

	chordStyle = lipgloss.NewStyle().
			Foreground(brass).
			Bold(true).
			Width(6)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(brass).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(brass).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateInput
	StateFilePicker
	StateComposing
	StateResult
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	Next        State
}

var menuItems = []MenuItem{
	{Title: "Type lyrics", Description: "Enter a line of lyrics to set to music", Next: StateInput},
	{Title: "Load lyrics file", Description: "Compose from a .txt or .lyrics file", Next: StateFilePicker},
	{Title: "Exit", Description: "Exit the application"},
}

// Settings are the composition defaults the TUI starts with
type Settings struct {
	Root  theory.PitchClass
	Mode  theory.Mode
	Tempo float64
	Style playback.Style
}

// Model represents the TUI model
type Model struct {
	state      State
	menuIndex  int
	input      textinput.Model
	filePicker filepicker.Model
	spinner    spinner.Model
	settings   Settings
	outputDir  string

	lyrics     string
	sourceFile string
	song       *song.Song
	savedFile  string
	err        error
	width      int
	height     int
}

// composeDoneMsg signals composition completion
type composeDoneMsg struct {
	song   *song.Song
	lyrics string
	err    error
}

// savedMsg signals that the MIDI file was written
type savedMsg struct {
	path string
	err  error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model
func New(settings Settings) Model {
	ti := textinput.New()
	ti.Placeholder = "Twinkle twinkle little star"
	ti.CharLimit = 500
	ti.Width = 60

	fp := filepicker.New()
	fp.AllowedTypes = []string{".txt", ".lyrics"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(brass)

	if settings.Tempo <= 0 {
		settings.Tempo = playback.DefaultTempo
	}
	outputDir, _ := os.Getwd()

	return Model{
		state:      StateMenu,
		input:      ti,
		filePicker: fp,
		spinner:    s,
		settings:   settings,
		outputDir:  outputDir,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The file picker needs to receive all messages
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.sourceFile = path
			m.state = StateComposing
			return m, tea.Batch(m.spinner.Tick, m.composeFile(path))
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateInput:
			return m.updateInput(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case composeDoneMsg:
		m.state = StateResult
		m.song = msg.song
		m.lyrics = msg.lyrics
		m.err = msg.err
		m.savedFile = ""
		return m, nil

	case savedMsg:
		m.savedFile = msg.path
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		if m.menuIndex == len(menuItems)-1 {
			return m, tea.Quit
		}
		m.state = menuItems[m.menuIndex].Next
		if m.state == StateInput {
			m.input.SetValue("")
			return m, m.input.Focus()
		}
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.state = StateMenu
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.Blur()
		m.sourceFile = ""
		m.state = StateComposing
		return m, tea.Batch(m.spinner.Tick, m.compose(text))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.song = nil
		m.sourceFile = ""
		m.savedFile = ""
		return m, nil
	case "r":
		if m.lyrics == "" {
			return m, nil
		}
		m.state = StateComposing
		return m, tea.Batch(m.spinner.Tick, m.compose(m.lyrics))
	case "t":
		if m.settings.Style == playback.Strumming {
			m.settings.Style = playback.Arpeggio
		} else {
			m.settings.Style = playback.Strumming
		}
		m.savedFile = ""
		return m, nil
	case "s":
		if m.song == nil {
			return m, nil
		}
		return m, m.save()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// compose runs the pipeline for text with a fresh seed
func (m Model) compose(text string) tea.Cmd {
	opts := song.Options{Root: m.settings.Root, Mode: m.settings.Mode}
	return func() tea.Msg {
		s, err := song.Compose(text, opts)
		return composeDoneMsg{song: s, lyrics: text, err: err}
	}
}

func (m Model) composeFile(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return composeDoneMsg{err: err}
		}
		return m.compose(string(data))()
	}
}

func (m Model) outputPath() string {
	if m.sourceFile != "" {
		return strings.TrimSuffix(m.sourceFile, filepath.Ext(m.sourceFile)) + ".mid"
	}
	return filepath.Join(m.outputDir, "song.mid")
}

func (m Model) save() tea.Cmd {
	arr := playback.Arrangement{
		Measures: m.song.Measures,
		Chords:   m.song.Chords,
		Tempo:    m.settings.Tempo,
		Style:    m.settings.Style,
	}
	path := m.outputPath()
	return func() tea.Msg {
		if err := playback.NewMIDIRenderer().WriteMIDIFile(arr, path); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{path: path}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateInput:
		s.WriteString(m.viewInput())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateComposing:
		s.WriteString(m.viewComposing())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" COMPOSE "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(parchment).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	s.WriteString(statusStyle.Render(fmt.Sprintf("  %s %s • %g BPM • %s",
		m.settings.Root, m.settings.Mode, m.settings.Tempo, m.settings.Style)))

	return boxStyle.Render(s.String())
}

func (m Model) viewInput() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" ENTER LYRICS "))
	s.WriteString("\n\n")
	s.WriteString(m.input.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: compose • esc: back to menu"))

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT LYRICS FILE "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewComposing() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" COMPOSING "))
	s.WriteString("\n\n")
	source := "typed lyrics"
	if m.sourceFile != "" {
		source = filepath.Base(m.sourceFile)
	}
	s.WriteString(fmt.Sprintf("%s Setting %s to music...\n", m.spinner.View(), source))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s", m.err.Error())))
		s.WriteString("\n\n")
		s.WriteString(helpStyle.Render("Press enter to continue"))
		return boxStyle.Render(s.String())
	}

	s.WriteString(titleStyle.Render(" SONG "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Key: %s • Seed: %d • Progression: %s\n",
		m.song.Scale, m.song.Seed, strings.Join(m.song.TemplateSymbols(), " ")))
	s.WriteString(fmt.Sprintf("Syllables: %d • Style: %s • %g BPM\n\n",
		m.song.TotalSyllables(), m.settings.Style, m.settings.Tempo))

	bars := m.song.Bars()
	if len(bars) == 0 {
		s.WriteString(menuStyle.Render("(no syllables, nothing to play)"))
		s.WriteString("\n")
	}
	for _, bar := range bars {
		notes := make([]string, len(bar.Notes))
		for i, n := range bar.Notes {
			notes[i] = n.String()
		}
		s.WriteString(fmt.Sprintf("%3d │ %s│ %s\n", bar.Index, chordStyle.Render(bar.Symbol), strings.Join(notes, " ")))
	}

	if m.savedFile != "" {
		s.WriteString("\n")
		s.WriteString(successStyle.Render(fmt.Sprintf("✓ Saved %s", filepath.Base(m.savedFile))))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("s: save MIDI • r: re-roll • t: toggle style • enter: menu"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
   _               _      _
  | |   _   _ _ __(_) ___| |_ _   _ _ __   ___
  | |  | | | | '__| |/ __| __| | | | '_ \ / _ \
  | |__| |_| | |  | | (__| |_| |_| | | | |  __/
  |_____\__, |_|  |_|\___|\__|\__,_|_| |_|\___|
        |___/
`
	return lipgloss.NewStyle().Foreground(brass).Render(logo)
}

// Run starts the TUI application
func Run(settings Settings) error {
	p := tea.NewProgram(New(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
