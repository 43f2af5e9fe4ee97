// Package tui provides a terminal user interface for exploring scale
// constraints and rendering the demo progression.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/soundfold/cmajor/pkg/scale"
	"github.com/soundfold/cmajor/pkg/sequence"
	"github.com/soundfold/cmajor/pkg/vocab"
)

// Ivory-and-key color scheme
var (
	keyWhite  = lipgloss.Color("#F5F5F0")
	keyGold   = lipgloss.Color("#FFD700")
	mutedGray = lipgloss.Color("#888888")
	darkGray  = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(keyGold).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(keyWhite).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(keyGold).
			Bold(true).
			PaddingLeft(2)

	allowedStyle = lipgloss.NewStyle().
			Foreground(keyGold).
			Bold(true)

	blockedStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(keyGold).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(keyGold).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateExplore
	StateRendering
	StateResult
)

// scaleChoice is one selectable scale in the menu
type scaleChoice struct {
	Title string
	Name  string // scale.ByName argument
}

var scaleChoices = []scaleChoice{
	{Title: "C major", Name: "C major"},
	{Title: "A minor", Name: "A minor"},
	{Title: "G major", Name: "G major"},
	{Title: "C major pentatonic", Name: "C major pentatonic"},
	{Title: "C blues", Name: "C blues"},
	{Title: "Exit", Name: ""},
}

// Model represents the TUI model
type Model struct {
	state      State
	menuIndex  int
	spinner    spinner.Model
	filter     *scale.Filter
	scaleName  string
	ranged     bool
	outputFile string
	err        error
	width      int
	height     int
}

// renderDoneMsg signals demo rendering completion
type renderDoneMsg struct {
	outputFile string
	err        error
}

// New creates a new TUI model
func New() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(keyGold)

	return Model{
		state:   StateMenu,
		spinner: s,
	}
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateExplore:
			return m.updateExplore(msg)
		case StateRendering:
			return m.updateRendering(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case renderDoneMsg:
		m.state = StateResult
		m.outputFile = msg.outputFile
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
		if m.menuIndex < len(scaleChoices)-1 {
			m.menuIndex++
		}
	case "enter":
		if m.menuIndex == len(scaleChoices)-1 {
			return m, tea.Quit
		}
		choice := scaleChoices[m.menuIndex]
		s, err := scale.ByName(choice.Name)
		if err != nil {
			m.err = err
			m.state = StateResult
			return m, nil
		}
		f, err := scale.NewFilter(s)
		if err != nil {
			m.err = err
			m.state = StateResult
			return m, nil
		}
		m.filter = f
		m.scaleName = s.Name()
		m.ranged = false
		m.state = StateExplore
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateExplore(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = StateMenu
		return m, nil
	case "r":
		// Toggle the C2..C7 range on the current scale.
		var rng *scale.Range
		if !m.ranged {
			r := scale.RangeC2C7
			rng = &r
		}
		f, err := scale.NewRangedFilter(m.filter.Scale(), rng)
		if err != nil {
			m.err = err
			m.state = StateResult
			return m, nil
		}
		m.filter = f
		m.ranged = !m.ranged
		return m, nil
	case "enter":
		m.state = StateRendering
		return m, tea.Batch(m.spinner.Tick, m.renderDemo())
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateRendering(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.outputFile = ""
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) renderDemo() tea.Cmd {
	return func() tea.Msg {
		data, err := sequence.ToSMF(sequence.CMajorDemo())
		if err != nil {
			return renderDoneMsg{err: err}
		}

		dir := "demo_output"
		if err := os.MkdirAll(dir, 0755); err != nil {
			return renderDoneMsg{err: err}
		}
		outputFile := filepath.Join(dir, "c_major_demo.mid")
		if err := os.WriteFile(outputFile, data, 0644); err != nil {
			return renderDoneMsg{err: err}
		}

		return renderDoneMsg{outputFile: outputFile}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" CMAJOR SCALE EXPLORER "))
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateExplore:
		s.WriteString(m.viewExplore())
	case StateRendering:
		s.WriteString(m.viewRendering())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT SCALE "))
	s.WriteString("\n\n")

	for i, choice := range scaleChoices {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", choice.Title)))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", choice.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewExplore() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf(" %s ", strings.ToUpper(m.scaleName))))
	s.WriteString("\n\n")

	// Pitch-class strip: one cell per class, lit when allowed.
	for c := scale.PitchClass(0); c <= scale.MaxPitchClass; c++ {
		cell := fmt.Sprintf(" %-2s", c.Name())
		if m.filter.Scale().Contains(c) {
			s.WriteString(allowedStyle.Render(cell))
		} else {
			s.WriteString(blockedStyle.Render(cell))
		}
	}
	s.WriteString("\n\n")

	v := vocab.Full(0)
	kept := v.Filter(m.filter)
	s.WriteString(fmt.Sprintf("Vocabulary: %d of %d pitch tokens allowed\n", len(kept), v.Len()))
	s.WriteString(fmt.Sprintf("Reduction:  %.1f%% filtered out\n", 100*scale.ReductionRatio(v.Len(), len(kept))))
	if m.ranged {
		s.WriteString(fmt.Sprintf("Range:      C2..C7 (MIDI %d..%d)\n", scale.RangeC2C7.Low, scale.RangeC2C7.High))
	} else {
		s.WriteString("Range:      unbounded\n")
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("r: toggle C2..C7 range • enter: render demo • esc: back"))

	return boxStyle.Render(s.String())
}

func (m Model) viewRendering() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" RENDERING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Rendering C - F - G - C progression...\n", m.spinner.View()))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s", m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Demo rendered!"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Output: %s", filepath.Base(m.outputFile)))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

// Run starts the TUI application
func Run() error {
	p := tea.NewProgram(New(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
