package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zoobzio/stepper"
)

const (
	maxLogEntries = 10

	// Layout of the stepper row, in terminal cells.
	stepperRow = 2
	decButton  = "[ - ]"
	incButton  = "[ + ]"
	fieldWidth = 6
	decStart   = 0
	fieldStart = decStart + len(decButton) + 1
	incStart   = fieldStart + fieldWidth + 1
)

// Messages delivered from stepper listeners and signal hooks.
type (
	valueMsg  int
	changeMsg stepper.ChangeEvent
	saveMsg   int
	noticeMsg string
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	buttonStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	fieldStyle    = lipgloss.NewStyle().Underline(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	logStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// model renders one Stepper and forwards terminal input to it.
type model struct {
	stepper *stepper.Stepper
	events  chan tea.Msg
	input   textinput.Model
	log     []string
	now     func() time.Time
	pressed bool
}

func newModel(s *stepper.Stepper, events chan tea.Msg) model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = fieldWidth
	ti.Width = fieldWidth
	ti.SetValue(s.Draft())

	return model{
		stepper: s,
		events:  events,
		input:   ti,
		now:     time.Now,
	}
}

// listenerOptions route Stepper notifications into the events channel.
func listenerOptions(events chan<- tea.Msg) []stepper.Option {
	return []stepper.Option{
		stepper.WithOnUpdate(func(v int) { deliver(events, valueMsg(v)) }),
		stepper.WithOnChange(func(e stepper.ChangeEvent) { deliver(events, changeMsg(e)) }),
		stepper.WithOnSave(func(v int) { deliver(events, saveMsg(v)) }),
	}
}

// deliver drops the message when the UI is not keeping up.
func deliver(events chan<- tea.Msg, msg tea.Msg) {
	select {
	case events <- msg:
	default:
	}
}

func (m model) listen() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func (m model) Init() tea.Cmd {
	return m.listen()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case valueMsg:
		if !m.input.Focused() {
			m.input.SetValue(strconv.Itoa(int(msg)))
		}
		return m, m.listen()

	case changeMsg:
		m.appendLog(fmt.Sprintf("Change: %d → %d", msg.OldValue, msg.NewValue))
		return m, m.listen()

	case saveMsg:
		m.appendLog(fmt.Sprintf("Save: %d (internal %d)", int(msg), stepper.TextSize.ToInternal(int(msg))))
		return m, m.listen()

	case noticeMsg:
		m.appendLog(string(msg))
		m.input.SetValue(m.stepper.Draft())
		return m, m.listen()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "esc":
		if m.input.Focused() {
			m.blur()
			return m, nil
		}
		cmd := m.input.Focus()
		return m, cmd
	}

	if !m.input.Focused() {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "[":
			m.stepper.Decrement()
		case "]":
			m.stepper.Increment()
		}
		m.input.SetValue(m.stepper.Draft())
		return m, nil
	}

	if stepper.KeySuppressed(domKey(msg)) {
		return m, nil
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before && !m.stepper.Input(m.input.Value()) {
		m.input.SetValue(before)
	}
	return m, cmd
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || msg.Y != stepperRow {
			return m, nil
		}
		switch {
		case inRange(msg.X, decStart, len(decButton)):
			m.blur()
			m.stepper.PressStart(stepper.Down)
			m.pressed = true
		case inRange(msg.X, incStart, len(incButton)):
			m.blur()
			m.stepper.PressStart(stepper.Up)
			m.pressed = true
		case inRange(msg.X, fieldStart, fieldWidth):
			cmd := m.input.Focus()
			return m, cmd
		}
		m.input.SetValue(m.stepper.Draft())

	case tea.MouseActionRelease:
		m.release()

	case tea.MouseActionMotion:
		// Dragging off a held button ends the press.
		if m.pressed && (msg.Y != stepperRow || !(inRange(msg.X, decStart, len(decButton)) || inRange(msg.X, incStart, len(incButton)))) {
			m.release()
		}
	}
	return m, nil
}

func (m *model) release() {
	if !m.pressed {
		return
	}
	m.pressed = false
	m.stepper.PressEnd()
	m.input.SetValue(m.stepper.Draft())
}

func (m *model) blur() {
	if !m.input.Focused() {
		return
	}
	m.input.Blur()
	m.stepper.Blur()
	m.input.SetValue(m.stepper.Draft())
}

func (m *model) appendLog(entry string) {
	line := fmt.Sprintf("[%s] %s", m.now().Format("15:04:05"), entry)
	m.log = append([]string{line}, m.log...)
	if len(m.log) > maxLogEntries {
		m.log = m.log[:maxLogEntries]
	}
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Text size"))
	b.WriteString("\n\n")

	dec, inc := buttonStyle, buttonStyle
	if !m.stepper.CanDecrement() {
		dec = disabledStyle
	}
	if !m.stepper.CanIncrement() {
		inc = disabledStyle
	}

	field := m.input.View()
	if !m.input.Focused() {
		field = fieldStyle.Render(fmt.Sprintf("%*s", fieldWidth, m.input.Value()))
	}

	b.WriteString(dec.Render(decButton))
	b.WriteString(" ")
	b.WriteString(field)
	b.WriteString(" ")
	b.WriteString(inc.Render(incButton))
	if unit := m.stepper.UnitLabel(); unit != "" {
		b.WriteString(" " + unit)
	}
	b.WriteString("\n\n")

	cfg := m.stepper.Config()
	value := m.stepper.Value()
	b.WriteString(mutedStyle.Render(fmt.Sprintf(
		"value %d  internal %d  range %d..%d  step %d  saved %d",
		value, stepper.TextSize.ToInternal(value), cfg.Min, cfg.Max, cfg.Step, m.stepper.Committed(),
	)))
	if cfg.Disabled {
		b.WriteString("\n" + disabledStyle.Render("disabled"))
	}
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Event log"))
	b.WriteString("\n")
	if len(m.log) == 0 {
		b.WriteString(mutedStyle.Render("no events yet"))
		b.WriteString("\n")
	}
	for _, line := range m.log {
		b.WriteString(logStyle.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("click or hold [ - ] [ + ]  •  [ ] step  •  tab edit  •  q quit"))
	return b.String()
}

func inRange(x, start, width int) bool {
	return x >= start && x < start+width
}

// domKey maps a bubbletea key to the browser key and code names that
// stepper.KeySuppressed expects.
func domKey(msg tea.KeyMsg) (key, code string) {
	switch msg.Type {
	case tea.KeyUp:
		return "ArrowUp", "ArrowUp"
	case tea.KeyDown:
		return "ArrowDown", "ArrowDown"
	case tea.KeyPgUp:
		return "PageUp", "PageUp"
	case tea.KeyPgDown:
		return "PageDown", "PageDown"
	case tea.KeyHome:
		return "Home", "Home"
	case tea.KeyEnd:
		return "End", "End"
	case tea.KeyEnter:
		return "Enter", "Enter"
	case tea.KeyRunes:
		if len(msg.Runes) == 1 {
			return string(msg.Runes), ""
		}
	}
	return msg.String(), ""
}
