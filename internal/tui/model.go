package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clarabennett2626/logroute/internal/pipe"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#333333")).
			Padding(0, 1)

	statusKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Background(lipgloss.Color("#333333")).
			Bold(true).
			Padding(0, 1)
)

// EntryMsg carries one message from the sink into the viewer.
type EntryMsg struct {
	Msg *pipe.Message
}

// ClosedMsg reports that the sink was closed.
type ClosedMsg struct{}

// ErrMsg carries a source error into the viewer.
type ErrMsg struct {
	Err error
}

// Model is the live viewer. It renders messages as they arrive from a sink
// and keeps the view pinned to the newest line until the user scrolls up.
type Model struct {
	sink     *pipe.Sink
	renderer *Renderer
	name     string

	width  int
	height int
	ready  bool

	lines      []string
	offset     int
	autoScroll bool
	closed     bool
}

// NewModel creates a viewer fed by sink. A nil sink gives a viewer that
// only shows what is sent to it.
func NewModel(sink *pipe.Sink, r *Renderer, name string) Model {
	if r == nil {
		r = NewRenderer(DefaultConfig())
	}
	return Model{sink: sink, renderer: r, name: name, autoScroll: true}
}

// next waits for the following sink message.
func (m Model) next() tea.Cmd {
	if m.sink == nil || m.closed {
		return nil
	}
	ch, done := m.sink.Messages(), m.sink.Done()
	return func() tea.Msg {
		select {
		case msg := <-ch:
			return EntryMsg{Msg: msg}
		case <-done:
		}
		select {
		case msg := <-ch:
			return EntryMsg{Msg: msg}
		default:
			return ClosedMsg{}
		}
	}
}

// viewHeight is the number of log lines shown between the title and the
// status bar.
func (m Model) viewHeight() int {
	if h := m.height - 3; h > 1 {
		return h
	}
	return 1
}

func (m Model) maxOffset() int {
	return max(len(m.lines)-m.viewHeight(), 0)
}

func (m *Model) clampOffset() {
	m.offset = min(max(m.offset, 0), m.maxOffset())
}

func (m Model) isAtBottom() bool {
	return m.offset >= m.maxOffset()
}

// scroll moves the view by delta lines. Reaching the bottom re-enables
// following new lines.
func (m *Model) scroll(delta int) {
	m.autoScroll = false
	m.offset += delta
	m.clampOffset()
	if delta > 0 && m.isAtBottom() {
		m.autoScroll = true
	}
}

func (m *Model) push(line string) {
	m.lines = append(m.lines, line)
	if m.autoScroll {
		m.offset = m.maxOffset()
	}
}

// Init starts reading from the sink.
func (m Model) Init() tea.Cmd {
	return m.next()
}

// Update handles key presses, resizes and incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "j", "down":
			m.scroll(1)
		case "k", "up":
			m.scroll(-1)
		case "pgdown", "f", "ctrl+f":
			m.scroll(m.viewHeight())
		case "pgup", "b", "ctrl+b":
			m.scroll(-m.viewHeight())
		case "d", "ctrl+d":
			m.scroll(m.viewHeight() / 2)
		case "u", "ctrl+u":
			m.scroll(-m.viewHeight() / 2)
		case "g", "home":
			m.autoScroll = false
			m.offset = 0
		case "G", "end":
			m.offset = m.maxOffset()
			m.autoScroll = true
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		if m.autoScroll {
			m.offset = m.maxOffset()
		}
		m.clampOffset()

	case EntryMsg:
		m.push(m.renderer.Render(msg.Msg))
		return m, m.next()

	case ClosedMsg:
		m.closed = true

	case ErrMsg:
		m.push(fmt.Sprintf("ERROR: %v", msg.Err))
	}
	return m, nil
}

// View renders the title, the visible slice of lines and the status bar.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("logroute"))
	b.WriteByte('\n')

	vh := m.viewHeight()
	if len(m.lines) == 0 {
		for i := 0; i < vh; i++ {
			if i == vh/2 {
				b.WriteString("  Waiting for records...")
			}
			b.WriteByte('\n')
		}
	} else {
		end := min(m.offset+vh, len(m.lines))
		shown := 0
		for _, line := range m.lines[m.offset:end] {
			b.WriteString(line)
			b.WriteByte('\n')
			shown++
		}
		b.WriteString(strings.Repeat("\n", vh-shown))
	}

	pos := "bottom"
	if len(m.lines) > 0 && !m.isAtBottom() {
		pos = fmt.Sprintf("%d%%", m.offset*100/max(m.maxOffset(), 1))
	}
	src := m.name
	if m.closed {
		src += " (closed)"
	}
	var dropped uint64
	if m.sink != nil {
		dropped = m.sink.Dropped()
	}

	left := statusKeyStyle.Render("Lines:") + statusBarStyle.Render(fmt.Sprintf(" %d ", len(m.lines))) +
		statusKeyStyle.Render("Src:") + statusBarStyle.Render(fmt.Sprintf(" %s ", src))
	if dropped > 0 {
		left += statusKeyStyle.Render("Dropped:") + statusBarStyle.Render(fmt.Sprintf(" %d ", dropped))
	}
	right := statusKeyStyle.Render("Pos:") + statusBarStyle.Render(fmt.Sprintf(" %s ", pos))

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	b.WriteString(statusBarStyle.Render(left + strings.Repeat(" ", gap) + right))
	return b.String()
}
