package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-looper/midi"
	"go-looper/sequencer"
	"go-looper/theme"
)

// slots drawn per grid row
const gridWidth = 24

type Model struct {
	Manager   *sequencer.Manager
	DeviceMgr *midi.DeviceManager
	Theme     *theme.Theme
	quitting  bool
	width     int
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

func NewModel(manager *sequencer.Manager, deviceMgr *midi.DeviceManager, th *theme.Theme) Model {
	return Model{
		Manager:   manager,
		DeviceMgr: deviceMgr,
		Theme:     th,
	}
}

func ListenForUpdates(manager *sequencer.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ListenForUpdates(m.Manager)}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		st := m.Manager.Status()
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.Manager.Panic()
			return m, tea.Quit

		case "r":
			m.Manager.ToggleRecording()

		case "c":
			m.Manager.Clear()

		case "t":
			m.Manager.ToggleThru()

		case "+", "=":
			m.Manager.SetBars(st.Bars + 1)

		case "-", "_":
			m.Manager.SetBars(st.Bars - 1)

		case " ":
			m.Manager.Panic()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case UpdateMsg:
		return m, ListenForUpdates(m.Manager)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		switch event.Type {
		case midi.DeviceConnected:
			m.Manager.SetInput(event.Controller)
		case midi.DeviceDisconnected:
			m.Manager.SetInput(nil)
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.Manager.Status()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	recStyle := lipgloss.NewStyle().Foreground(m.Theme.Record()).Bold(true)

	rec := dimStyle.Render("REC")
	if st.Recording {
		rec = recStyle.Render("REC")
	}
	run := "STOP"
	if st.Running {
		run = "PLAY"
	}
	thru := ""
	if st.Thru {
		thru = "  thru"
	}
	input := st.Input
	if input == "" {
		input = "no input"
	}

	header := headerStyle.Render(fmt.Sprintf("go-looper  %s  %d bar(s)  %s%s", run, st.Bars, position(st), thru))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header + "  " + rec)
	out.WriteString("\n")
	out.WriteString(dimStyle.Render(fmt.Sprintf("in: %s  slots %d/%d  sent %d", input, st.Occupied, st.Capacity, st.Sent)))
	out.WriteString("\n\n")
	out.WriteString(m.renderPlayhead(st))
	out.WriteString("\n\n")
	out.WriteString(m.renderSlots(st))
	out.WriteString("\n\n")
	out.WriteString(dimStyle.Render(RenderKeyHelp([]KeySection{
		{Keys: []KeyBinding{
			{Key: "r / pedal", Desc: "toggle recording"},
			{Key: "c", Desc: "clear loop"},
			{Key: "+/-", Desc: "loop length in bars"},
			{Key: "t", Desc: "toggle thru"},
			{Key: "space", Desc: "all notes off"},
			{Key: "q", Desc: "quit"},
		}},
	})))

	return out.String()
}

// position renders the loop index as bar.beat.pulse
func position(st sequencer.Status) string {
	if st.Index < 0 {
		return "-.-.--"
	}
	beat := st.Index / midi.PPQN
	beats := st.Length / midi.PPQN / max(st.Bars, 1)
	if beats < 1 {
		beats = 1
	}
	return fmt.Sprintf("%d.%d.%02d", beat/beats+1, beat%beats+1, st.Index%midi.PPQN)
}

func (m Model) renderPlayhead(st sequencer.Status) string {
	width := 48
	if m.width > 8 && m.width-4 < width {
		width = m.width - 4
	}
	pos := -1
	if st.Index >= 0 && st.Length > 0 {
		pos = st.Index * width / st.Length
	}

	on := lipgloss.NewStyle().Foreground(m.Theme.Success())
	off := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	var b strings.Builder
	for i := 0; i < width; i++ {
		if i == pos {
			b.WriteString(on.Render(string(m.Theme.Symbols.Playhead)))
		} else {
			b.WriteString(off.Render("─"))
		}
	}
	return b.String()
}

func (m Model) renderSlots(st sequencer.Status) string {
	sym := m.Theme.Symbols
	styles := map[rune]lipgloss.Style{
		sym.SlotEmpty:  lipgloss.NewStyle().Foreground(m.Theme.Muted()),
		sym.SlotOpen:   lipgloss.NewStyle().Foreground(m.Theme.Warning()),
		sym.SlotClosed: lipgloss.NewStyle().Foreground(m.Theme.FG()),
		sym.SlotActive: lipgloss.NewStyle().Foreground(m.Theme.Active()),
		sym.Cursor:     lipgloss.NewStyle().Foreground(m.Theme.Accent()),
	}

	var lines []string
	var line strings.Builder
	for i, s := range st.Slots {
		r := sym.SlotEmpty
		switch {
		case i == st.Next:
			// drawn over whatever the slot holds, it is the next one evicted
			r = sym.Cursor
		case s.Active:
			r = sym.SlotActive
		case s.Open():
			r = sym.SlotOpen
		case !s.Empty():
			r = sym.SlotClosed
		}
		line.WriteString(styles[r].Render(string(r)))
		line.WriteString(" ")
		if (i+1)%gridWidth == 0 {
			lines = append(lines, line.String())
			line.Reset()
		}
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}

	var sounding []string
	for _, s := range st.Slots {
		if s.Active {
			sounding = append(sounding, midi.NoteName(s.Note))
		}
	}
	if len(sounding) > 0 {
		lines = append(lines, "", "sounding: "+strings.Join(sounding, " "))
	}
	return strings.Join(lines, "\n")
}
