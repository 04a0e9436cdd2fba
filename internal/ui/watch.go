package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/netaudio/internal/dante"
	"github.com/muurk/netaudio/internal/device"
)

// EventMsg delivers a client event to a WatchModel.
type EventMsg dante.Event

var watchColumns = []table.Column{
	{Title: "Name", Width: 24},
	{Title: "Address", Width: 15},
	{Title: "Tx", Width: 4},
	{Title: "Rx", Width: 4},
	{Title: "Subscribed", Width: 10},
	{Title: "Last event", Width: 20},
}

type watchKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit}
}

func (k watchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Quit}}
}

var watchKeys = watchKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// watchChrome is the number of lines around the table
const watchChrome = 6

// WatchModel is a live table of devices updated from client events.
type WatchModel struct {
	table     table.Model
	help      help.Model
	devices   []device.Device
	lastEvent map[string]dante.EventName
	index     map[string]int
	status    string
	events    int
	width     int
}

// NewWatchModel creates a watch table seeded with already known devices
func NewWatchModel(initial []device.Device) WatchModel {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(MutedColor).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(TextColor).
		Background(PrimaryColor)

	m := WatchModel{
		table: table.New(
			table.WithColumns(watchColumns),
			table.WithFocused(true),
			table.WithHeight(10),
			table.WithStyles(styles),
		),
		help:      help.New(),
		lastEvent: make(map[string]dante.EventName),
		index:     make(map[string]int),
		status:    "Waiting for devices...",
		width:     GetTerminalWidth(),
	}
	for _, d := range initial {
		m.upsert(d)
	}
	m.refresh()
	return m
}

// Init implements tea.Model
func (m WatchModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, watchKeys.Quit) {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = clampWidth(msg.Width)
		m.help.Width = m.width
		m.table.SetHeight(max(msg.Height-watchChrome, 3))
		return m, nil
	case EventMsg:
		ev := dante.Event(msg)
		m.upsert(ev.Device)
		m.lastEvent[ev.Device.Address] = ev.Name
		m.events++
		m.status = fmt.Sprintf("%s from %s", ev.Name, ev.Device.DisplayName())
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// upsert stores a device snapshot, keeping first-seen order
func (m *WatchModel) upsert(d device.Device) {
	if i, ok := m.index[d.Address]; ok {
		m.devices[i] = d
		return
	}
	m.index[d.Address] = len(m.devices)
	m.devices = append(m.devices, d)
}

func (m *WatchModel) refresh() {
	rows := make([]table.Row, 0, len(m.devices))
	for _, d := range m.devices {
		active := 0
		for _, ch := range d.Channels.Rx {
			if ch.Status.IsActive() {
				active++
			}
		}
		rows = append(rows, table.Row{
			d.DisplayName(),
			d.Address,
			fmt.Sprint(d.ChannelCount.Tx),
			fmt.Sprint(d.ChannelCount.Rx),
			fmt.Sprintf("%d/%d", active, len(d.Channels.Rx)),
			string(m.lastEvent[d.Address]),
		})
	}
	m.table.SetRows(rows)
}

// Devices returns the devices shown, in first-seen order
func (m WatchModel) Devices() []device.Device {
	return append([]device.Device(nil), m.devices...)
}

// View implements tea.Model
func (m WatchModel) View() string {
	var b strings.Builder
	b.WriteString(HeaderTitleStyle.Render("NETAUDIO DEVICES"))
	b.WriteString(MutedStyle.Render(fmt.Sprintf("  %d devices, %d events", len(m.devices), m.events)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Render(m.table.View()))
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render("  " + m.status))
	b.WriteString("\n  ")
	b.WriteString(m.help.View(watchKeys))
	b.WriteString("\n")
	return b.String()
}
