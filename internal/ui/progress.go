package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// scanInterval is how often the scan progress bar advances
const scanInterval = 100 * time.Millisecond

type scanTickMsg time.Time

// DeviceFoundMsg tells a ScanModel that discovery found a new device.
type DeviceFoundMsg struct {
	Address string
}

// ScanModel shows a progress bar for a timed discovery scan and quits when
// the timeout elapses.
type ScanModel struct {
	Label       string
	Timeout     time.Duration
	Elapsed     time.Duration
	Found       []string
	Interrupted bool

	done bool
	bar  progress.Model
}

// NewScanModel creates a scan display for a discovery of the given length
func NewScanModel(label string, timeout time.Duration) ScanModel {
	return ScanModel{
		Label:   label,
		Timeout: timeout,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
		),
	}
}

// Init implements tea.Model
func (m ScanModel) Init() tea.Cmd {
	return scanTick()
}

func scanTick() tea.Cmd {
	return tea.Tick(scanInterval, func(t time.Time) tea.Msg {
		return scanTickMsg(t)
	})
}

// Update implements tea.Model
func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scanTickMsg:
		m.Elapsed += scanInterval
		if m.Elapsed >= m.Timeout {
			m.done = true
			return m, tea.Quit
		}
		return m, scanTick()
	case DeviceFoundMsg:
		m.Found = append(m.Found, msg.Address)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.done = true
			m.Interrupted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// Percent returns the fraction of the timeout that has elapsed
func (m ScanModel) Percent() float64 {
	if m.Timeout <= 0 {
		return 1
	}
	return min(float64(m.Elapsed)/float64(m.Timeout), 1)
}

// View implements tea.Model
func (m ScanModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(ProgressLabelStyle.Render(m.Label))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(
		fmt.Sprintf("%s  %3.0f%%  %d found", m.bar.ViewAs(m.Percent()), m.Percent()*100, len(m.Found))))
	b.WriteString("\n")
	for _, address := range m.Found {
		b.WriteString("  " + SuccessTitleStyle.Render(SuccessMarker) + " " + address + "\n")
	}
	return b.String()
}
