package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Confirm displays a warning box on out and reads one line from in. It
// returns true only when the user types "yes".
func Confirm(in io.Reader, out io.Writer, title string, warnings []string) bool {
	width := GetTerminalWidth()

	lines := []string{"", WarningTitleStyle.Render(fmt.Sprintf("   %s  WARNING  ─  %s", WarningMarker, title)), ""}
	for _, w := range warnings {
		lines = append(lines, ResultValueStyle.Render("   • "+w))
	}
	lines = append(lines, "")

	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(WarningColor).
		Width(width-2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))

	_, _ = fmt.Fprintln(out, box)
	_, _ = fmt.Fprint(out, WarningTitleStyle.Render(`Type "yes" to continue: `))

	input, err := bufio.NewReader(in).ReadString('\n')
	_, _ = fmt.Fprintln(out)
	if err != nil && input == "" {
		return false
	}

	if strings.TrimSpace(input) == "yes" {
		return true
	}
	_, _ = fmt.Fprintln(out, MutedStyle.Render("  Operation cancelled."))
	return false
}

// ConfirmSubscriptionChange asks before touching a live audio route.
func ConfirmSubscriptionChange(in io.Reader, out io.Writer, address string, rxChannel int) bool {
	return Confirm(in, out, "CLEAR SUBSCRIPTION", []string{
		fmt.Sprintf("Rx channel %d on %s will stop receiving audio", rxChannel, address),
		"Anything routed through this channel goes silent immediately",
	})
}
