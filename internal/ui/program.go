package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/netaudio/internal/dante"
	"github.com/muurk/netaudio/internal/device"
)

// Subscriber registers an event handler and returns its removal function.
// dante.Client.Subscribe satisfies it.
type Subscriber func(fn dante.Handler) func()

// RunWatch runs the watch table until the user quits or ctx is cancelled.
func RunWatch(ctx context.Context, subscribe Subscriber, initial []device.Device) error {
	p := tea.NewProgram(NewWatchModel(initial), tea.WithOutput(os.Stdout), tea.WithAltScreen())

	unsubscribe := subscribe(func(ev dante.Event) {
		p.Send(EventMsg(ev))
	})
	defer unsubscribe()

	stop := context.AfterFunc(ctx, p.Quit)
	defer stop()

	_, err := p.Run()
	return err
}

// RunScan shows discovery progress for timeout. It reports whether the
// user interrupted the scan.
func RunScan(ctx context.Context, subscribe Subscriber, label string, timeout time.Duration) (bool, error) {
	p := tea.NewProgram(NewScanModel(label, timeout), tea.WithOutput(os.Stdout))

	unsubscribe := subscribe(func(ev dante.Event) {
		if ev.Name == dante.EventGotDevice && ev.Changed {
			p.Send(DeviceFoundMsg{Address: ev.Device.Address})
		}
	})
	defer unsubscribe()

	stop := context.AfterFunc(ctx, p.Quit)
	defer stop()

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	if m, ok := final.(ScanModel); ok {
		return m.Interrupted, nil
	}
	return false, nil
}

// Printer writes styled output to a writer.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Width returns the terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params ...Param) {
	p.Println(NewHeader(title, command, params...).SetWidth(p.width).Render())
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Param) {
	p.Println(NewSuccessResult(title, details...).SetWidth(p.width).Render())
}

// PrintFailure prints a failure result box
func (p *Printer) PrintFailure(title string, err error) {
	p.Println(NewFailureResult(title, err).SetWidth(p.width).Render())
}

// PrintDevice prints a device with its channels
func (p *Printer) PrintDevice(d device.Device) {
	p.Println(RenderDevice(d))
}

// PrintDeviceCompact prints a device on one line
func (p *Printer) PrintDeviceCompact(d device.Device) {
	p.Println(RenderDeviceCompact(d))
}
