// Package ui renders netaudio-ctl output with Lipgloss and Bubble Tea.
//
// Most commands print once and exit: a header, a device listing or a
// result box. Two commands are interactive:
//
//   - devices shows a ScanModel progress bar while discovery runs
//   - watch shows a WatchModel table that follows client events
//
// Both models are plain tea.Model values fed through Program.Send, so they
// are tested by calling Update directly.
//
// # Terminal Detection
//
// IsTerminal decides whether interactive models are used at all. When
// stdout is redirected, commands fall back to line-oriented output.
//
// # Logging Integration
//
// Logging is controlled by NETAUDIO_LOG_LEVEL or --log-level. When unset,
// zap is silent so the styled output stays clean.
package ui
