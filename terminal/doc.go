// Package terminal provides the raw-mode terminal driver the editor draws through.
//
// Features:
//   - Raw mode bracket over golang.org/x/term with guaranteed restore (Run)
//   - Deferred command buffer made visible only by an explicit Execute
//   - Live viewport size queries, never cached for layout
//   - Incremental stdin decoding: CSI/SS3 sequences, control bytes, UTF-8,
//     kitty keyboard protocol press/repeat/release reporting
//   - A tcell-backed driver sharing the same command protocol
//   - EmergencyReset for crash paths
//
// Escape sequences are produced with github.com/charmbracelet/x/ansi.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
