package agent

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Labels are the speaker prefixes printed before each line.
type Labels struct {
	You   string
	Agent string
	Error string
}

// PlainLabels are used when output is not a terminal.
func PlainLabels() Labels {
	return Labels{You: "You", Agent: "Agent", Error: "Agent error"}
}

var (
	youStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	agentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// LabelsFor returns colored labels when f is a terminal and plain ones
// otherwise, so piped transcripts stay byte-exact.
func LabelsFor(f *os.File) Labels {
	plain := PlainLabels()
	if f == nil || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return plain
	}
	return Labels{
		You:   youStyle.Render(plain.You),
		Agent: agentStyle.Render(plain.Agent),
		Error: errorStyle.Render(plain.Error),
	}
}
