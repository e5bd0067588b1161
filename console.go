package dualog

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Console foreground colors, as basic ANSI palette indexes.
var (
	ColorError = lipgloss.Color("1") // Red
	ColorWarn  = lipgloss.Color("3") // Yellow
)

// console writes one styled line per accepted message. Styling only affects
// what is written here; the file sink receives the unstyled line.
type console struct {
	out    io.Writer
	styles map[Severity]lipgloss.Style
}

func newConsole(out io.Writer, profile *termenv.Profile) *console {
	r := lipgloss.NewRenderer(out)
	if profile != nil {
		r.SetColorProfile(*profile)
	}
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return &console{
		out: out,
		styles: map[Severity]lipgloss.Style{
			ErrorIssuer: base.Foreground(ColorError),
			WarnIssuer:  base.Foreground(ColorWarn),
		},
	}
}

// render styles line for level. Multi-line messages are styled line by line
// so no padding is introduced.
func (c *console) render(level Severity, line string) string {
	style, ok := c.styles[level]
	if !ok {
		return line
	}
	parts := strings.Split(line, "\n")
	for i, p := range parts {
		if p != "" {
			parts[i] = style.Render(p)
		}
	}
	return strings.Join(parts, "\n")
}

// write sends the rendered line to the console writer with locking if available.
func (c *console) write(level Severity, line string) error {
	s := c.render(level, line) + "\n"
	if lock, ok := c.out.(locker); ok {
		lock.Lock()
		defer lock.Unlock()
	}
	_, err := io.WriteString(c.out, s)
	return err
}
