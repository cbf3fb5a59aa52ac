package cli

import (
	"io"
	"strings"

	"github.com/fatih/color"
)

// Printer writes user-facing text to stdout.
type Printer struct {
	Out   io.Writer
	TTY   bool
	Color bool
	Width int // terminal columns; 0 disables wrapping
}

func (p Printer) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// Echo repeats the user's input framed with "| ". It prints nothing when
// stdout is not a terminal.
func (p Printer) Echo(message string) {
	if !p.TTY {
		return
	}
	italic := p.paint(color.Italic)
	for _, long := range strings.Split(message, "\n") {
		if strings.TrimSpace(long) == "" {
			io.WriteString(p.Out, "|\n")
			continue
		}
		for _, line := range Wrap(long, p.Width-3) {
			io.WriteString(p.Out, "| ")
			italic.Fprint(p.Out, line)
			io.WriteString(p.Out, "\n")
		}
	}
}

// Review prints a rating line by line: red for lines mentioning "meh", green
// otherwise. It reports whether the whole review is free of "meh".
func (p Printer) Review(review string) bool {
	ok, bad := p.paint(color.FgGreen), p.paint(color.FgRed)
	for _, line := range strings.Split(review, "\n") {
		if isOK(line) {
			ok.Fprintln(p.Out, line)
		} else {
			bad.Fprintln(p.Out, line)
		}
	}
	return isOK(review)
}

// Plain prints text unchanged, followed by a newline.
func (p Printer) Plain(text string) {
	io.WriteString(p.Out, text+"\n")
}

func isOK(text string) bool {
	return !strings.Contains(strings.ToLower(text), "meh")
}

// Wrap breaks line into chunks of at most width columns at whitespace. Words
// longer than width are split. width <= 0 returns line as is.
func Wrap(line string, width int) []string {
	if width <= 0 || len([]rune(line)) <= width {
		return []string{line}
	}
	var out []string
	var cur []rune
	for _, word := range strings.Fields(line) {
		w := []rune(word)
		for len(w) > width {
			if len(cur) > 0 {
				out = append(out, string(cur))
				cur = nil
			}
			out = append(out, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = append(cur, w...)
		case len(cur)+1+len(w) <= width:
			cur = append(append(cur, ' '), w...)
		default:
			out = append(out, string(cur))
			cur = append([]rune(nil), w...)
		}
	}
	if len(cur) > 0 {
		out = append(out, string(cur))
	}
	return out
}
