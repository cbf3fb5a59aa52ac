// Package prompts provides the system prompts of the sllm frontends.
// Prompts are embedded in the binary; a directory may override them by file
// name.
package prompts

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed templates/*.txt
var builtin embed.FS

// Names of the built-in prompts.
const (
	Review    = "review"
	Translate = "translate"
	Implement = "implement"
)

// Prompt is a system prompt together with the markers that frame the user's
// input and the expected answer.
type Prompt struct {
	Name           string
	Text           string
	InputHeader    string
	ResponseHeader string
	Source         string // "builtin" or the override file path
}

var headers = map[string][2]string{
	Review:    {"[Instruction]", "[Review]"},
	Translate: {"[Original]", "[Translation]"},
	Implement: {"", ""},
}

// Load returns the named prompt. When dir is set and contains name+".txt",
// that file replaces the built-in text; headers always come from the
// built-in definition.
func Load(name, dir string) (Prompt, error) {
	h, ok := headers[name]
	if !ok {
		return Prompt{}, fmt.Errorf("unknown prompt %q", name)
	}
	p := Prompt{Name: name, InputHeader: h[0], ResponseHeader: h[1], Source: "builtin"}
	if dir != "" {
		path := filepath.Join(dir, name+".txt")
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			p.Text = string(b)
			p.Source = path
			return p, nil
		case !errors.Is(err, fs.ErrNotExist):
			return Prompt{}, fmt.Errorf("read prompt override: %w", err)
		}
	}
	b, err := builtin.ReadFile("templates/" + name + ".txt")
	if err != nil {
		return Prompt{}, fmt.Errorf("read builtin prompt %q: %w", name, err)
	}
	p.Text = string(b)
	return p, nil
}

// Names lists the built-in prompt names in sorted order.
func Names() []string {
	entries, _ := fs.ReadDir(builtin, "templates")
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), ".txt"))
	}
	sort.Strings(out)
	return out
}
