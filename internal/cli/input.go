package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"sllm/internal/execx"
)

// StripComments drops lines starting with '#', right-trims the rest and
// trims the result, the way git cleans up a commit message.
func StripComments(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		b.WriteString(strings.TrimRight(line, " \t\r"))
		b.WriteByte('\n')
	}
	return strings.TrimSpace(b.String())
}

// readCommitFile reads a commit message file such as .git/COMMIT_EDITMSG.
func readCommitFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read message: %w", err)
	}
	return StripComments(string(b)), nil
}

// readRef reads the message of an existing commit.
func (a *App) readRef(ctx context.Context, ref string) (string, error) {
	res, err := a.Runner.Run(ctx, execx.Cmd{Path: "git", Args: []string{"show", "--format=%B", "--no-patch", ref}})
	if err != nil {
		if execx.IsExitError(err) {
			a.Log.Error().Msgf("Got %d from 'git show': %s", execx.ExitCode(err), strings.TrimSpace(res.Stderr))
			return "", errors.New("could not read reference")
		}
		return "", fmt.Errorf("git show: %w", err)
	}
	return strings.TrimSpace(res.Stdout), nil
}

func readAll(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(b), nil
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(b), nil
}

// readEditor opens $EDITOR on an empty temporary file and returns what the
// user saved.
func (a *App) readEditor(ctx context.Context) (string, error) {
	editor := strings.TrimSpace(a.Getenv("EDITOR"))
	if editor == "" {
		return "", errors.New("no $EDITOR is set")
	}
	f, err := os.CreateTemp("", "sllm-*.txt")
	if err != nil {
		return "", err
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)
	if err := a.Edit(ctx, editor, path); err != nil {
		return "", fmt.Errorf("editor %s: %w", editor, err)
	}
	return readFile(path)
}

// runEditor hands the terminal to the editor until it exits. EDITOR may carry
// arguments ("code --wait").
func runEditor(ctx context.Context, editor, path string) error {
	parts := strings.Fields(editor)
	cmd := exec.CommandContext(ctx, parts[0], append(parts[1:], path)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	return cmd.Run()
}
