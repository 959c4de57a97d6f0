package clipboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

var ErrUnavailable = errors.New("no clipboard command available")

const copyTimeout = 4 * time.Second

// Tool is a clipboard writer that reads the text from stdin.
type Tool struct {
	Name string
	Path string
	Args []string
	// Detach hands the text over and leaves the process running; xclip keeps
	// serving the selection until another client takes ownership.
	Detach bool
}

var candidates = map[string][]Tool{
	"darwin": {{Name: "pbcopy"}},
	"linux": {
		{Name: "wl-copy"},
		{Name: "xclip", Args: []string{"-selection", "clipboard", "-in", "-silent"}, Detach: true},
		{Name: "xsel", Args: []string{"--clipboard", "--input"}},
	},
}

// Detect returns the first clipboard tool for goos that lookPath can find.
func Detect(goos string, lookPath func(string) (string, error)) (Tool, error) {
	for _, tool := range candidates[goos] {
		path, err := lookPath(tool.Name)
		if err != nil {
			continue
		}
		tool.Path = path
		return tool, nil
	}
	return Tool{}, ErrUnavailable
}

// CopyText places text on the system clipboard.
func CopyText(ctx context.Context, text string) error {
	tool, err := Detect(runtime.GOOS, exec.LookPath)
	if err != nil {
		return err
	}
	return tool.Copy(ctx, text)
}

func (t Tool) Copy(ctx context.Context, text string) error {
	if t.Detach {
		return t.copyDetached(text)
	}

	copyCtx, cancel := context.WithTimeout(ctx, copyTimeout)
	defer cancel()

	cmd := exec.CommandContext(copyCtx, t.Path, t.Args...)
	cmd.Stdin = strings.NewReader(text)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		if errors.Is(copyCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%s timed out: %w", t.Name, copyCtx.Err())
		}
		return fmt.Errorf("%s: %w", t.Name, err)
	}
	return nil
}

func (t Tool) copyDetached(text string) error {
	cmd := exec.Command(t.Path, t.Args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open %s stdin: %w", t.Name, err)
	}
	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return fmt.Errorf("start %s: %w", t.Name, err)
	}

	_, writeErr := io.WriteString(stdin, text)
	closeErr := stdin.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("send text to %s: %w", t.Name, err)
	}

	_ = cmd.Process.Release()
	return nil
}
