package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Opener implements ports.EditorOpener
type Opener struct{}

// NewOpener creates a new editor opener
func NewOpener() *Opener {
	return &Opener{}
}

// Command returns an exec.Cmd for opening a file in the editor
// This is useful for integrating with bubbletea's ExecProcess
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	editor := o.findEditor()
	if editor == "" {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	// $EDITOR may carry flags, e.g. "code --wait"
	fields := strings.Fields(editor)
	cmd := exec.Command(fields[0], append(fields[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// findEditor returns the editor to use
func (o *Opener) findEditor() string {
	if editor := strings.TrimSpace(os.Getenv("EDITOR")); editor != "" {
		return editor
	}

	if visual := strings.TrimSpace(os.Getenv("VISUAL")); visual != "" {
		return visual
	}

	editors := []string{"nvim", "vim", "vi", "nano"}
	for _, editor := range editors {
		if path, err := exec.LookPath(editor); err == nil {
			return path
		}
	}

	return ""
}

// MessageFile is a temporary file holding a message while it is edited
type MessageFile struct {
	Path string
}

// WriteMessageFile stores text in a fresh temporary file
func WriteMessageFile(text string) (*MessageFile, error) {
	f, err := os.CreateTemp("", "flowbuilder-message-*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to create message file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(text); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write message file: %w", err)
	}
	return &MessageFile{Path: f.Name()}, nil
}

// ReadAndRemove returns the edited text without the trailing newline editors
// append, and deletes the file
func (m *MessageFile) ReadAndRemove() (string, error) {
	defer os.Remove(m.Path)

	b, err := os.ReadFile(m.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read message file: %w", err)
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}
