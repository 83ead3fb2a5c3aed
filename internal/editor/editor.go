// Package editor composes entry text in the user's $EDITOR.
package editor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// HintPrefix marks lines that are shown in the editor but dropped from the
// saved text.
const HintPrefix = "#:"

// ResolveEditor determines which editor to use based on config, env vars, and fallback.
func ResolveEditor(configEditor string) string {
	if configEditor != "" {
		return configEditor
	}
	if ed := os.Getenv("EDITOR"); ed != "" {
		return ed
	}
	if ed := os.Getenv("VISUAL"); ed != "" {
		return ed
	}
	return "vi"
}

// Editor runs an external editor command against a temp file.
type Editor struct {
	Command string
	// TempDir holds the scratch file; "" uses the system default.
	TempDir string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// New returns an Editor attached to the process's terminal.
func New(command string) *Editor {
	return &Editor{Command: command, Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Edit opens initial in the editor and returns the edited text with hint
// lines removed. changed is false when the result is empty or matches
// initial once hints are stripped.
func (e *Editor) Edit(initial string) (content string, changed bool, err error) {
	tmp, err := os.CreateTemp(e.TempDir, "moodiary-*.md")
	if err != nil {
		return "", false, fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(initial); err != nil {
		tmp.Close()
		return "", false, fmt.Errorf("writing temp file: %w", err)
	}
	tmp.Close()

	parts := strings.Fields(e.Command)
	if len(parts) == 0 {
		return "", false, fmt.Errorf("empty editor command")
	}

	cmd := exec.Command(parts[0], append(parts[1:], tmpName)...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if err := cmd.Run(); err != nil {
		return "", false, fmt.Errorf("editor exited with error: %w", err)
	}

	data, err := os.ReadFile(tmpName)
	if err != nil {
		return "", false, fmt.Errorf("reading edited file: %w", err)
	}

	result := strings.TrimSpace(StripHints(string(data)))
	if result == "" {
		return "", false, nil
	}
	if result == strings.TrimSpace(StripHints(initial)) {
		return result, false, nil
	}
	return result, true, nil
}

// StripHints removes every line beginning with HintPrefix.
func StripHints(s string) string {
	var b strings.Builder
	sc := bufio.NewScanner(strings.NewReader(s))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	first := true
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, HintPrefix) {
			continue
		}
		if !first {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		first = false
	}
	return b.String()
}

// Template builds the initial buffer for a new entry on date.
func Template(date, body string) string {
	return fmt.Sprintf("%s\n\n%s Writing the entry for %s.\n%s Lines starting with %q are ignored; an empty file cancels.\n",
		body, HintPrefix, date, HintPrefix, HintPrefix)
}
