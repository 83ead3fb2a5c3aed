package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// deletePrompt asks whether an entry should be removed. It shows enough of
// the entry to recognise it; anything but y cancels.
type deletePrompt struct {
	view   EntryView
	theme  Theme
	answer *bool
}

func (p deletePrompt) Init() tea.Cmd { return nil }

func (p deletePrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	var yes bool
	switch strings.ToLower(key.String()) {
	case "y":
		yes = true
	case "n", "q", "enter", "esc", "ctrl+c":
	default:
		return p, nil
	}
	p.answer = &yes
	return p, tea.Quit
}

func (p deletePrompt) View() string {
	if p.answer != nil {
		return ""
	}
	e := p.view.Entry
	var b strings.Builder
	b.WriteString(p.theme.HeaderStyle().Render(fmt.Sprintf("Entry %d  %s  %s", e.ID, e.DateKey(), moodOrDash(e.Mood))))
	b.WriteString("\n")
	b.WriteString(p.theme.MutedStyle().Render(fmt.Sprintf("%s  (photos: %d, stickers: %d)", e.Preview(60), p.view.Photos, p.view.Stickers)))
	b.WriteString("\n\n")
	b.WriteString("Delete this entry? It cannot be undone. ")
	b.WriteString(p.theme.DangerStyle().Render("[y/N]"))
	b.WriteString(" ")
	return b.String()
}

// ConfirmDelete asks on the terminal before an entry is deleted.
func ConfirmDelete(v EntryView, theme Theme) (bool, error) {
	return ConfirmDeleteWith(os.Stdin, os.Stdout, v, theme)
}

// ConfirmDeleteWith is ConfirmDelete reading keys from in and drawing to out.
func ConfirmDeleteWith(in io.Reader, out io.Writer, v EntryView, theme Theme) (bool, error) {
	final, err := tea.NewProgram(deletePrompt{view: v, theme: theme}, tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return false, err
	}
	p := final.(deletePrompt)
	return p.answer != nil && *p.answer, nil
}
