// Package snake holds the interactive prompts of the CLI.
package snake

import (
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/rytisguru/nested-comments/pkg/comment"
	"github.com/rytisguru/nested-comments/pkg/tree"
)

// Choice is one selectable comment, flattened with its depth in the thread.
type Choice struct {
	ID      string
	Indent  string
	Author  string
	Message string
}

// Choices flattens the thread depth first so the prompt reads like the tree.
func Choices(ix tree.Index) []Choice {
	var out []Choice
	ix.Walk(comment.RootID, func(r comment.Record, depth int) bool {
		out = append(out, Choice{
			ID:      r.ID,
			Indent:  strings.Repeat("  ", depth),
			Author:  r.Author.Name,
			Message: firstLine(r.Message, 60),
		})
		return true
	})
	return out
}

// SelectComment asks the user to pick one of choices and returns its id.
func SelectComment(in io.Reader, out io.Writer, label string, choices []Choice) (string, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("snake: no comments to choose from")
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜ {{ .Indent }}{{ .Author | bold }} {{ .Message | green }}",
		Inactive: "  {{ .Indent }}{{ .Author }} {{ .Message | cyan }}",
		Selected: "{{ .Author | bold }} {{ .Message }}",
		Details: `
--------- Comment ----------
id: {{ .ID }}
`,
	}

	searcher := func(input string, index int) bool {
		c := choices[index]
		name := strings.Replace(strings.ToLower(c.Author+c.Message), " ", "", -1)
		input = strings.Replace(strings.ToLower(input), " ", "", -1)
		return strings.Contains(name, input)
	}

	prompt := promptui.Select{
		HideHelp:  true,
		Label:     label,
		Items:     choices,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
		Stdin:     io.NopCloser(in),
		Stdout:    NopCloser(out),
	}

	i, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("snake: prompt failed: %w", err)
	}
	return choices[i].ID, nil
}

func firstLine(s string, width int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + " …"
	}
	if r := []rune(s); len(r) > width {
		s = string(r[:width-1]) + "…"
	}
	return s
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// NopCloser returns a WriteCloser with a no-op Close method wrapping w.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}
