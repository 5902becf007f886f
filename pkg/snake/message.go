package snake

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/manifoldco/promptui"
)

// PromptMessage asks for a comment message, prefilled with def. Messages must
// be non-empty and at most limit runes (no limit when limit <= 0).
func PromptMessage(in io.Reader, out io.Writer, label, def string, limit int) (string, error) {
	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }} : ",
		Valid:   "{{ . | green }} : ",
		Invalid: "{{ . | red }} : ",
		Success: "{{ . | bold }} : ",
	}

	prompt := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: def != "",
		Templates: templates,
		Validate:  ValidateMessage(limit),
		Stdin:     io.NopCloser(in),
		Stdout:    NopCloser(out),
	}

	result, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("snake: prompt failed: %w", err)
	}
	return strings.TrimSpace(result), nil
}

// ValidateMessage returns the check PromptMessage applies to input.
func ValidateMessage(limit int) func(string) error {
	return func(input string) error {
		input = strings.TrimSpace(input)
		if input == "" {
			return errors.New("empty")
		}
		if limit > 0 && utf8.RuneCountInString(input) > limit {
			return fmt.Errorf("too long (max %d)", limit)
		}
		return nil
	}
}
