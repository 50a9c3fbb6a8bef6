// pkg/interaction/prompt.go

package interaction

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"
)

const (
	DefaultYesPrompt = "Y/n"
	DefaultNoPrompt  = "y/N"
)

// IsTTY reports whether stdin is an interactive terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// PromptYesNo asks a yes/no question and returns true/false. Falls
// back to the default when stdin is not a terminal or the answer is
// unknown.
func PromptYesNo(prompt string, defaultYes bool) bool {
	if !IsTTY() {
		zap.L().Debug("No terminal for prompt, applying default",
			zap.String("prompt", prompt), zap.Bool("default_yes", defaultYes))
		return defaultYes
	}

	defPrompt := DefaultYesPrompt
	if !defaultYes {
		defPrompt = DefaultNoPrompt
	}
	label := fmt.Sprintf("%s [%s]", prompt, defPrompt)

	reader := bufio.NewReader(os.Stdin)
	input, err := ReadLine(reader, label)
	if err != nil {
		zap.L().Error("Failed to read yes/no input", zap.Error(err))
		return defaultYes
	}

	if answer, ok := NormalizeYesNoInput(input); ok {
		return answer
	}

	zap.L().Info("ℹ️ Default applied", zap.String("prompt", prompt), zap.Bool("default_yes", defaultYes))
	return defaultYes
}

// ReadLine prompts on stderr and reads one line. Stdout stays clean
// for automation.
func ReadLine(reader *bufio.Reader, label string) (string, error) {
	_, _ = fmt.Fprint(os.Stderr, label+": ")

	text, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// NormalizeYesNoInput parses a yes/no answer. The second return is
// false when the input is neither.
func NormalizeYesNoInput(input string) (bool, bool) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "y" || input == "yes" {
		return true, true
	}
	if input == "n" || input == "no" {
		return false, true
	}
	return false, false
}
