package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/felixgeelhaar/countdown/internal/duration"
)

// CountdownInput is what the user typed into the prompt
type CountdownInput struct {
	Input    string
	Duration duration.Duration
	Title    string
}

// PromptForCountdown asks for a duration and a title. The duration field
// refuses anything Parse rejects.
func PromptForCountdown(defaultTitle string) (CountdownInput, error) {
	var input string
	title := defaultTitle

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Duration").
			Description("e.g. 25m, 1h30m, 90s").
			Placeholder("25m").
			Value(&input).
			Validate(validateDuration),
		huh.NewInput().
			Title("Title").
			Placeholder(defaultTitle).
			Value(&title),
	))

	if err := form.Run(); err != nil {
		return CountdownInput{}, fmt.Errorf("prompt failed: %w", err)
	}

	d, err := duration.Parse(input)
	if err != nil {
		return CountdownInput{}, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultTitle
	}
	return CountdownInput{Input: strings.TrimSpace(input), Duration: d, Title: title}, nil
}

func validateDuration(s string) error {
	_, err := duration.Parse(s)
	return err
}

// IsInteractive returns true if stdin and stdout are terminals
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// ShouldPrompt returns true if prompts should be shown based on environment
// Prompts are disabled in CI environments or when stdin is not a terminal
func ShouldPrompt() bool {
	ciEnvVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_URL",
		"TRAVIS",
		"CIRCLECI",
		"BUILDKITE",
	}

	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return false
		}
	}

	return IsInteractive()
}
