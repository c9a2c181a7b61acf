package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// GoalInput holds the answers collected by the goal wizard.
type GoalInput struct {
	Goal     string
	Deadline string
	Provider string
}

// RunGoalWizard runs an interactive form collecting everything needed to
// generate a plan. The provider choice defaults to the configured one.
func RunGoalWizard(defaultProvider string) (*GoalInput, error) {
	in := &GoalInput{Provider: defaultProvider}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("What do you want to accomplish?").
				Placeholder("e.g. Launch a marketing website for the new product").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("goal must not be empty")
					}
					return nil
				}).
				Value(&in.Goal),

			huh.NewInput().
				Title("Deadline (optional)").
				Placeholder("e.g. 2026-10-01 or 'in 6 weeks'").
				Value(&in.Deadline),

			huh.NewSelect[string]().
				Title("LLM provider").
				Options(
					huh.NewOption("Groq", "groq"),
					huh.NewOption("OpenAI", "openai"),
					huh.NewOption("Ollama (local)", "ollama"),
				).
				Value(&in.Provider),
		),
	)

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("goal wizard failed: %w", err)
	}

	in.Goal = strings.TrimSpace(in.Goal)
	in.Deadline = strings.TrimSpace(in.Deadline)

	return in, nil
}
