package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldPromptDisabledInCI(t *testing.T) {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"}

	for _, v := range ciVars {
		t.Run(v, func(t *testing.T) {
			t.Setenv(v, "true")
			assert.False(t, ShouldPrompt())
		})
	}
}

func TestShouldPromptWithoutTerminal(t *testing.T) {
	// Test binaries run with stdin on /dev/null, which is a character
	// device but not a terminal. Prompting must stay off here so batch
	// runs get the missing-flag error instead of a hung wizard.
	assert.False(t, IsInteractive())
	assert.False(t, ShouldPrompt())
}

func TestPromptForSelectRequiresOptions(t *testing.T) {
	_, err := PromptForSelect("pick one", nil)
	assert.Error(t, err)
}
