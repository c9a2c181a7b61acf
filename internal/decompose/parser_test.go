package decompose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskplan/internal/errors"
)

func TestParseTasksObjectForm(t *testing.T) {
	content := `{
  "goal": "Launch the product",
  "tasks": [
    {
      "id": "research",
      "title": "Market research",
      "description": "Survey the market",
      "duration": 3,
      "dependencies": [],
      "priority": "high",
      "phase": "planning"
    },
    {
      "id": "build",
      "title": "Build MVP",
      "duration": "2 weeks",
      "dependencies": ["research"]
    }
  ]
}`

	tasks, err := ParseTasks(content)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, "research", tasks[0].ID)
	assert.Equal(t, 3.0, tasks[0].Duration)
	assert.Equal(t, "high", tasks[0].PriorityHint)
	assert.Equal(t, "planning", tasks[0].PhaseHint)

	assert.Equal(t, "build", tasks[1].ID)
	assert.Equal(t, 14.0, tasks[1].Duration)
	assert.Equal(t, []string{"research"}, tasks[1].DependencyIDs)
	// Missing hints get the standard defaults.
	assert.Equal(t, "medium", tasks[1].PriorityHint)
	assert.Equal(t, "execution", tasks[1].PhaseHint)
}

func TestParseTasksNumericIDs(t *testing.T) {
	content := `{"tasks": [
		{"id": 1, "title": "First", "duration": 1},
		{"id": 2, "title": "Second", "duration": 1, "dependencies": [1]}
	]}`

	tasks, err := ParseTasks(content)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "1", tasks[0].ID)
	assert.Equal(t, []string{"1"}, tasks[1].DependencyIDs)
}

func TestParseTasksBareArray(t *testing.T) {
	content := `[{"id": "a", "title": "A", "duration": 2}]`

	tasks, err := ParseTasks(content)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "a", tasks[0].ID)
}

func TestParseTasksCodeFence(t *testing.T) {
	content := "```json\n{\"tasks\": [{\"id\": \"a\", \"title\": \"A\", \"duration\": 1}]}\n```"

	tasks, err := ParseTasks(content)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
}

func TestParseTasksMissingIDsNumbered(t *testing.T) {
	content := `{"tasks": [
		{"title": "First", "duration": 1},
		{"title": "Second", "duration": 1}
	]}`

	tasks, err := ParseTasks(content)
	require.NoError(t, err)
	assert.Equal(t, "1", tasks[0].ID)
	assert.Equal(t, "2", tasks[1].ID)
}

func TestParseTasksInvalidJSON(t *testing.T) {
	_, err := ParseTasks("the plan is: do everything")
	require.Error(t, err)

	_, err = ParseResponse("groq", "not json at all")
	var perr *errors.PlanError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, errors.ErrCodeProviderParse, perr.Code)
}

func TestDecodeDuration(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"number", `2.5`, 2.5},
		{"days string", `"2 days"`, 2},
		{"singular day", `"1 day"`, 1},
		{"week", `"1 week"`, 7},
		{"two weeks", `"2 weeks"`, 14},
		{"month", `"1 month"`, 30},
		{"hours", `"12 hours"`, 0.5},
		{"range midpoint", `"1-2 days"`, 1.5},
		{"bare number string", `"4"`, 4},
		{"prose fallback", `"a while"`, defaultDuration},
		{"empty string", `""`, defaultDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeDuration([]byte(tt.raw))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("Launch the product", "")
	assert.Contains(t, p, "Goal: Launch the product")
	assert.Contains(t, p, "5-15 tasks")
	assert.NotContains(t, p, "deadline")

	p = BuildPrompt("Launch the product", "2026-10-01")
	assert.Contains(t, p, "with a deadline of 2026-10-01")
}
