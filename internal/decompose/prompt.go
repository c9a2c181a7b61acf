// Package decompose turns a free-form goal into raw tasks via an LLM
// provider and normalizes the model's output for the planning pipeline.
package decompose

import (
	"fmt"
)

// SystemPrompt frames the model as a planner and pins JSON output.
const SystemPrompt = "You are an expert project manager and task planner. " +
	"Break down goals into actionable tasks with realistic timelines and dependencies. " +
	"Always respond with valid JSON."

// BuildPrompt renders the decomposition prompt for a goal and optional
// deadline.
func BuildPrompt(goal, deadline string) string {
	deadlineText := ""
	if deadline != "" {
		deadlineText = fmt.Sprintf(" with a deadline of %s", deadline)
	}

	return fmt.Sprintf(`Break down the following goal into actionable tasks%s.

Goal: %s

Provide a JSON response with this structure:
{
    "goal": "the original goal",
    "tasks": [
        {
            "id": "short-task-id",
            "title": "task title",
            "description": "detailed description",
            "duration": "estimated duration in days (e.g., 2 or '3 days')",
            "dependencies": ["ids of tasks that must be completed first"],
            "priority": "high|medium|low",
            "phase": "planning|execution|review"
        }
    ]
}

Guidelines:
- Create 5-15 tasks depending on goal complexity
- Be specific and actionable
- Consider realistic timelines
- Identify clear dependencies
- Group tasks into logical phases
- Prioritize tasks appropriately`, deadlineText, goal)
}
