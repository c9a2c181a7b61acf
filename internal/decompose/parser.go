package decompose

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/taskplan/internal/errors"
	"github.com/felixgeelhaar/taskplan/internal/plan"
)

// defaultDuration is applied when the model omits a duration or writes one
// that cannot be read, matching the "1-2 days" fallback the prompt implies.
const defaultDuration = 1.5

// rawPlan is the loose top-level shape the model returns.
type rawPlan struct {
	Goal  string        `json:"goal"`
	Tasks []rawTaskWire `json:"tasks"`
}

// rawTaskWire tolerates the type drift LLMs produce: numeric or string ids,
// numeric or prose durations, mixed-type dependency lists.
type rawTaskWire struct {
	ID           json.RawMessage   `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Duration     json.RawMessage   `json:"duration"`
	Dependencies []json.RawMessage `json:"dependencies"`
	Priority     string            `json:"priority"`
	Phase        string            `json:"phase"`
}

// ParseTasks decodes the model's JSON into raw tasks for the planning
// pipeline. It accepts either {"tasks": [...]} or a bare task array,
// normalizes ids and durations, and applies the standard defaults for
// missing fields. Structural validation is left to the pipeline.
func ParseTasks(content string) ([]plan.RawTask, error) {
	content = stripCodeFence(content)

	var rp rawPlan
	if err := json.Unmarshal([]byte(content), &rp); err != nil {
		var bare []rawTaskWire
		if arrErr := json.Unmarshal([]byte(content), &bare); arrErr != nil {
			return nil, fmt.Errorf("decode task breakdown: %w", err)
		}
		rp.Tasks = bare
	}

	tasks := make([]plan.RawTask, 0, len(rp.Tasks))
	for i, w := range rp.Tasks {
		id := decodeID(w.ID)
		if id == "" {
			id = strconv.Itoa(i + 1)
		}

		deps := make([]string, 0, len(w.Dependencies))
		for _, d := range w.Dependencies {
			if dep := decodeID(d); dep != "" {
				deps = append(deps, dep)
			}
		}

		priority := w.Priority
		if priority == "" {
			priority = "medium"
		}
		phase := w.Phase
		if phase == "" {
			phase = "execution"
		}

		tasks = append(tasks, plan.RawTask{
			ID:            id,
			Title:         w.Title,
			Description:   w.Description,
			Duration:      decodeDuration(w.Duration),
			DependencyIDs: deps,
			PhaseHint:     phase,
			PriorityHint:  priority,
		})
	}
	return tasks, nil
}

// ParseResponse is ParseTasks with the provider name attached to decode
// failures.
func ParseResponse(providerName, content string) ([]plan.RawTask, error) {
	tasks, err := ParseTasks(content)
	if err != nil {
		return nil, errors.NewProviderParseError(providerName, err)
	}
	return tasks, nil
}

// decodeID reads an id that may be a JSON string or number.
func decodeID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n == float64(int64(n)) {
			return strconv.FormatInt(int64(n), 10)
		}
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return ""
}

var durationPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)(?:\s*-\s*(\d+(?:\.\d+)?))?\s*(hour|day|week|month)?`)

// decodeDuration reads a duration that may be a JSON number (days) or a
// prose estimate like "2 days", "1 week", or "1-2 days" (midpoint). Anything
// unreadable falls back to the default.
func decodeDuration(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return defaultDuration
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return defaultDuration
	}

	m := durationPattern.FindStringSubmatch(s)
	if m == nil || m[1] == "" {
		return defaultDuration
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return defaultDuration
	}
	if m[2] != "" {
		if upper, err := strconv.ParseFloat(m[2], 64); err == nil {
			value = (value + upper) / 2
		}
	}

	switch strings.ToLower(m[3]) {
	case "hour":
		value /= 24
	case "week":
		value *= 7
	case "month":
		value *= 30
	}
	return value
}

// stripCodeFence removes a markdown ```json fence if the model wrapped its
// output in one.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
