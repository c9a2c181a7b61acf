package plan

import (
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"
)

// Canonicalize returns a canonical JSON representation of a plan with stable
// key ordering for consistent hashing. Creation time and the fingerprint
// itself are excluded so that equal inputs always hash equal.
func Canonicalize(p *Plan) ([]byte, error) {
	tasks := make([]map[string]any, len(p.Tasks))
	for i, t := range p.Tasks {
		tm := map[string]any{
			"id":       t.ID.String(),
			"title":    t.Title,
			"desc":     t.Description,
			"duration": t.Duration,
			"phase":    t.Phase.String(),
			"priority": t.Priority.String(),
			"critical": t.OnCriticalPath,
		}
		if len(t.DependencyIDs) > 0 {
			deps := make([]string, len(t.DependencyIDs))
			for j, dep := range t.DependencyIDs {
				deps[j] = dep.String()
			}
			tm["deps"] = deps
		}
		tasks[i] = tm
	}

	path := make([]string, len(p.CriticalPath))
	for i, id := range p.CriticalPath {
		path[i] = id.String()
	}

	data := map[string]any{
		"goal":           p.Goal,
		"tasks":          tasks,
		"critical_path":  path,
		"total_duration": p.TotalDuration,
	}
	if p.Deadline != "" {
		data["deadline"] = p.Deadline
	}

	// encoding/json sorts map keys, and task order is already canonical.
	return json.Marshal(data)
}

// Fingerprint computes the blake3 hash of the canonicalized plan.
func Fingerprint(p *Plan) (string, error) {
	canonical, err := Canonicalize(p)
	if err != nil {
		return "", fmt.Errorf("canonicalize plan: %w", err)
	}

	hasher := blake3.New()
	if _, err := hasher.Write(canonical); err != nil {
		return "", fmt.Errorf("hash plan: %w", err)
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
