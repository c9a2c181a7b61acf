package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/taskplan/internal/errors"
)

// taskFile is the on-disk shape accepted by LoadRawTasks.
type taskFile struct {
	Goal     string    `json:"goal" yaml:"goal"`
	Deadline string    `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	Tasks    []RawTask `json:"tasks" yaml:"tasks"`
}

// LoadRawTasks reads a hand-written task file as an alternative to LLM
// decomposition. JSON files are decoded as JSON; anything else is treated as
// YAML. The tasks come back unvalidated, ready for Build.
func LoadRawTasks(path string) (goal, deadline string, tasks []RawTask, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", nil, errors.Wrap(errors.ErrCodeFileReadFailed, "read task file", err)
	}

	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}

	var tf taskFile
	if format == "json" {
		err = json.Unmarshal(data, &tf)
	} else {
		err = yaml.Unmarshal(data, &tf)
	}
	if err != nil {
		return "", "", nil, errors.NewFileUnmarshalError(path, format, err)
	}

	return tf.Goal, tf.Deadline, tf.Tasks, nil
}

// SavePlan writes a plan as indented JSON, creating parent directories as
// needed.
func SavePlan(p *Plan, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("create directory %s", dir), err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileMarshal, "marshal plan", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("write plan file %s", path), err)
	}
	return nil
}

// LoadPlan reads a plan previously written by SavePlan.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("read plan file %s", path), err)
	}

	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.NewFileUnmarshalError(path, "json", err)
	}
	return &p, nil
}
