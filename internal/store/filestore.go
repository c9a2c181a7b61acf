package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/taskplan/internal/errors"
	"github.com/felixgeelhaar/taskplan/internal/plan"
)

// FileStore implements Store with one JSON file per plan under a data
// directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-based plan store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the store's data directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(id PlanID) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.json", id))
}

// Save persists a plan under a fresh uuid and returns the id.
func (s *FileStore) Save(ctx context.Context, p *plan.Plan) (PlanID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p == nil {
		return "", errors.New(errors.ErrCodeStoreIO, "plan is nil")
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", errors.Wrap(errors.ErrCodeStoreIO, "create store directory", err)
	}

	rec := Record{
		ID:        PlanID(uuid.NewString()),
		Goal:      p.Goal,
		Deadline:  p.Deadline,
		Plan:      p,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStoreIO, "marshal plan record", err)
	}

	// Write to a temp file first so a crash never leaves a torn record.
	tmp := s.path(rec.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return "", errors.Wrap(errors.ErrCodeStoreIO, "write plan record", err)
	}
	if err := os.Rename(tmp, s.path(rec.ID)); err != nil {
		os.Remove(tmp) //nolint:errcheck
		return "", errors.Wrap(errors.ErrCodeStoreIO, "finalize plan record", err)
	}

	return rec.ID, nil
}

// Load retrieves a saved plan by id.
func (s *FileStore) Load(ctx context.Context, id PlanID) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewPlanNotFoundError(id.String())
		}
		return nil, errors.Wrap(errors.ErrCodeStoreIO, "read plan record", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreCorrupt, fmt.Sprintf("plan record %s is corrupt", id), err)
	}
	return &rec, nil
}

// List returns summaries of all saved plans, newest first. Corrupt records
// are skipped rather than failing the whole listing.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Summary{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeStoreIO, "read store directory", err)
	}

	summaries := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		rec, err := s.Load(ctx, PlanID(strings.TrimSuffix(name, ".json")))
		if err != nil {
			continue
		}

		summary := Summary{
			ID:        rec.ID,
			Goal:      rec.Goal,
			Deadline:  rec.Deadline,
			CreatedAt: rec.CreatedAt,
		}
		if rec.Plan != nil {
			summary.TaskCount = rec.Plan.TaskCount()
			summary.TotalDuration = rec.Plan.TotalDuration
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
		}
		return summaries[i].ID < summaries[j].ID
	})
	return summaries, nil
}

// Delete removes a saved plan.
func (s *FileStore) Delete(ctx context.Context, id PlanID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return errors.NewPlanNotFoundError(id.String())
		}
		return errors.Wrap(errors.ErrCodeStoreIO, "delete plan record", err)
	}
	return nil
}
