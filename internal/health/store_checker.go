package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// StoreChecker verifies the plan store's data directory is usable: it must
// exist (or be creatable) and be writable.
type StoreChecker struct {
	dir string
}

// NewStoreChecker creates a checker for the given store directory.
func NewStoreChecker(dir string) *StoreChecker {
	return &StoreChecker{dir: dir}
}

// Name returns the name of this health check.
func (c *StoreChecker) Name() string {
	return "plan-store"
}

// Check verifies the data directory exists and is writable by creating and
// removing a probe file.
func (c *StoreChecker) Check(ctx context.Context) *Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("check canceled").WithDetail("error", err.Error())
	}

	info, err := os.Stat(c.dir)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(c.dir, 0755); err != nil {
			return Unhealthy(fmt.Sprintf("store directory %s cannot be created", c.dir)).
				WithDetail("error", err.Error())
		}
	case err != nil:
		return Unhealthy(fmt.Sprintf("store directory %s is not accessible", c.dir)).
			WithDetail("error", err.Error())
	case !info.IsDir():
		return Unhealthy(fmt.Sprintf("store path %s is not a directory", c.dir))
	}

	probe := filepath.Join(c.dir, ".health")
	if err := os.WriteFile(probe, []byte("ok"), 0600); err != nil {
		return Unhealthy(fmt.Sprintf("store directory %s is not writable", c.dir)).
			WithDetail("error", err.Error())
	}
	os.Remove(probe) //nolint:errcheck

	return Healthy("plan store is writable").WithDetail("dir", c.dir)
}
