package plan

import (
	"github.com/felixgeelhaar/taskplan/internal/domain"
)

// CriticalPath computes the longest-duration dependency chain through the
// graph and marks its members on the task slice.
//
// Earliest finish of a task is its duration plus the maximum earliest finish
// among its dependencies. The critical path ends at the task with the
// largest earliest finish overall and is reconstructed backwards through the
// dependency that determined each maximum. Ties are broken toward the
// predecessor with the larger duration, then the lexicographically smaller
// id; a tie for the overall endpoint goes to the smaller id. The returned
// total is the endpoint's earliest finish.
func CriticalPath(tasks []Task, g *Graph) ([]domain.TaskID, float64) {
	n := g.Len()
	if n == 0 {
		return nil, 0
	}

	finish := make([]float64, n)
	via := make([]int, n) // dependency that set the max, -1 for sources

	for _, i := range g.TopologicalOrder() {
		best := -1
		var bestFinish float64
		for _, p := range g.Deps(i) {
			if better(tasks, finish, p, best, bestFinish) {
				best = p
				bestFinish = finish[p]
			}
		}
		via[i] = best
		finish[i] = tasks[i].Duration + bestFinish
	}

	end := 0
	for i := 1; i < n; i++ {
		if finish[i] > finish[end] {
			end = i
		}
	}

	var rev []int
	for i := end; i != -1; i = via[i] {
		rev = append(rev, i)
	}

	path := make([]domain.TaskID, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		idx := rev[i]
		path = append(path, g.ID(idx))
		tasks[idx].OnCriticalPath = true
	}
	return path, finish[end]
}

// better reports whether predecessor p should replace the current best
// predecessor under the earliest-finish / duration / id tie-break chain.
func better(tasks []Task, finish []float64, p, best int, bestFinish float64) bool {
	if best == -1 {
		return true
	}
	if finish[p] != bestFinish {
		return finish[p] > bestFinish
	}
	if tasks[p].Duration != tasks[best].Duration {
		return tasks[p].Duration > tasks[best].Duration
	}
	return tasks[p].ID.Less(tasks[best].ID)
}
