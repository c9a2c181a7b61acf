package plan

import (
	"sort"

	"github.com/felixgeelhaar/taskplan/internal/domain"
)

// Classify assigns a phase and priority to every task that did not carry a
// usable hint. Hinted values always win over the structural fallback.
//
// Phase fallback is positional: tasks with no dependencies open the plan
// (planning), tasks nothing depends on close it (review), everything in
// between is execution. A task that is both a source and a sink is treated
// as planning.
//
// Priority fallback ranks tasks by connectivity: combined fan-in plus
// fan-out, ties broken by longer duration then smaller id, split into three
// equal buckets. The most connected third is high, the middle third medium,
// the rest low.
func Classify(tasks []Task, g *Graph) {
	for i := range tasks {
		if tasks[i].hintedPhase {
			continue
		}
		tasks[i].Phase = fallbackPhase(g, i)
	}

	assignPriorities(tasks, g)
}

func fallbackPhase(g *Graph, i int) domain.Phase {
	switch {
	case g.IsSource(i):
		return domain.PhasePlanning
	case g.IsSink(i):
		return domain.PhaseReview
	default:
		return domain.PhaseExecution
	}
}

func assignPriorities(tasks []Task, g *Graph) {
	n := len(tasks)
	ranked := make([]int, n)
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		i, j := ranked[a], ranked[b]
		di, dj := g.Degree(i), g.Degree(j)
		if di != dj {
			return di > dj
		}
		if tasks[i].Duration != tasks[j].Duration {
			return tasks[i].Duration > tasks[j].Duration
		}
		return tasks[i].ID.Less(tasks[j].ID)
	})

	for rank, i := range ranked {
		if tasks[i].hintedPriority {
			continue
		}
		switch (rank * 3) / n {
		case 0:
			tasks[i].Priority = domain.PriorityHigh
		case 1:
			tasks[i].Priority = domain.PriorityMedium
		default:
			tasks[i].Priority = domain.PriorityLow
		}
	}
}
