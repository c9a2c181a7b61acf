package plan

import (
	"container/heap"

	"github.com/felixgeelhaar/taskplan/internal/domain"
	"github.com/felixgeelhaar/taskplan/internal/errors"
)

// Graph is a compact adjacency representation over validated tasks.
//
// Nodes are integer indices into an id-sorted arena; the id-sorted layout
// makes every traversal that visits nodes in index order lexicographically
// deterministic with no extra sorting.
type Graph struct {
	ids        []domain.TaskID
	index      map[domain.TaskID]int
	deps       [][]int // deps[i]: indices task i depends on
	dependents [][]int // dependents[i]: indices that depend on task i
}

// NewGraph builds the dependency graph from validated tasks and rejects
// cycles. Tasks must already be id-sorted and free of dangling references,
// as produced by Validate.
func NewGraph(tasks []Task) (*Graph, error) {
	g := &Graph{
		ids:        make([]domain.TaskID, len(tasks)),
		index:      make(map[domain.TaskID]int, len(tasks)),
		deps:       make([][]int, len(tasks)),
		dependents: make([][]int, len(tasks)),
	}
	for i, t := range tasks {
		g.ids[i] = t.ID
		g.index[t.ID] = i
	}
	for i, t := range tasks {
		if len(t.DependencyIDs) == 0 {
			continue
		}
		g.deps[i] = make([]int, 0, len(t.DependencyIDs))
		for _, dep := range t.DependencyIDs {
			j := g.index[dep]
			g.deps[i] = append(g.deps[i], j)
			g.dependents[j] = append(g.dependents[j], i)
		}
	}

	if cycle := g.findCycle(); cycle != nil {
		return nil, errors.NewCyclicDependencyError(cycle)
	}
	return g, nil
}

// Len returns the node count.
func (g *Graph) Len() int { return len(g.ids) }

// ID returns the task id at arena index i.
func (g *Graph) ID(i int) domain.TaskID { return g.ids[i] }

// Index returns the arena index of a task id.
func (g *Graph) Index(id domain.TaskID) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// Deps returns the indices task i depends on.
func (g *Graph) Deps(i int) []int { return g.deps[i] }

// Dependents returns the indices that depend on task i.
func (g *Graph) Dependents(i int) []int { return g.dependents[i] }

// Degree returns the combined fan-in plus fan-out of task i.
func (g *Graph) Degree(i int) int { return len(g.deps[i]) + len(g.dependents[i]) }

// IsSource reports whether task i has no dependencies.
func (g *Graph) IsSource(i int) bool { return len(g.deps[i]) == 0 }

// IsSink reports whether no task depends on task i.
func (g *Graph) IsSink(i int) bool { return len(g.dependents[i]) == 0 }

// Node colors for the iterative cycle search.
const (
	colorWhite = iota // unvisited
	colorGray         // on the current traversal stack
	colorBlack        // fully explored
)

// findCycle runs an iterative three-color depth-first search over the
// dependency edges and returns the first cycle found as an id path closed on
// its first element, or nil when the graph is acyclic.
//
// Roots are tried in index (id) order and neighbor lists are traversed in
// insertion order, so the witness cycle is stable for a given input.
func (g *Graph) findCycle() []string {
	n := len(g.ids)
	color := make([]int, n)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = -1
	}

	type frame struct {
		node int
		next int // next dependency edge to explore
	}

	for root := 0; root < n; root++ {
		if color[root] != colorWhite {
			continue
		}
		stack := []frame{{node: root}}
		color[root] = colorGray

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(g.deps[top.node]) {
				next := g.deps[top.node][top.next]
				top.next++
				switch color[next] {
				case colorWhite:
					color[next] = colorGray
					parent[next] = top.node
					stack = append(stack, frame{node: next})
				case colorGray:
					return g.buildCycle(parent, top.node, next)
				}
				continue
			}
			color[top.node] = colorBlack
			stack = stack[:len(stack)-1]
		}
	}
	return nil
}

// buildCycle walks parent links from the back edge's tail up to its head and
// returns the cycle in dependency order, closed on the starting id.
func (g *Graph) buildCycle(parent []int, from, to int) []string {
	var rev []int
	for node := from; node != to; node = parent[node] {
		rev = append(rev, node)
	}
	rev = append(rev, to)

	cycle := make([]string, 0, len(rev)+1)
	for i := len(rev) - 1; i >= 0; i-- {
		cycle = append(cycle, g.ids[rev[i]].String())
	}
	cycle = append(cycle, g.ids[to].String())
	return cycle
}

// TopologicalOrder returns node indices in dependency order. Among nodes
// whose dependencies are all satisfied, the lexicographically smallest id is
// emitted first, so the order is unique for a given graph.
func (g *Graph) TopologicalOrder() []int {
	n := len(g.ids)
	indegree := make([]int, n)
	for i := 0; i < n; i++ {
		indegree[i] = len(g.deps[i])
	}

	ready := &intMinHeap{}
	heap.Init(ready)
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			heap.Push(ready, i)
		}
	}

	order := make([]int, 0, n)
	for ready.Len() > 0 {
		i := heap.Pop(ready).(int)
		order = append(order, i)
		for _, j := range g.dependents[i] {
			indegree[j]--
			if indegree[j] == 0 {
				heap.Push(ready, j)
			}
		}
	}
	return order
}

// intMinHeap yields the smallest arena index first; because the arena is
// id-sorted, index order is id order.
type intMinHeap []int

func (h intMinHeap) Len() int           { return len(h) }
func (h intMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intMinHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
