package dag

import (
	"errors"
	"sort"

	"quaformat/internal"
)

// ErrCycle is returned when job dependencies loop back on themselves.
var ErrCycle = errors.New("cycle detected in job dependencies")

type DAG struct {
	Jobs  map[string]*internal.Job
	Edges map[string][]string
}

func NewDAG(jobs []internal.Job) (*DAG, error) {
	d := &DAG{
		Jobs:  map[string]*internal.Job{},
		Edges: map[string][]string{},
	}
	for i := range jobs {
		j := &jobs[i]
		d.Jobs[j.Name] = j
		d.Edges[j.Name] = j.DependsOn
	}
	for n, deps := range d.Edges {
		for _, dep := range deps {
			if _, ok := d.Jobs[dep]; !ok {
				return nil, errors.New("job " + n + " depends on unknown job " + dep)
			}
		}
	}
	if hasCycle(d) {
		return nil, ErrCycle
	}
	return d, nil
}

func hasCycle(d *DAG) bool {
	visited := make(map[string]bool)
	stack := make(map[string]bool)
	var visit func(string) bool
	visit = func(n string) bool {
		if stack[n] {
			return true
		}
		if visited[n] {
			return false
		}
		visited[n] = true
		stack[n] = true
		for _, dep := range d.Edges[n] {
			if visit(dep) {
				return true
			}
		}
		stack[n] = false
		return false
	}
	for n := range d.Jobs {
		if visit(n) {
			return true
		}
	}
	return false
}

// TopoSort orders job names so every job follows its dependencies. Ties are
// broken by name.
func TopoSort(d *DAG) ([]string, error) {
	inDegree := make(map[string]int)
	children := make(map[string][]string)
	for n := range d.Jobs {
		inDegree[n] = 0
	}
	for n, deps := range d.Edges {
		for _, dep := range deps {
			inDegree[n]++
			children[dep] = append(children[dep], n)
		}
	}
	var queue []string
	var zeroNodes []string
	for n, deg := range inDegree {
		if deg == 0 {
			zeroNodes = append(zeroNodes, n)
		}
	}
	sort.Strings(zeroNodes)
	queue = append(queue, zeroNodes...)
	var order []string
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		childs := append([]string{}, children[n]...)
		sort.Strings(childs)
		for _, child := range childs {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	if len(order) != len(d.Jobs) {
		return nil, ErrCycle
	}
	return order, nil
}
