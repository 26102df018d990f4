package hy

import "container/heap"

// Efficiency tracks how productive sampling a column has been. Window is the
// row distance inside a cluster compared in the last run; Comparisons and
// Results count the pairs compared and the new witnesses found in that run.
type Efficiency struct {
	Attr        int
	Window      int
	Comparisons int
	Results     int
	// MaxCluster is the largest cluster of the column; windows at or beyond
	// it compare nothing.
	MaxCluster int
}

// Score is the ratio of new witnesses per comparison of the last run.
func (e Efficiency) Score() float64 {
	if e.Comparisons == 0 {
		return 0
	}
	return float64(e.Results) / float64(e.Comparisons)
}

// Exhausted reports whether widening the window once more compares no pair.
func (e Efficiency) Exhausted() bool {
	return e.Window+1 >= e.MaxCluster
}

// Next returns the record after a run at window e.Window+1.
func (e Efficiency) Next(comparisons, results int) Efficiency {
	e.Window++
	e.Comparisons = comparisons
	e.Results = results
	return e
}

// efficiencyQueue is a max-heap by Score; ties go to the lower attribute so
// the pop order is deterministic.
type efficiencyQueue []Efficiency

func (q efficiencyQueue) Len() int { return len(q) }

func (q efficiencyQueue) Less(i, j int) bool {
	si, sj := q[i].Score(), q[j].Score()
	if si != sj {
		return si > sj
	}
	return q[i].Attr < q[j].Attr
}

func (q efficiencyQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *efficiencyQueue) Push(x interface{}) { *q = append(*q, x.(Efficiency)) }

func (q *efficiencyQueue) Pop() interface{} {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}

func (q *efficiencyQueue) push(e Efficiency) { heap.Push(q, e) }

func (q *efficiencyQueue) pop() Efficiency { return heap.Pop(q).(Efficiency) }
