package trader

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// ExitTask is a one-shot delayed price re-check for a symbol bought earlier
// in the session: if the price has reached Target by the time the task comes
// due, the position is sold. Tasks replace the ad-hoc nested timers this logic
// would otherwise need, so re-checks are driven from the trade cycle and stay
// deterministic under test.
type ExitTask struct {
	Symbol    string
	Target    decimal.Decimal
	NotBefore time.Time // earliest time the re-check may run
	Deadline  time.Time // after this the task is dropped without action
}

// ExitQueue holds at most one pending ExitTask per symbol.
type ExitQueue struct {
	mu    sync.Mutex
	tasks map[string]ExitTask
}

func NewExitQueue() *ExitQueue {
	return &ExitQueue{tasks: make(map[string]ExitTask)}
}

// Schedule registers a task, replacing any pending task for the same symbol.
func (q *ExitQueue) Schedule(t ExitTask) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks[t.Symbol] = t
}

// Due pops and returns every task whose re-check window has opened at now.
// Tasks past their deadline are silently dropped. Results are ordered by
// symbol so callers behave the same from run to run.
func (q *ExitQueue) Due(now time.Time) []ExitTask {
	q.mu.Lock()
	defer q.mu.Unlock()

	var due []ExitTask
	for symbol, t := range q.tasks {
		if now.After(t.Deadline) {
			delete(q.tasks, symbol)
			continue
		}
		if now.Before(t.NotBefore) {
			continue
		}
		due = append(due, t)
		delete(q.tasks, symbol)
	}

	sort.Slice(due, func(i, j int) bool { return due[i].Symbol < due[j].Symbol })
	return due
}

// Cancel removes any pending task for the symbol, e.g. after the position
// was sold through the regular decision path.
func (q *ExitQueue) Cancel(symbol string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.tasks, symbol)
}

// Len reports the number of pending tasks.
func (q *ExitQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
