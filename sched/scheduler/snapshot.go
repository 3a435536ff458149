package scheduler

import (
	"github.com/twitter/procsim/sched/domain"
)

// Lane is one priority level of a bank, in dequeue order.
type Lane struct {
	Priority  domain.Priority        `json:"priority"`
	Processes []domain.ProcessRecord `json:"processes"`
}

// ResourceQueue is the blocked bank of one resource.
type ResourceQueue struct {
	Resource int    `json:"resource"`
	Lanes    []Lane `json:"lanes"`
}

// Waiting flattens the lanes in dequeue order.
func (r ResourceQueue) Waiting() []domain.ProcessRecord {
	var out []domain.ProcessRecord
	for _, l := range r.Lanes {
		out = append(out, l.Processes...)
	}
	return out
}

func (r ResourceQueue) Empty() bool {
	for _, l := range r.Lanes {
		if len(l.Processes) > 0 {
			return false
		}
	}
	return true
}

// Snapshot is a read-only copy of engine state taken between two commands.
// Nothing in it aliases engine memory.
type Snapshot struct {
	Time    int64                 `json:"time"`
	Running *domain.ProcessRecord `json:"running"`
	// ticks used on the current dispatch and the budget it was given
	Elapsed int64           `json:"elapsed"`
	Quantum int64           `json:"quantum"`
	Ready   []Lane          `json:"ready"`
	Blocked []ResourceQueue `json:"blocked"`
}

// Summary holds the run's turnaround statistics.
type Summary struct {
	Time              int64   `json:"time"`
	Admitted          int64   `json:"admitted"`
	Completed         int64   `json:"completed"`
	TurnaroundSum     int64   `json:"turnaroundSum"`
	AverageTurnaround float64 `json:"averageTurnaround"`
}

// Snapshot copies the current state. It never mutates the engine.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Time:    e.time,
		Ready:   make([]Lane, 0, e.ready.Levels()),
		Blocked: make([]ResourceQueue, 0, len(e.blocked)),
	}
	if e.running != nil {
		rec := *e.records[e.running.pid]
		snap.Running = &rec
		snap.Elapsed = e.running.elapsed
		snap.Quantum = e.running.quantum
	}
	for level := 0; level < e.ready.Levels(); level++ {
		snap.Ready = append(snap.Ready, e.lane(e.ready.Snapshot(domain.Priority(level)), level))
	}
	for rid, b := range e.blocked {
		rq := ResourceQueue{Resource: rid, Lanes: make([]Lane, 0, b.Levels())}
		for level := 0; level < b.Levels(); level++ {
			rq.Lanes = append(rq.Lanes, e.lane(b.Snapshot(domain.Priority(level)), level))
		}
		snap.Blocked = append(snap.Blocked, rq)
	}
	return snap
}

func (e *Engine) lane(pids []domain.PID, level int) Lane {
	l := Lane{Priority: domain.Priority(level), Processes: make([]domain.ProcessRecord, 0, len(pids))}
	for _, pid := range pids {
		l.Processes = append(l.Processes, *e.records[pid])
	}
	return l
}

// Summary reports turnaround statistics without terminating the engine.
// The average is 0 when nothing has completed.
func (e *Engine) Summary() Summary {
	s := Summary{
		Time:          e.time,
		Admitted:      e.admitted,
		Completed:     e.completed,
		TurnaroundSum: e.turnaroundSum,
	}
	if e.completed > 0 {
		s.AverageTurnaround = float64(e.turnaroundSum) / float64(e.completed)
	}
	return s
}

// Locate reports where pid currently is: "running", "ready", "blocked" with
// its resource, or "" when it is in no queue.
func (e *Engine) Locate(pid domain.PID) (where string, resource int) {
	if e.running != nil && e.running.pid == pid {
		return "running", 0
	}
	if e.ready.Contains(pid) {
		return "ready", 0
	}
	for rid, b := range e.blocked {
		if b.Contains(pid) {
			return "blocked", rid
		}
	}
	return "", 0
}
