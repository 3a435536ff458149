package scheduler

import (
	log "github.com/sirupsen/logrus"

	"github.com/twitter/procsim/common/stats"
	"github.com/twitter/procsim/sched/domain"
	"github.com/twitter/procsim/sched/journal"
	"github.com/twitter/procsim/sched/queue"
)

// Outcome describes what an applied command did.
type Outcome int

const (
	Applied Outcome = iota
	// A tick with nothing to run. Time did not advance.
	Idle
)

func (o Outcome) String() string {
	if o == Idle {
		return "idle"
	}
	return "applied"
}

// Result is produced by every successfully applied command.
// Snapshot is set for Report, Summary for Summarize.
type Result struct {
	Command  domain.Command
	Outcome  Outcome
	Snapshot *Snapshot
	Summary  *Summary
}

type runningSlot struct {
	pid     domain.PID
	elapsed int64
	quantum int64
}

// Engine is the scheduler state machine. It owns the process table, the
// ready bank, one blocked bank per resource, and the running slot.
//
// Engine Concurrency: an Engine is not safe for concurrent use. Commands must
// be applied one at a time, and Snapshot/Summary must be called between
// commands, never during one.
type Engine struct {
	config SchedulerConfig

	// Scheduler State
	time    int64
	records map[domain.PID]*domain.ProcessRecord
	ready   *queue.Bank
	blocked []*queue.Bank
	running *runningSlot

	// accumulators, never reset within a run
	admitted      int64
	completed     int64
	turnaroundSum int64
	terminated    bool

	journal journal.Journal
	stat    stats.StatsReceiver
}

// NewEngine creates an engine at time 0 with empty queues.
// A nil journal discards events, a nil stats receiver records nothing.
func NewEngine(config SchedulerConfig, j journal.Journal, stat stats.StatsReceiver) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if j == nil {
		j = journal.MakeNopJournal()
	}
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	blocked := make([]*queue.Bank, config.Resources)
	for i := range blocked {
		blocked[i] = queue.NewBank(config.Levels())
	}
	log.Debugf("creating scheduler engine, %s", config)
	return &Engine{
		config:  config,
		records: make(map[domain.PID]*domain.ProcessRecord),
		ready:   queue.NewBank(config.Levels()),
		blocked: blocked,
		journal: j,
		stat:    stat,
	}, nil
}

func (e *Engine) Config() SchedulerConfig {
	return e.config
}

// Time is the current logical time.
func (e *Engine) Time() int64 {
	return e.time
}

// Terminated is true once Summarize has been applied.
func (e *Engine) Terminated() bool {
	return e.terminated
}

// Running returns a copy of the running process's record.
func (e *Engine) Running() (domain.ProcessRecord, bool) {
	if e.running == nil {
		return domain.ProcessRecord{}, false
	}
	return *e.records[e.running.pid], true
}

// Process returns a copy of the record for pid, live or completed.
func (e *Engine) Process(pid domain.PID) (domain.ProcessRecord, error) {
	rec, ok := e.records[pid]
	if !ok {
		return domain.ProcessRecord{}, domain.NewError(domain.UnknownPid, "no process with pid %d", pid)
	}
	return *rec, nil
}

// Live is the number of admitted processes that have not completed.
func (e *Engine) Live() int64 {
	return e.admitted - e.completed
}

// Apply runs one command to completion. On error the engine state is unchanged.
func (e *Engine) Apply(cmd domain.Command) (Result, error) {
	defer e.stat.Latency(stats.SchedCommandLatency_ms).Time().Stop()

	result := Result{Command: cmd, Outcome: Applied}
	var err error
	if e.terminated {
		err = domain.NewError(domain.Terminated, "no commands are accepted after summarize, got %q", cmd)
	} else {
		switch cmd.Type {
		case domain.AdmitCmd:
			err = e.Admit(cmd.PID, cmd.Value, cmd.RunTime)
		case domain.BlockCmd:
			err = e.Block(cmd.Resource)
		case domain.UnblockCmd:
			err = e.Unblock(cmd.Resource)
		case domain.TickCmd:
			result.Outcome, err = e.Tick()
		case domain.ComputeCmd:
			result.Outcome, err = e.Compute(cmd.Op, cmd.Operand)
		case domain.ReportCmd:
			snap := e.Snapshot()
			result.Snapshot = &snap
		case domain.SummarizeCmd:
			sum := e.Summarize()
			result.Summary = &sum
		default:
			err = domain.NewError(domain.MalformedCommand, "unknown command type %d", int(cmd.Type))
		}
	}

	if err != nil {
		e.stat.Counter(stats.SchedCommandErrCounter).Inc(1)
		e.record(journal.Event{Type: journal.Rejected, Detail: err.Error()})
		log.WithFields(log.Fields{
			"command": cmd.String(),
			"tick":    e.time,
		}).Infof("command refused: %v", err)
		return Result{Command: cmd}, err
	}
	e.updateGauges()
	return result, nil
}

// Admit creates a process at priority 0 and either runs it or queues it in ready lane 0.
func (e *Engine) Admit(pid domain.PID, value, runTime int64) error {
	if pid < 0 {
		return domain.NewError(domain.MalformedCommand, "pid must not be negative, got %d", pid)
	}
	if runTime < 0 {
		return domain.NewError(domain.MalformedCommand, "run time must not be negative, got %d", runTime)
	}
	if e.config.MaxPid > 0 && int(pid) >= e.config.MaxPid {
		return domain.NewError(domain.IndexOutOfRange, "pid %d outside [0, %d)", pid, e.config.MaxPid)
	}
	if rec, ok := e.records[pid]; ok && !rec.Completed {
		return domain.NewError(domain.DuplicatePid, "pid %d is already live", pid)
	}

	rec := domain.NewProcessRecord(pid, value, runTime, e.time)
	e.records[pid] = rec
	e.admitted++
	e.stat.Counter(stats.SchedAdmittedCounter).Inc(1)
	e.record(journal.Event{Type: journal.Admitted, PID: pid, Priority: rec.Priority})

	if e.running == nil {
		e.dispatch(pid)
		return nil
	}
	return e.ready.Enqueue(pid, rec.Priority)
}

// Block moves the running process into the blocked bank for resource.
func (e *Engine) Block(resource int) error {
	if err := e.checkResource(resource); err != nil {
		return err
	}
	if e.running == nil {
		return domain.NewError(domain.NoRunningProcess, "nothing to block on resource %d", resource)
	}

	pid := e.running.pid
	rec := e.records[pid]
	rec.DecrementPriority()
	if err := e.blocked[resource].Enqueue(pid, rec.Priority); err != nil {
		return err
	}
	e.running = nil
	e.stat.Counter(stats.SchedBlockCounter).Inc(1)
	e.record(journal.Event{Type: journal.Blocked, PID: pid, Priority: rec.Priority, Resource: resource})
	e.dispatchNext()
	return nil
}

// Unblock releases the head of resource's blocked bank.
func (e *Engine) Unblock(resource int) error {
	if err := e.checkResource(resource); err != nil {
		return err
	}
	pid, ok := e.blocked[resource].Dequeue()
	if !ok {
		return domain.NewError(domain.EmptyBlockedQueue, "no process is blocked on resource %d", resource)
	}

	rec := e.records[pid]
	e.stat.Counter(stats.SchedUnblockCounter).Inc(1)
	e.record(journal.Event{Type: journal.Unblocked, PID: pid, Priority: rec.Priority, Resource: resource})
	if e.running == nil {
		e.dispatch(pid)
		return nil
	}
	return e.ready.Enqueue(pid, rec.Priority)
}

// Tick advances logical time by one unit on behalf of the running process.
func (e *Engine) Tick() (Outcome, error) {
	if e.running == nil {
		pid, ok := e.ready.Dequeue()
		if !ok {
			e.stat.Counter(stats.SchedIdleTickCounter).Inc(1)
			e.record(journal.Event{Type: journal.Idle})
			return Idle, nil
		}
		e.dispatch(pid)
	}

	e.time++
	slot := e.running
	rec := e.records[slot.pid]
	slot.elapsed++
	rec.CPUTime++

	if rec.Finished() {
		e.retire(rec)
		e.dispatchNext()
		return Applied, nil
	}

	if slot.elapsed >= slot.quantum {
		rec.IncrementPriority(domain.Priority(e.config.Levels() - 1))
		e.running = nil
		if err := e.ready.Enqueue(rec.PID, rec.Priority); err != nil {
			return Applied, err
		}
		e.stat.Counter(stats.SchedPreemptCounter).Inc(1)
		e.record(journal.Event{Type: journal.Preempted, PID: rec.PID, Priority: rec.Priority})
		e.dispatchNext()
	}
	return Applied, nil
}

// Compute applies op to the running process's value, then ticks once.
func (e *Engine) Compute(op domain.ComputeOp, operand int64) (Outcome, error) {
	if e.running == nil {
		return Applied, domain.NewError(domain.NoRunningProcess, "nothing to %s", op)
	}
	rec := e.records[e.running.pid]
	value, err := op.Apply(rec.Value, operand)
	if err != nil {
		return Applied, err
	}
	rec.Value = value
	e.record(journal.Event{Type: journal.Computed, PID: rec.PID, Priority: rec.Priority,
		Detail: domain.Compute(op, operand).String()})
	return e.Tick()
}

// Summarize returns the final statistics and stops the engine from accepting commands.
func (e *Engine) Summarize() Summary {
	e.terminated = true
	e.record(journal.Event{Type: journal.Summarized})
	log.Infof("scheduler summarized at time %d: %d of %d processes completed", e.time, e.completed, e.admitted)
	return e.Summary()
}

func (e *Engine) checkResource(resource int) error {
	if resource < 0 || resource >= len(e.blocked) {
		return domain.NewError(domain.IndexOutOfRange, "resource %d outside [0, %d)", resource, len(e.blocked))
	}
	return nil
}

// dispatch puts pid in the running slot with a fresh quantum for its current priority.
func (e *Engine) dispatch(pid domain.PID) {
	rec := e.records[pid]
	e.running = &runningSlot{pid: pid, quantum: e.config.Quantum(rec.Priority)}
	e.stat.Counter(stats.SchedDispatchCounter).Inc(1)
	e.record(journal.Event{Type: journal.Dispatched, PID: pid, Priority: rec.Priority})
}

// dispatchNext fills the running slot from ready, leaving it empty if ready is empty.
func (e *Engine) dispatchNext() {
	e.running = nil
	if pid, ok := e.ready.Dequeue(); ok {
		e.dispatch(pid)
	}
}

func (e *Engine) retire(rec *domain.ProcessRecord) {
	rec.Completed = true
	rec.EndTime = e.time
	turnaround := rec.Turnaround()
	e.turnaroundSum += turnaround
	e.completed++
	e.running = nil

	e.stat.Counter(stats.SchedCompletedCounter).Inc(1)
	e.stat.Histogram(stats.SchedTurnaroundHistogram).Update(turnaround)
	e.record(journal.Event{Type: journal.Completed, PID: rec.PID, Priority: rec.Priority})
}

func (e *Engine) record(ev journal.Event) {
	ev.Time = e.time
	e.journal.Record(ev)
	log.WithFields(log.Fields{
		"tick":     ev.Time,
		"event":    ev.Type,
		"pid":      ev.PID,
		"priority": ev.Priority,
	}).Debug("scheduler transition")
}

func (e *Engine) updateGauges() {
	blocked := 0
	for _, b := range e.blocked {
		blocked += b.Len()
	}
	e.stat.Gauge(stats.SchedReadyGauge).Update(int64(e.ready.Len()))
	e.stat.Gauge(stats.SchedBlockedGauge).Update(int64(blocked))
	e.stat.Gauge(stats.SchedTimeGauge).Update(e.time)
	e.stat.GaugeFloat(stats.SchedAvgTurnaroundGauge).Update(e.Summary().AverageTurnaround)
}
